package person

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Transform maps one raw API record to a normalized Person. It is a pure
// function: no I/O, no partial results. A record that is missing required
// sub-structure or fails numeric coercion is rejected whole.
func Transform(raw RawPerson) (Person, error) {
	if raw.Login.UUID == "" {
		return Person{}, ErrMissingUUID
	}
	if raw.Email == "" {
		return Person{}, ErrMissingEmail
	}
	if raw.ID.Value == "" {
		return Person{}, ErrMissingDNIValue
	}

	dob, err := time.Parse(time.RFC3339, raw.DOB.Date)
	if err != nil {
		return Person{}, fmt.Errorf("%w: %q", ErrInvalidDOB, raw.DOB.Date)
	}

	lat, err := strconv.ParseFloat(raw.Location.Coordinates.Latitude, 64)
	if err != nil {
		return Person{}, fmt.Errorf("%w: %q", ErrInvalidLatitude, raw.Location.Coordinates.Latitude)
	}

	lng, err := strconv.ParseFloat(raw.Location.Coordinates.Longitude, 64)
	if err != nil {
		return Person{}, fmt.Errorf("%w: %q", ErrInvalidLongitude, raw.Location.Coordinates.Longitude)
	}

	return Person{
		UUID:      raw.Login.UUID,
		Title:     raw.Name.Title,
		FirstName: raw.Name.First,
		LastName:  raw.Name.Last,
		Gender:    raw.Gender,
		Email:     raw.Email,
		Phone:     raw.Phone,
		Cell:      raw.Cell,

		DOB:        dob,
		Age:        raw.DOB.Age,
		Generation: Generation(dob.Year()),
		Nat:        raw.Nat,

		State:               raw.Location.State,
		City:                raw.Location.City,
		StreetNumber:        raw.Location.Street.Number.String(),
		StreetName:          raw.Location.Street.Name,
		Postcode:            raw.Location.Postcode.String(),
		Latitude:            lat,
		Longitude:           lng,
		TimezoneOffset:      raw.Location.Timezone.Offset,
		TimezoneDescription: raw.Location.Timezone.Description,
		Country:             raw.Location.Country,

		DNIName:  raw.ID.Name,
		DNIValue: raw.ID.Value,
	}, nil
}

// TransformBatch applies Transform per element. A failing record is
// dropped and logged; it never discards the rest of the batch. Input
// order is preserved among survivors.
func TransformBatch(raws []RawPerson) []Person {
	people := make([]Person, 0, len(raws))
	for _, raw := range raws {
		p, err := Transform(raw)
		if err != nil {
			log.Warn().
				Err(err).
				Str("uuid", raw.Login.UUID).
				Str("email", raw.Email).
				Msg("Dropping malformed record")
			continue
		}
		people = append(people, p)
	}
	return people
}

// Generation buckets a birth year into a named cohort. Ranges are
// inclusive on both ends; anything before 1946 falls through to silent.
func Generation(year int) string {
	switch {
	case year > 2012:
		return "alpha"
	case year >= 1997:
		return "z"
	case year >= 1981:
		return "millennial"
	case year >= 1965:
		return "x"
	case year >= 1946:
		return "baby_boomer"
	default:
		return "silent"
	}
}
