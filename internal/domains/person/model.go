package person

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RawPerson mirrors one person document as returned by the source API.
// The schema is owned by the API, not by us; fields we never use
// (picture URLs, login hashes) are decoded and ignored downstream.
type RawPerson struct {
	Gender     string        `json:"gender"`
	Name       RawName       `json:"name"`
	Location   RawLocation   `json:"location"`
	Email      string        `json:"email"`
	Login      RawLogin      `json:"login"`
	DOB        RawDate       `json:"dob"`
	Registered RawDate       `json:"registered"`
	Phone      string        `json:"phone"`
	Cell       string        `json:"cell"`
	ID         RawIdentifier `json:"id"`
	Picture    RawPicture    `json:"picture"`
	Nat        string        `json:"nat"`
}

type RawName struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

type RawLocation struct {
	Street      RawStreet      `json:"street"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	Country     string         `json:"country"`
	Postcode    FlexString     `json:"postcode"`
	Coordinates RawCoordinates `json:"coordinates"`
	Timezone    RawTimezone    `json:"timezone"`
}

type RawStreet struct {
	Number FlexString `json:"number"`
	Name   string     `json:"name"`
}

type RawCoordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type RawTimezone struct {
	Offset      string `json:"offset"`
	Description string `json:"description"`
}

type RawLogin struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

type RawDate struct {
	Date string `json:"date"`
	Age  int    `json:"age"`
}

type RawIdentifier struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type RawPicture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

// FlexString decodes a JSON value that the API serializes as either a
// string or a number depending on nationality (postcodes, street numbers).
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Person is the flat, normalized record produced by Transform. It is
// never mutated after creation.
type Person struct {
	UUID       string `json:"uuid"`
	Title      string `json:"title"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Gender     string `json:"gender"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Cell       string `json:"cell"`

	DOB        time.Time `json:"dob"`
	Age        int       `json:"age"`
	Generation string    `json:"generation"`
	Nat        string    `json:"nat"`

	State               string  `json:"state"`
	City                string  `json:"city"`
	StreetNumber        string  `json:"street_number"`
	StreetName          string  `json:"street_name"`
	Postcode            string  `json:"postcode"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	TimezoneOffset      string  `json:"timezone_offset"`
	TimezoneDescription string  `json:"timezone_description"`
	Country             string  `json:"country"`

	DNIName  string `json:"dni_name"`
	DNIValue string `json:"dni_value"`
}

// Validate gates a record before the loader attempts any write.
func (p Person) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UUID, validation.Required, is.UUID),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.FirstName, validation.Required),
		validation.Field(&p.LastName, validation.Required),
		validation.Field(&p.Country, validation.Required),
		validation.Field(&p.DNIValue, validation.Required),
		validation.Field(&p.Age, validation.Min(0), validation.Max(150)),
	)
}
