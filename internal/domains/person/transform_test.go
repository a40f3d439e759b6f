package person

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawPerson {
	return RawPerson{
		Gender: "female",
		Name:   RawName{Title: "Ms", First: "Lucia", Last: "Fernandez"},
		Location: RawLocation{
			Street:   RawStreet{Number: "1234", Name: "Calle de la Luna"},
			City:     "Valencia",
			State:    "Comunidad Valenciana",
			Country:  "Spain",
			Postcode: "46001",
			Coordinates: RawCoordinates{
				Latitude:  "-34.6037",
				Longitude: "58.3816",
			},
			Timezone: RawTimezone{Offset: "+1:00", Description: "Brussels, Copenhagen, Madrid, Paris"},
		},
		Email:      "lucia.fernandez@example.com",
		Login:      RawLogin{UUID: "8b9c3a6e-5f2d-4c1b-9e8a-7d6f5c4b3a21", Username: "luciaf"},
		DOB:        RawDate{Date: "1993-07-20T09:44:18.674Z", Age: 32},
		Registered: RawDate{Date: "2015-03-11T01:22:47.000Z", Age: 11},
		Phone:      "961-234-567",
		Cell:       "678-901-234",
		ID:         RawIdentifier{Name: "DNI", Value: "12345678-Z"},
		Nat:        "ES",
	}
}

func TestTransform(t *testing.T) {
	p, err := Transform(validRaw())
	require.NoError(t, err)

	assert.Equal(t, "8b9c3a6e-5f2d-4c1b-9e8a-7d6f5c4b3a21", p.UUID)
	assert.Equal(t, "Ms", p.Title)
	assert.Equal(t, "Lucia", p.FirstName)
	assert.Equal(t, "Fernandez", p.LastName)
	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "lucia.fernandez@example.com", p.Email)
	assert.Equal(t, "961-234-567", p.Phone)
	assert.Equal(t, "678-901-234", p.Cell)
	assert.Equal(t, 1993, p.DOB.Year())
	assert.Equal(t, 32, p.Age)
	assert.Equal(t, "millennial", p.Generation)
	assert.Equal(t, "ES", p.Nat)
	assert.Equal(t, "Comunidad Valenciana", p.State)
	assert.Equal(t, "Valencia", p.City)
	assert.Equal(t, "1234", p.StreetNumber)
	assert.Equal(t, "Calle de la Luna", p.StreetName)
	assert.Equal(t, "46001", p.Postcode)
	assert.InDelta(t, -34.6037, p.Latitude, 1e-9)
	assert.InDelta(t, 58.3816, p.Longitude, 1e-9)
	assert.Equal(t, "+1:00", p.TimezoneOffset)
	assert.Equal(t, "Brussels, Copenhagen, Madrid, Paris", p.TimezoneDescription)
	assert.Equal(t, "Spain", p.Country)
	assert.Equal(t, "DNI", p.DNIName)
	assert.Equal(t, "12345678-Z", p.DNIValue)

	require.NoError(t, p.Validate())
}

func TestTransformRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RawPerson)
		wantErr error
	}{
		{"missing login uuid", func(r *RawPerson) { r.Login.UUID = "" }, ErrMissingUUID},
		{"missing email", func(r *RawPerson) { r.Email = "" }, ErrMissingEmail},
		{"missing id value", func(r *RawPerson) { r.ID.Value = "" }, ErrMissingDNIValue},
		{"bad dob", func(r *RawPerson) { r.DOB.Date = "not-a-date" }, ErrInvalidDOB},
		{"bad latitude", func(r *RawPerson) { r.Location.Coordinates.Latitude = "north" }, ErrInvalidLatitude},
		{"bad longitude", func(r *RawPerson) { r.Location.Coordinates.Longitude = "" }, ErrInvalidLongitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(&raw)

			_, err := Transform(raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransformBatchDropsFailuresAndKeepsOrder(t *testing.T) {
	good1 := validRaw()
	good1.Email = "first@example.com"

	bad := validRaw()
	bad.ID.Value = ""

	good2 := validRaw()
	good2.Email = "second@example.com"

	people := TransformBatch([]RawPerson{good1, bad, good2})

	require.Len(t, people, 2)
	assert.Equal(t, "first@example.com", people[0].Email)
	assert.Equal(t, "second@example.com", people[1].Email)
}

func TestTransformBatchEmpty(t *testing.T) {
	assert.Empty(t, TransformBatch(nil))
}

func TestGenerationBoundaries(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1930, "silent"},
		{1945, "silent"},
		{1946, "baby_boomer"},
		{1964, "baby_boomer"},
		{1965, "x"},
		{1980, "x"},
		{1981, "millennial"},
		{1996, "millennial"},
		{1997, "z"},
		{2012, "z"},
		{2013, "alpha"},
		{2020, "alpha"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Generation(tt.year), "year %d", tt.year)
	}
}

func TestFlexStringDecodesStringsAndNumbers(t *testing.T) {
	var loc RawLocation

	require.NoError(t, json.Unmarshal([]byte(`{"postcode": "EH1 2NG"}`), &loc))
	assert.Equal(t, "EH1 2NG", loc.Postcode.String())

	require.NoError(t, json.Unmarshal([]byte(`{"postcode": 90210}`), &loc))
	assert.Equal(t, "90210", loc.Postcode.String())

	require.NoError(t, json.Unmarshal([]byte(`{"postcode": null}`), &loc))
	assert.Equal(t, "", loc.Postcode.String())
}

func TestRawPersonDecode(t *testing.T) {
	payload := `{
		"gender": "male",
		"name": {"title": "Mr", "first": "Jon", "last": "Snow"},
		"location": {
			"street": {"number": 42, "name": "Wall Street"},
			"city": "Winterfell",
			"state": "The North",
			"country": "Westeros",
			"postcode": 12345,
			"coordinates": {"latitude": "12.5", "longitude": "-7.25"},
			"timezone": {"offset": "0:00", "description": "Westeros Standard Time"}
		},
		"email": "jon.snow@example.com",
		"login": {"uuid": "d9f1c2b3-aaaa-bbbb-cccc-111122223333", "username": "kinginthenorth"},
		"dob": {"date": "1990-01-01T00:00:00.000Z", "age": 36},
		"registered": {"date": "2012-05-05T10:00:00.000Z", "age": 14},
		"phone": "555-0100",
		"cell": "555-0101",
		"id": {"name": "SSN", "value": "999-99-9999"},
		"nat": "GB"
	}`

	var raw RawPerson
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	p, err := Transform(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", p.StreetNumber)
	assert.Equal(t, "12345", p.Postcode)
	assert.Equal(t, "millennial", p.Generation)
	assert.Equal(t, time.January, p.DOB.Month())
}
