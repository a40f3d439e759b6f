package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"userstore-etl/internal/domains/person"
)

var header = []string{
	"uuid", "title", "first_name", "last_name", "gender", "email", "phone", "cell",
	"dob", "age", "generation", "nat",
	"state", "city", "street_number", "street_name", "postcode",
	"latitude", "longitude", "timezone_offset", "timezone_description", "country",
	"dni_name", "dni_value",
}

func row(p person.Person) []string {
	return []string{
		p.UUID, p.Title, p.FirstName, p.LastName, p.Gender, p.Email, p.Phone, p.Cell,
		p.DOB.Format(time.RFC3339), strconv.Itoa(p.Age), p.Generation, p.Nat,
		p.State, p.City, p.StreetNumber, p.StreetName, p.Postcode,
		strconv.FormatFloat(p.Latitude, 'f', -1, 64),
		strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		p.TimezoneOffset, p.TimezoneDescription, p.Country,
		p.DNIName, p.DNIValue,
	}
}

// Write saves the transformed batch to a timestamped file in dir.
// Supported formats: csv, json, xlsx. Returns the file path.
func Write(people []person.Person, format, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("users_%s.%s", timestamp, format))

	var err error
	switch format {
	case "csv":
		err = writeCSV(path, people)
	case "json":
		err = writeJSON(path, people)
	case "xlsx":
		err = writeXLSX(path, people)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}

	log.Info().Str("path", path).Int("records", len(people)).Msg("Batch exported")
	return path, nil
}

func writeCSV(path string, people []person.Person) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range people {
		if err := w.Write(row(p)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, people []person.Person) error {
	data, err := json.MarshalIndent(people, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write json file: %w", err)
	}
	return nil
}

func writeXLSX(path string, people []person.Person) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, p := range people {
		values := row(p)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx file: %w", err)
	}
	return nil
}
