// Package common holds the CSV plumbing shared by the scenario loader, the
// CLI and the batch runner.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/levpartflip/internal/logging"

	"github.com/gocarina/gocsv"
)

// Delimiter separates fields in every CSV read or written. It is set once
// from configuration at startup.
var Delimiter rune = ','

// SetDelimiter changes the CSV field separator.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ReadCSV decodes rows of TRow from r using gocsv struct tags.
func ReadCSV[TRow any](r io.Reader) ([]TRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.TrimLeadingSpace = true

	var rows []TRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// ReadCSVFile reads filePath into a slice of TRow.
func ReadCSVFile[TRow any](filePath string, logger logging.Logger) ([]TRow, error) {
	log := logger.WithField(logging.FieldInputFile, filePath)

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the scenario file
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ReadCSV[TRow](file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	log.Debug("Read CSV file", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// WriteCSV encodes rows to w with the configured delimiter.
func WriteCSV[TRow any](w io.Writer, rows []TRow) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteCSVFile writes rows to filePath, creating parent directories.
func WriteCSVFile[TRow any](filePath string, rows []TRow, logger logging.Logger) error {
	return writeFile(filePath, logger, func(w io.Writer) error {
		return WriteCSV(w, rows)
	})
}

func writeFile(filePath string, logger logging.Logger, write func(io.Writer) error) error {
	log := logger.WithFields(
		logging.F(logging.FieldOutputFile, filePath),
		logging.F(logging.FieldDelimiter, string(Delimiter)),
	)

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(filePath) // #nosec G304 -- output path chosen by the user
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := write(file); err != nil {
		return err
	}
	log.Debug("Wrote CSV file")
	return nil
}
