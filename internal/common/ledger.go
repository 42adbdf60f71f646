package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerPrecision is the number of decimals kept when writing ledger values.
const LedgerPrecision = 6

// WriteLedgerCSV writes the cf_ arrays of res as one line per row and one
// column per year, in ledger order. The column set depends on the horizon, so
// this uses csv.Writer directly rather than gocsv struct tags.
func WriteLedgerCSV(w io.Writer, res models.Results) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter

	years := -1
	for _, r := range cashflow.AllRows() {
		if v, ok := res.Array(r.ArrayName()); ok {
			years = len(v) - 1
			break
		}
	}
	if years < 0 {
		return fmt.Errorf("result has no ledger rows")
	}

	header := make([]string, 0, years+2)
	header = append(header, "row")
	for y := 0; y <= years; y++ {
		header = append(header, strconv.Itoa(y))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range cashflow.AllRows() {
		values, ok := res.Array(r.ArrayName())
		if !ok {
			continue
		}
		line := make([]string, 0, len(values)+1)
		line = append(line, r.String())
		for _, v := range values {
			line = append(line, decimal.NewFromFloat(v).Round(LedgerPrecision).String())
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("error writing row %s: %w", r, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLedgerFile writes the ledger of res to filePath.
func WriteLedgerFile(filePath string, res models.Results, logger logging.Logger) error {
	return writeFile(filePath, logger, func(w io.Writer) error {
		return WriteLedgerCSV(w, res)
	})
}

// ScheduleRecord is one year of every depreciation table.
type ScheduleRecord struct {
	Year    int     `csv:"year"`
	MACRS5  float64 `csv:"macrs_5"`
	MACRS15 float64 `csv:"macrs_15"`
	SL5     float64 `csv:"sl_5"`
	SL15    float64 `csv:"sl_15"`
	SL20    float64 `csv:"sl_20"`
	SL39    float64 `csv:"sl_39"`
}

// ScheduleRecords tabulates the depreciation factors for years 1..years.
func ScheduleRecords(years int) []ScheduleRecord {
	out := make([]ScheduleRecord, 0, years)
	for y := 1; y <= years; y++ {
		out = append(out, ScheduleRecord{
			Year:    y,
			MACRS5:  depreciation.Factor(depreciation.MACRS5, y),
			MACRS15: depreciation.Factor(depreciation.MACRS15, y),
			SL5:     depreciation.Factor(depreciation.SL5, y),
			SL15:    depreciation.Factor(depreciation.SL15, y),
			SL20:    depreciation.Factor(depreciation.SL20, y),
			SL39:    depreciation.Factor(depreciation.SL39, y),
		})
	}
	return out
}

// ClassFactorRecord is one year of a single depreciation table.
type ClassFactorRecord struct {
	Class  string  `csv:"class"`
	Year   int     `csv:"year"`
	Factor float64 `csv:"factor"`
}

// ClassFactorRecords lists years 1..years of each class, class by class.
func ClassFactorRecords(classes []depreciation.Class, years int) []ClassFactorRecord {
	out := make([]ClassFactorRecord, 0, len(classes)*years)
	for _, c := range classes {
		for y := 1; y <= years; y++ {
			out = append(out, ClassFactorRecord{Class: c.String(), Year: y, Factor: depreciation.Factor(c, y)})
		}
	}
	return out
}
