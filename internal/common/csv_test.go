package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVFile_Energy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "energy.csv")
	content := "year,energy_kwh\n2,21800000\n1, 21900000\n3,21700000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	logger := logging.NewMockLogger()
	rows, err := ReadCSVFile[EnergyRecord](path, logger)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	series, err := EnergySeries(rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{21_900_000, 21_800_000, 21_700_000}, series)
	assert.True(t, logger.HasEntry("DEBUG", "Read CSV file"))

	_, err = ReadCSVFile[EnergyRecord](filepath.Join(dir, "missing.csv"), logger)
	assert.Error(t, err)
}

func TestEnergySeries_Gaps(t *testing.T) {
	_, err := EnergySeries([]EnergyRecord{{Year: 1, Energy: 1}, {Year: 3, Energy: 1}})
	assert.ErrorContains(t, err, "expected year 2")

	_, err = EnergySeries(nil)
	assert.Error(t, err)
}

func TestWriteCSV_Delimiter(t *testing.T) {
	SetDelimiter(';')
	t.Cleanup(func() { SetDelimiter(',') })

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []EnergyRecord{{Year: 1, Energy: 10.5}}))
	assert.Equal(t, "year;energy_kwh\n1;10.5\n", buf.String())

	rows, err := ReadCSV[EnergyRecord](strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, []EnergyRecord{{Year: 1, Energy: 10.5}}, rows)
}

func TestWriteLedgerCSV(t *testing.T) {
	res := models.NewResults()
	res.Arrays[cashflow.RowEnergyValue.ArrayName()] = []float64{0, 2628000.1234567}
	res.Arrays[cashflow.RowEnergyNet.ArrayName()] = []float64{0, 21900000}

	var buf bytes.Buffer
	require.NoError(t, WriteLedgerCSV(&buf, res))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "row,0,1", lines[0])
	assert.Equal(t, "energy_net,0,21900000", lines[1])
	assert.Equal(t, "energy_value,0,2628000.123457", lines[2])

	assert.Error(t, WriteLedgerCSV(&buf, models.NewResults()))
}

func TestWriteCSVFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schedules.csv")
	require.NoError(t, WriteCSVFile(path, ScheduleRecords(3), logging.NewMockLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "year,macrs_5,macrs_15,sl_5,sl_15,sl_20,sl_39\n"))
}

func TestScheduleRecords(t *testing.T) {
	recs := ScheduleRecords(40)
	require.Len(t, recs, 40)
	assert.Equal(t, 1, recs[0].Year)
	assert.InDelta(t, 0.2, recs[0].MACRS5, 1e-9)
	assert.Equal(t, 0.0, recs[6].MACRS5)
	assert.Greater(t, recs[39].SL39, 0.0)
}

func TestClassFactorRecords(t *testing.T) {
	recs := ClassFactorRecords([]depreciation.Class{depreciation.SL5, depreciation.MACRS5}, 7)
	require.Len(t, recs, 14)
	assert.Equal(t, ClassFactorRecord{Class: "sl_5", Year: 1, Factor: 0.1}, recs[0])
	assert.Equal(t, ClassFactorRecord{Class: "sl_5", Year: 7, Factor: 0}, recs[6])
	assert.Equal(t, ClassFactorRecord{Class: "macrs_5", Year: 2, Factor: 0.32}, recs[8])
}
