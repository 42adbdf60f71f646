package batch

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"fjacquet/levpartflip/internal/batch"
	"fjacquet/levpartflip/internal/config"
	"fjacquet/levpartflip/internal/container"
	"fjacquet/levpartflip/internal/fileutils"
	"fjacquet/levpartflip/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioYAML(price string) string {
	return `params:
  system_nameplate: 10000
  analysis_years: 12
  ppa_soln_mode: 1
  ppa_price: ` + price + `
energy_file: energy.csv
`
}

func testContainer(t *testing.T) *container.Container {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lpf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  workers: 2\n"), 0600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var energy strings.Builder
	energy.WriteString("year,energy_kwh\n")
	for y := 1; y <= 12; y++ {
		energy.WriteString(strconv.Itoa(y) + ",21900000\n")
	}
	files := map[string]string{
		"energy.csv":  energy.String(),
		"a_high.yaml": scenarioYAML("30"),
		"b_zero.yaml": scenarioYAML("0"),
		"c_bad.yaml":  "params:\n  system_nameplat: 1\nenergy_file: energy.csv\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestExecute_Directory(t *testing.T) {
	in := writeInputs(t)
	out := filepath.Join(t.TempDir(), "out")

	records, err := Execute(context.Background(), testContainer(t), Options{Input: in, Output: out})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a_high", records[0].Scenario)
	assert.Equal(t, batch.StatusOK, records[0].Status)
	assert.Equal(t, "b_zero", records[1].Scenario)
	assert.Equal(t, batch.StatusFailed, records[1].Status)
	assert.Equal(t, "c_bad.yaml", records[2].Scenario)
	assert.Contains(t, records[2].Error, "unknown parameters: system_nameplat")

	assert.True(t, fileutils.FileExists(filepath.Join(out, SummaryFile)))
	assert.True(t, fileutils.FileExists(filepath.Join(out, "a_high_ledger.csv")))
	assert.True(t, fileutils.FileExists(filepath.Join(out, "a_high_report.json")))
	assert.False(t, fileutils.FileExists(filepath.Join(out, "b_zero_ledger.csv")))
}

func TestExecute_Vary(t *testing.T) {
	in := writeInputs(t)
	out := t.TempDir()

	records, err := Execute(context.Background(), testContainer(t), Options{
		Input:  filepath.Join(in, "a_high.yaml"),
		Output: out,
		Vary:   "ppa_price",
		Values: []float64{20, 30},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a_high[ppa_price=20]", records[0].Scenario)
	assert.Equal(t, 30.0, records[1].PPAPrice)
	assert.True(t, fileutils.FileExists(filepath.Join(out, "a_high_ppa_price_30__ledger.csv")))
}

func TestExecute_Errors(t *testing.T) {
	c := testContainer(t)
	in := writeInputs(t)

	_, err := Execute(context.Background(), c, Options{Input: in})
	assert.ErrorContains(t, err, "input and output must be specified")

	_, err = Execute(context.Background(), c, Options{Input: t.TempDir(), Output: t.TempDir()})
	assert.ErrorContains(t, err, "no scenario files")

	_, err = Execute(context.Background(), c, Options{Input: filepath.Join(in, "a_high.yaml"), Output: t.TempDir(), Vary: "ppa_price"})
	assert.ErrorContains(t, err, "needs --values")

	_, err = Execute(context.Background(), c, Options{Input: in, Output: t.TempDir(), Vary: "ppa_price", Values: []float64{10}})
	assert.ErrorContains(t, err, "--vary needs a single scenario file")
}
