package root

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "levpartflip", Cmd.Use)
	assert.Contains(t, Cmd.Short, "partnership-flip")
	assert.NotNil(t, Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"config", ""},
		{"log-level", ""},
		{"log-format", ""},
		{"csv-delimiter", ""},
		{"format", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Output.Format = "json"

	applyOverrides(cfg, CommonFlags{LogLevel: "debug", CSVDelimiter: ";", Format: "yaml"})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "yaml", cfg.Output.Format)

	applyOverrides(cfg, CommonFlags{})
	assert.Equal(t, "debug", cfg.Log.Level)
}

func withFlags(t *testing.T, f CommonFlags) {
	t.Helper()
	saved := SharedFlags
	SharedFlags = f
	t.Cleanup(func() {
		SharedFlags = saved
		SetContainer(nil)
		common.SetDelimiter(',')
		Log.SetLevel(logrus.InfoLevel)
	})
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lpf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  workers: 3\n"), 0600))
	withFlags(t, CommonFlags{Config: path, CSVDelimiter: ";", LogLevel: "error"})

	require.NoError(t, setup(&cobra.Command{}, nil))
	c := GetContainer()
	require.NotNil(t, c)
	assert.Equal(t, 3, c.GetConfig().Batch.Workers)
	assert.Equal(t, ";", c.GetConfig().CSV.Delimiter)
	assert.Equal(t, ';', common.Delimiter)
	assert.Equal(t, logrus.ErrorLevel, Log.Level)
}

func TestSetup_InvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lpf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0600))
	withFlags(t, CommonFlags{Config: path, Format: "xml"})

	err := setup(&cobra.Command{}, nil)
	assert.ErrorContains(t, err, "invalid output format")
	assert.Nil(t, GetContainer())
}
