package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/modelerror"
	"fjacquet/levpartflip/internal/models"

	"gopkg.in/yaml.v3"
)

// maxBaseDepth bounds base_file chains.
const maxBaseDepth = 8

// File is the on-disk form of a scenario.
type File struct {
	Name       string             `yaml:"name"`
	BaseFile   string             `yaml:"base_file,omitempty"`
	Params     map[string]float64 `yaml:"params"`
	Energy     []float64          `yaml:"energy,omitempty"`
	EnergyFile string             `yaml:"energy_file,omitempty"`
}

// Scenario is a loaded, validated scenario ready to run.
type Scenario struct {
	Name   string
	Path   string
	Values map[string]float64 // merged flat parameters, defaults excluded
	Params models.Params
	Energy []float64
}

// Loader reads scenario files.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{logger: logger}
}

// Load reads path, resolves its base_file chain and energy source, and maps
// the merged parameters onto models.Params.
func (l *Loader) Load(path string) (*Scenario, error) {
	f, err := l.resolve(path, 0)
	if err != nil {
		return nil, &modelerror.ScenarioError{Path: path, Err: err}
	}
	if len(f.Energy) == 0 {
		return nil, &modelerror.ScenarioError{Path: path, Err: fmt.Errorf("no energy series: set energy or energy_file")}
	}

	params, err := FromMap(f.Params)
	if err != nil {
		return nil, &modelerror.ScenarioError{Path: path, Err: err}
	}

	name := f.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	l.logger.Debug("Loaded scenario",
		logging.F(logging.FieldScenario, name),
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, len(f.Params)))

	return &Scenario{
		Name:   name,
		Path:   path,
		Values: f.Params,
		Params: params,
		Energy: f.Energy,
	}, nil
}

// resolve reads path and overlays it on its base file. Relative base_file
// and energy_file paths are resolved against the directory of the file that
// names them.
func (l *Loader) resolve(path string, depth int) (File, error) {
	if depth > maxBaseDepth {
		return File{}, fmt.Errorf("base_file chain deeper than %d", maxBaseDepth)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- scenario paths are user input
	if err != nil {
		return File{}, fmt.Errorf("error reading scenario: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("error parsing YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if f.EnergyFile != "" && len(f.Energy) == 0 {
		records, err := common.ReadCSVFile[common.EnergyRecord](relativeTo(dir, f.EnergyFile), l.logger)
		if err != nil {
			return File{}, err
		}
		if f.Energy, err = common.EnergySeries(records); err != nil {
			return File{}, err
		}
	}

	if f.BaseFile == "" {
		return f, nil
	}
	base, err := l.resolve(relativeTo(dir, f.BaseFile), depth+1)
	if err != nil {
		return File{}, fmt.Errorf("base %s: %w", f.BaseFile, err)
	}
	return overlay(base, f), nil
}

// overlay applies child on top of base: parameters merge key by key, scalar
// fields and the energy series replace the base's when set.
func overlay(base, child File) File {
	out := base
	out.Params = make(map[string]float64, len(base.Params)+len(child.Params))
	for k, v := range base.Params {
		out.Params[k] = v
	}
	for k, v := range child.Params {
		out.Params[k] = v
	}
	if child.Name != "" {
		out.Name = child.Name
	}
	if len(child.Energy) > 0 {
		out.Energy = child.Energy
	}
	out.BaseFile = ""
	out.EnergyFile = ""
	return out
}

func relativeTo(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Load reads a scenario with a discarding logger.
func Load(path string) (*Scenario, error) {
	return NewLoader(nil).Load(path)
}
