// Package fileutils provides the file operations used by the CLI: scenario
// discovery and output naming.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioExtensions are the file extensions treated as scenario files.
var ScenarioExtensions = []string{".yaml", ".yml"}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// WriteFile writes data to a file, creating any parent directories if needed
func WriteFile(filePath string, data []byte) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ListScenarioFiles returns the scenario files directly inside dirPath in
// lexical order. Subdirectories are not searched; they usually hold base
// files and energy series referenced by the top-level scenarios.
func ListScenarioFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !isScenario(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dirPath, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isScenario(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range ScenarioExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// OutputPath names an output file in outDir after a scenario, e.g.
// OutputPath("out", "base", "ledger", ".csv") is out/base_ledger.csv.
func OutputPath(outDir, scenario, kind, ext string) string {
	return filepath.Join(outDir, fmt.Sprintf("%s_%s%s", Sanitize(scenario), kind, ext))
}

// Sanitize makes a scenario name safe to use as a file name.
func Sanitize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "scenario"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
