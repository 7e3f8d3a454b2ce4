package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories a run reads from and writes to
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string
}

// ResolvePaths resolves the configured directories against the working directory
func (c *Config) ResolvePaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(wd, p)
	}

	return &Paths{
		DataDir:   resolve(c.Paths.DataDir),
		OutputDir: resolve(c.Paths.OutputDir),
		LogsDir:   resolve(c.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetOutputPath returns the path for a generated report file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
