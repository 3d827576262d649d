package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles artifact file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	if err := os.MkdirAll(om.BaseOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WordcloudPath is where the PNG of a dataset lives
func (om *OutputManager) WordcloudPath(dataset string) string {
	return filepath.Join(om.BaseOutputDir, fmt.Sprintf("wordcloud_%s.png", cleanName(dataset)))
}

// BundlePath is where the processed JSON of a dataset lives
func (om *OutputManager) BundlePath(dataset string) string {
	return filepath.Join(om.BaseOutputDir, fmt.Sprintf("processed_%s.json", cleanName(dataset)))
}

// TablePath is the per-table CSV export of a dataset
func (om *OutputManager) TablePath(dataset, table string) string {
	return filepath.Join(om.BaseOutputDir, cleanName(dataset), cleanName(table)+".csv")
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// cleanName removes any path separators from a dataset or table name
func cleanName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return "unnamed"
	}
	return name
}
