package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"smart-pricing/models"
	"smart-pricing/utils"
)

// JSONWriter saves an analysis report as indented JSON
type JSONWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter(filePath string, logger *utils.Logger) *JSONWriter {
	return &JSONWriter{filePath: filePath, logger: logger}
}

// WriteReport serializes the report to the writer's file
func (w *JSONWriter) WriteReport(report *models.AnalysisReport) error {
	if err := os.MkdirAll(filepath.Dir(w.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(w.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Info("Analysis report written to: %s", w.filePath)
	return nil
}
