// Package report renders the assembled insights report for external
// consumers.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
)

// Exporter writes reports to files.
type Exporter struct {
	logger logging.Logger
}

// NewExporter creates an Exporter.
func NewExporter(logger logging.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// MarshalJSON renders the full report as indented JSON.
func (e *Exporter) MarshalJSON(report *models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// WriteJSON writes the full report to a JSON file.
func (e *Exporter) WriteJSON(report *models.Report, path string) error {
	data, err := e.MarshalJSON(report)
	if err != nil {
		return err
	}

	if err := e.ensureDir(path); err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	e.logger.Info("Wrote insights report",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "format", Value: "json"})
	return nil
}

// WriteMerchantCSV writes the frequent-merchant table to a CSV file.
func (e *Exporter) WriteMerchantCSV(merchants []models.MerchantFrequency, path string) error {
	if err := e.ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	if err := gocsv.MarshalFile(&merchants, file); err != nil {
		return fmt.Errorf("failed to write merchant CSV: %w", err)
	}

	e.logger.Info("Wrote merchant frequency CSV",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "merchants", Value: len(merchants)})
	return nil
}

func (e *Exporter) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
