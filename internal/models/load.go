package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadReportFile reads a ReportContentModel from a JSON or YAML file.
// The format is chosen by extension; anything that is not .yaml/.yml is parsed as JSON.
func LoadReportFile(path string) (*ReportContentModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file %s: %w", path, err)
	}
	return ParseReport(data, filepath.Ext(path))
}

// ParseReport decodes a model from raw bytes. ext selects the decoder (".json", ".yaml", ".yml").
func ParseReport(data []byte, ext string) (*ReportContentModel, error) {
	var m ReportContentModel
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse report yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse report json: %w", err)
		}
	}
	return &m, nil
}
