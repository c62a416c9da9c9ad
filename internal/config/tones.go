package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tone is a named writing-tone preset with its free-text description.
type Tone struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// defaultTones are used when no tone file is configured or readable.
var defaultTones = []Tone{
	{Name: "Professional", Description: "Formal and business-like tone suitable for corporate audiences"},
	{Name: "Friendly", Description: "Warm and approachable tone that builds rapport with readers"},
	{Name: "Educational", Description: "Clear and informative tone designed to explain concepts"},
}

// LoadTones reads tone presets from a YAML file, falling back to the
// built-in defaults when the file is missing.
func LoadTones(path string) ([]Tone, error) {
	if path == "" {
		return defaultTones, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultTones, nil
		}
		return nil, fmt.Errorf("read tones file: %w", err)
	}

	var doc struct {
		Tones []Tone `yaml:"tones"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse tones file: %w", err)
	}
	if len(doc.Tones) == 0 {
		return defaultTones, nil
	}
	return doc.Tones, nil
}

// ToneDescription returns the description for name, or defaultDescription
// when the tone is unknown.
func ToneDescription(tones []Tone, name string) string {
	for _, t := range tones {
		if t.Name == name {
			return t.Description
		}
	}
	return defaultTones[0].Description
}
