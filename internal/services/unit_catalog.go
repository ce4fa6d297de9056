package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type unitCatalogEntry struct {
	Code              string  `yaml:"code"`
	Name              string  `yaml:"name"`
	Dimension         string  `yaml:"dimension"`
	CanonicalUnitCode string  `yaml:"canonical_unit_code"`
	ToCanonicalFactor float64 `yaml:"to_canonical_factor"`
	Offset            float64 `yaml:"offset"`
}

type unitCatalogFile struct {
	Units []unitCatalogEntry `yaml:"units"`
}

// LoadUnitCatalog reads a YAML unit seed file into upsert inputs.
func LoadUnitCatalog(path string) ([]UnitDefinitionInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit catalog %s: %w", path, err)
	}
	var file unitCatalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse unit catalog %s: %w", path, err)
	}
	inputs := make([]UnitDefinitionInput, 0, len(file.Units))
	for i, entry := range file.Units {
		if strings.TrimSpace(entry.Code) == "" {
			return nil, fmt.Errorf("unit catalog %s: entry %d has no code", path, i)
		}
		inputs = append(inputs, UnitDefinitionInput{
			Code:              entry.Code,
			Name:              entry.Name,
			Dimension:         entry.Dimension,
			CanonicalUnitCode: entry.CanonicalUnitCode,
			ToCanonicalFactor: entry.ToCanonicalFactor,
			Offset:            entry.Offset,
			Source:            "seed_catalog",
		})
	}
	return inputs, nil
}
