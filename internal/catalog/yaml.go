package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"Concreteflow/internal/calc/joist"
)

// yamlEntry keeps spans keyed by load, the way span tables are printed:
//
//	spans: {"250": 5.90, "350": 5.40, "500": 4.80}
type yamlEntry struct {
	Reference     string             `yaml:"reference"`
	BlockHeightCM int                `yaml:"block_height_cm"`
	SpacingCM     int                `yaml:"spacing_cm"`
	ToppingCM     float64            `yaml:"topping_cm"`
	TotalHeightCM float64            `yaml:"total_height_cm"`
	WeightKgM     float64            `yaml:"weight_kg_m"`
	Spans         map[string]float64 `yaml:"spans"`
}

type yamlCatalog struct {
	Name         string      `yaml:"name"`
	Manufacturer string      `yaml:"manufacturer"`
	Entries      []yamlEntry `yaml:"entries"`
}

func LoadYAML(r io.Reader) (Catalog, error) {
	var raw yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	c := Catalog{Name: raw.Name, Manufacturer: raw.Manufacturer, Entries: make([]joist.Entry, 0, len(raw.Entries))}
	for i, e := range raw.Entries {
		bands, err := joist.BandsFromMap(e.Spans)
		if err != nil {
			return Catalog{}, fmt.Errorf("entry %d (%s): %w", i, e.Reference, err)
		}
		c.Entries = append(c.Entries, joist.Entry{
			Reference:     e.Reference,
			BlockHeightCM: e.BlockHeightCM,
			SpacingCM:     e.SpacingCM,
			ToppingCM:     e.ToppingCM,
			Bands:         bands,
			TotalHeightCM: e.TotalHeightCM,
			WeightKgM:     e.WeightKgM,
		})
	}
	return c, nil
}
