package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"countries/internal/country/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedEntry struct {
	Name       string   `yaml:"name"`
	Continent  string   `yaml:"continent"`
	Capital    *string  `yaml:"capital"`
	Population *int64   `yaml:"population"`
	Area       *float64 `yaml:"area"`
	Currency   *string  `yaml:"currency"`
	Language   *string  `yaml:"language"`
}

// SampleCountries returns the embedded sample catalog used to seed an empty store.
func SampleCountries() ([]models.CountryInput, error) {
	var doc struct {
		Countries []seedEntry `yaml:"countries"`
	}
	if err := yaml.Unmarshal(seedYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse sample catalog: %w", err)
	}
	out := make([]models.CountryInput, 0, len(doc.Countries))
	for _, e := range doc.Countries {
		out = append(out, models.CountryInput{
			Name:       e.Name,
			Continent:  e.Continent,
			Capital:    e.Capital,
			Population: e.Population,
			Area:       e.Area,
			Currency:   e.Currency,
			Language:   e.Language,
		})
	}
	return out, nil
}
