package models

import (
	"encoding/json"
	"fmt"
)

// ContinentCount pairs a continent with its number of countries.
// It serializes as a two-element JSON array, e.g. ["Asia",10].
type ContinentCount struct {
	Continent Continent
	Count     int
}

func (cc ContinentCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{cc.Continent, cc.Count})
}

func (cc *ContinentCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("continent count: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &cc.Continent); err != nil {
		return fmt.Errorf("continent count name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &cc.Count); err != nil {
		return fmt.Errorf("continent count value: %w", err)
	}
	return nil
}

// Statistics summarizes the catalog.
type Statistics struct {
	TotalCountries       int              `json:"totalCountries"`
	Continents           []Continent      `json:"continents"`
	CountriesByContinent []ContinentCount `json:"countriesByContinent"`
}
