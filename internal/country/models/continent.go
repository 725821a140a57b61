package models

import (
	"strings"

	dErrors "countries/pkg/domain-errors"
)

// Continent is one of the seven fixed grouping values.
type Continent string

const (
	ContinentAfrica       Continent = "Africa"
	ContinentAntarctica   Continent = "Antarctica"
	ContinentAsia         Continent = "Asia"
	ContinentAustralia    Continent = "Australia"
	ContinentEurope       Continent = "Europe"
	ContinentNorthAmerica Continent = "North America"
	ContinentSouthAmerica Continent = "South America"
)

var allContinents = []Continent{
	ContinentAfrica,
	ContinentAntarctica,
	ContinentAsia,
	ContinentAustralia,
	ContinentEurope,
	ContinentNorthAmerica,
	ContinentSouthAmerica,
}

// Continents returns the seven continents in alphabetical order.
func Continents() []Continent {
	out := make([]Continent, len(allContinents))
	copy(out, allContinents)
	return out
}

// ParseContinent matches s case-insensitively and returns the canonical value.
func ParseContinent(s string) (Continent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "Continent is required")
	}
	for _, c := range allContinents {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "Continent must be one of: %s", continentList())
}

func (c Continent) String() string {
	return string(c)
}

// IsValid reports whether c is one of the canonical continents.
func (c Continent) IsValid() bool {
	for _, known := range allContinents {
		if c == known {
			return true
		}
	}
	return false
}

func continentList() string {
	names := make([]string, len(allContinents))
	for i, c := range allContinents {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
