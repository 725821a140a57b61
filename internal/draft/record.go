package draft

import (
	"strconv"
	"strings"

	"countries/internal/country/models"
	dErrors "countries/pkg/domain-errors"
)

// Form field names, matching the add-country form.
const (
	FieldName       = "name"
	FieldContinent  = "continent"
	FieldCapital    = "capital"
	FieldPopulation = "population"
	FieldArea       = "area"
	FieldCurrency   = "currency"
	FieldLanguage   = "language"
)

// Fields lists the form fields in display order.
var Fields = []string{
	FieldName, FieldContinent, FieldCapital, FieldPopulation, FieldArea, FieldCurrency, FieldLanguage,
}

// Record is a flat snapshot of form values keyed by field name.
type Record map[string]string

// Compact returns the trimmed non-empty entries, or nil if none remain.
func (r Record) Compact() Record {
	var out Record
	for k, v := range r {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if out == nil {
			out = make(Record)
		}
		out[k] = v
	}
	return out
}

// Input converts the form values to a CountryInput. Blank optional fields
// become nil; numeric fields must parse.
func (r Record) Input() (models.CountryInput, error) {
	in := models.CountryInput{
		Name:      strings.TrimSpace(r[FieldName]),
		Continent: strings.TrimSpace(r[FieldContinent]),
		Capital:   optional(r[FieldCapital]),
		Currency:  optional(r[FieldCurrency]),
		Language:  optional(r[FieldLanguage]),
	}
	if v := strings.TrimSpace(r[FieldPopulation]); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return in, dErrors.New(dErrors.CodeValidation, "Population must be a whole number")
		}
		in.Population = &n
	}
	if v := strings.TrimSpace(r[FieldArea]); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, dErrors.New(dErrors.CodeValidation, "Area must be a number")
		}
		in.Area = &f
	}
	return in, nil
}

// FromCountry fills a Record from an existing country, e.g. a sample to
// pre-fill the form with.
func FromCountry(c *models.Country) Record {
	r := Record{
		FieldName:      c.Name,
		FieldContinent: string(c.Continent),
	}
	if c.Capital != nil {
		r[FieldCapital] = *c.Capital
	}
	if c.Population != nil {
		r[FieldPopulation] = strconv.FormatInt(*c.Population, 10)
	}
	if c.Area != nil {
		r[FieldArea] = strconv.FormatFloat(*c.Area, 'f', -1, 64)
	}
	if c.Currency != nil {
		r[FieldCurrency] = *c.Currency
	}
	if c.Language != nil {
		r[FieldLanguage] = *c.Language
	}
	return r
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
