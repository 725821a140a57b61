package models

import (
	"strings"
	"unicode/utf8"

	dErrors "countries/pkg/domain-errors"
)

const (
	NameMinLength = 2
	NameMaxLength = 100
)

// Country is a catalog entry. Optional fields are nil when unknown and
// serialize as JSON null.
type Country struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Continent  Continent `json:"continent"`
	Capital    *string   `json:"capital"`
	Population *int64    `json:"population"`
	Area       *float64  `json:"area"`
	Currency   *string   `json:"currency"`
	Language   *string   `json:"language"`
}

// CountryInput carries the client-writable fields of a Country.
type CountryInput struct {
	Name       string   `json:"name"`
	Continent  string   `json:"continent"`
	Capital    *string  `json:"capital"`
	Population *int64   `json:"population"`
	Area       *float64 `json:"area"`
	Currency   *string  `json:"currency"`
	Language   *string  `json:"language"`
}

// Normalize trims text fields and drops blank optionals.
func (in *CountryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Continent = strings.TrimSpace(in.Continent)
	in.Capital = trimOptional(in.Capital)
	in.Currency = trimOptional(in.Currency)
	in.Language = trimOptional(in.Language)
}

// Validate normalizes the input and checks required fields and numeric ranges.
// It canonicalizes Continent on success.
func (in *CountryInput) Validate() error {
	if in == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	in.Normalize()

	if in.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "Country name is required")
	}
	if n := utf8.RuneCountInString(in.Name); n < NameMinLength || n > NameMaxLength {
		return dErrors.Newf(dErrors.CodeValidation,
			"Country name must be between %d and %d characters", NameMinLength, NameMaxLength)
	}
	continent, err := ParseContinent(in.Continent)
	if err != nil {
		return err
	}
	in.Continent = string(continent)

	if in.Population != nil && *in.Population < 0 {
		return dErrors.New(dErrors.CodeValidation, "Population must be non-negative")
	}
	if in.Area != nil && *in.Area < 0 {
		return dErrors.New(dErrors.CodeValidation, "Area must be non-negative")
	}
	return nil
}

// NewCountry builds a Country from validated input.
func NewCountry(id int64, in CountryInput) (*Country, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &Country{ID: id}
	c.apply(in)
	return c, nil
}

// Update replaces every writable field with the validated input.
func (c *Country) Update(in CountryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	c.apply(in)
	return nil
}

// Input returns the writable fields of c.
func (c *Country) Input() CountryInput {
	return CountryInput{
		Name:       c.Name,
		Continent:  string(c.Continent),
		Capital:    c.Capital,
		Population: c.Population,
		Area:       c.Area,
		Currency:   c.Currency,
		Language:   c.Language,
	}
}

func (c *Country) apply(in CountryInput) {
	c.Name = in.Name
	c.Continent = Continent(in.Continent)
	c.Capital = in.Capital
	c.Population = in.Population
	c.Area = in.Area
	c.Currency = in.Currency
	c.Language = in.Language
}

// Ptr returns a pointer to v. Handy for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
