package view

import (
	"bytes"
	"html/template"

	"countries/internal/country/models"
)

// Row is one country line of the catalog table.
type Row struct {
	ID         int64
	Name       string
	Language   string
	Continent  string
	BadgeClass string
	Capital    string
	Population string
	Area       string
	Currency   string
}

// NewRow formats c for display.
func NewRow(c *models.Country) Row {
	return Row{
		ID:         c.ID,
		Name:       c.Name,
		Language:   OrNA(c.Language),
		Continent:  string(c.Continent),
		BadgeClass: BadgeClass(c.Continent),
		Capital:    OrNA(c.Capital),
		Population: FormatPopulation(c.Population),
		Area:       FormatArea(c.Area),
		Currency:   OrNA(c.Currency),
	}
}

// Rows maps NewRow over countries.
func Rows(countries []*models.Country) []Row {
	rows := make([]Row, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, NewRow(c))
	}
	return rows
}

// TableModel is the full table body. An empty Rows renders the empty state.
type TableModel struct {
	Rows []Row
}

var tableTmpl = template.Must(template.New("table").Parse(tableHTML))

// Table renders the whole tbody. Callers re-render on every change.
func Table(t TableModel) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, t); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
