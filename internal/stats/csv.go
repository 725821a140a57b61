package stats

import (
	"strconv"
	"strings"
	"time"

	"countries/internal/country/models"
	"countries/internal/view"
)

const csvHeader = "Continent,Country Count,Percentage\n"

// CSV renders the per-continent breakdown. The continent column is always
// quoted; percentages carry one decimal.
func CSV(pairs []models.ContinentCount, total int) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, p := range pairs {
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(string(p.Continent), `"`, `""`))
		b.WriteString(`",`)
		b.WriteString(strconv.Itoa(p.Count))
		b.WriteByte(',')
		b.WriteString(view.Percent(p.Count, total))
		b.WriteString("%\n")
	}
	return b.String()
}

// Filename names an export by its UTC date.
func Filename(now time.Time) string {
	return "countries-statistics-" + now.UTC().Format("2006-01-02") + ".csv"
}
