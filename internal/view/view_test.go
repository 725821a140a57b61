package view

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countries/internal/country/models"
)

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"small number", FormatNumber(999), "999"},
		{"grouped number", FormatNumber(1234567), "1,234,567"},
		{"negative number", FormatNumber(-1234), "-1,234"},
		{"whole area", FormatArea(models.Ptr(9596961.0)), "9,596,961 km²"},
		{"fractional area", FormatArea(models.Ptr(92090.5)), "92,090.5 km²"},
		{"missing area", FormatArea(nil), "-"},
		{"millions", FormatPopulation(models.Ptr(int64(1412000000))), "1412.0M"},
		{"thousands", FormatPopulation(models.Ptr(int64(12345))), "12.3K"},
		{"units", FormatPopulation(models.Ptr(int64(800))), "800"},
		{"missing population", FormatPopulation(nil), "-"},
		{"percent", Percent(3, 5), "60.0"},
		{"percent of zero", Percent(0, 0), "0.0"},
		{"blank text", OrNA(models.Ptr("  ")), "N/A"},
		{"missing text", OrNA(nil), "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "#fbbf24", ChartColor(models.ContinentAsia))
	assert.Equal(t, "#6b7280", ChartColor("Oceania"))
	assert.Equal(t, "bg-purple-100 text-purple-800", BadgeClass(models.ContinentSouthAmerica))
	assert.Equal(t, "bg-gray-100 text-gray-800", BadgeClass("Oceania"))
}

func TestNewRow(t *testing.T) {
	c := &models.Country{
		ID:         7,
		Name:       "Japan",
		Continent:  models.ContinentAsia,
		Capital:    models.Ptr("Tokyo"),
		Population: models.Ptr(int64(125700000)),
	}
	want := Row{
		ID:         7,
		Name:       "Japan",
		Language:   "N/A",
		Continent:  "Asia",
		BadgeClass: "bg-yellow-100 text-yellow-800",
		Capital:    "Tokyo",
		Population: "125.7M",
		Area:       "-",
		Currency:   "N/A",
	}
	if diff := cmp.Diff(want, NewRow(c)); diff != "" {
		t.Errorf("NewRow mismatch (-want +got):\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	t.Run("empty state", func(t *testing.T) {
		html, err := Table(TableModel{})
		require.NoError(t, err)
		assert.Contains(t, string(html), "No countries found")
		assert.Contains(t, string(html), "Try adjusting your search criteria")
		assert.Contains(t, string(html), `colspan="6"`)
	})

	t.Run("one row per country, escaped", func(t *testing.T) {
		html, err := Table(TableModel{Rows: Rows([]*models.Country{
			{ID: 1, Name: "<b>Chad</b>", Continent: models.ContinentAfrica},
			{ID: 2, Name: "Peru", Continent: models.ContinentSouthAmerica},
		})})
		require.NoError(t, err)
		out := string(html)
		assert.Equal(t, 2, strings.Count(out, "<tr "))
		assert.Equal(t, 12, strings.Count(out, "<td "))
		assert.Contains(t, out, "&lt;b&gt;Chad&lt;/b&gt;")
		assert.Contains(t, out, "bg-green-100 text-green-800")
		assert.NotContains(t, out, "No countries found")
	})
}

func TestNotification(t *testing.T) {
	tests := []struct {
		severity Severity
		class    string
		icon     string
	}{
		{SeveritySuccess, "bg-green-500", "fa-check-circle"},
		{SeverityError, "bg-red-500", "fa-exclamation-circle"},
		{SeverityWarning, "bg-yellow-500", "fa-exclamation-triangle"},
		{SeverityInfo, "bg-blue-500", "fa-info-circle"},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			html, err := Notification(NotificationModel{Message: "Saved & done", Severity: tt.severity})
			require.NoError(t, err)
			out := string(html)
			assert.Contains(t, out, tt.class+" text-white")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "Saved &amp; done")
		})
	}
}
