package view

import "countries/internal/country/models"

const defaultChartColor = "#6b7280"

var chartColors = map[models.Continent]string{
	models.ContinentAsia:         "#fbbf24",
	models.ContinentEurope:       "#3b82f6",
	models.ContinentAfrica:       "#10b981",
	models.ContinentNorthAmerica: "#ef4444",
	models.ContinentSouthAmerica: "#8b5cf6",
	models.ContinentAustralia:    "#f97316",
	models.ContinentAntarctica:   "#6b7280",
}

var badgeTones = map[models.Continent]string{
	models.ContinentAsia:         "yellow",
	models.ContinentEurope:       "blue",
	models.ContinentAfrica:       "green",
	models.ContinentNorthAmerica: "red",
	models.ContinentSouthAmerica: "purple",
	models.ContinentAustralia:    "orange",
	models.ContinentAntarctica:   "gray",
}

// ChartColor is the doughnut slice color for a continent.
func ChartColor(c models.Continent) string {
	if color, ok := chartColors[c]; ok {
		return color
	}
	return defaultChartColor
}

// ContinentTone is the Tailwind color family used for a continent.
func ContinentTone(c models.Continent) string {
	if tone, ok := badgeTones[c]; ok {
		return tone
	}
	return "gray"
}

// BadgeClass returns the pill classes for a continent label.
func BadgeClass(c models.Continent) string {
	tone := ContinentTone(c)
	return "bg-" + tone + "-100 text-" + tone + "-800"
}
