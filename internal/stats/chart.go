package stats

import (
	"fmt"

	"countries/internal/country/models"
	"countries/internal/view"
)

// Chart is the doughnut dataset handed to the charting library.
type Chart struct {
	Type   string   `json:"type"`
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"backgroundColor"`
	Total  int      `json:"total"`
}

// NewChart builds one slice per continent, in the order given.
func NewChart(pairs []models.ContinentCount, total int) Chart {
	c := Chart{
		Type:   "doughnut",
		Labels: make([]string, 0, len(pairs)),
		Data:   make([]int, 0, len(pairs)),
		Colors: make([]string, 0, len(pairs)),
		Total:  total,
	}
	for _, p := range pairs {
		c.Labels = append(c.Labels, string(p.Continent))
		c.Data = append(c.Data, p.Count)
		c.Colors = append(c.Colors, view.ChartColor(p.Continent))
	}
	return c
}

// Empty means the page shows "No data available" instead of a chart.
func (c Chart) Empty() bool {
	return len(c.Data) == 0
}

// Tooltip is the hover label of slice i, e.g. "Asia: 3 (60.0%)".
func (c Chart) Tooltip(i int) string {
	if i < 0 || i >= len(c.Data) {
		return ""
	}
	return fmt.Sprintf("%s: %d (%s%%)", c.Labels[i], c.Data[i], view.Percent(c.Data[i], c.Total))
}
