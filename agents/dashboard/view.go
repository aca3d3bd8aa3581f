package dashboard

import (
	"html/template"
	"strconv"

	"youtube-trends/internal/models"
)

type categoryOption struct {
	Name     models.Category
	Selected bool
}

type pageView struct {
	Title       string
	Description template.HTML
	Options     []categoryOption
	Start       string
	End         string
	MinDate     string
	MaxDate     string
	Query       string
	Summary     Summary
	Search      *SearchResult
	Records     []models.CleanedVideoRecord
}

func categoryOptions(all, selected []models.Category) []categoryOption {
	chosen := make(map[models.Category]bool, len(selected))
	for _, c := range selected {
		chosen[c] = true
	}
	out := make([]categoryOption, len(all))
	for i, c := range all {
		out[i] = categoryOption{Name: c, Selected: selected == nil || chosen[c]}
	}
	return out
}

var templateFuncs = template.FuncMap{
	// percent scales n against the largest count of a chart.
	"percent": func(n, largest int) float64 {
		if largest <= 0 {
			return 0
		}
		return float64(n) * 100 / float64(largest)
	},
	"maxDaily": func(points []DailyCount) int {
		m := 0
		for _, p := range points {
			m = max(m, p.Count)
		}
		return m
	},
	"maxLabel": func(bars []LabelCount) int {
		m := 0
		for _, b := range bars {
			m = max(m, b.Count)
		}
		return m
	},
	"maxBin": func(bins []Bin) int {
		m := 0
		for _, b := range bins {
			m = max(m, b.Count)
		}
		return m
	},
	"date": func(r models.CleanedVideoRecord) string {
		return r.PublishDateString()
	},
	"days": func(d *int) string {
		if d == nil {
			return ""
		}
		return strconv.Itoa(*d)
	},
}
