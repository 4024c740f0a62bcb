package chart

import (
	"strconv"

	"projectchart-service/internal/domain"
)

// ToggleItem is one clickable entry of a chart control. Value is what the
// client sends back as the action value when the item is clicked.
type ToggleItem struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled,omitempty"`
}

type Controls struct {
	TimeFilter      []ToggleItem `json:"timeFilter"`
	CurrencyFilter  []ToggleItem `json:"currencyFilter"`
	MarketcapToggle []ToggleItem `json:"marketcapToggle"`
}

func TimeFilter(current domain.TimeRange, disabled bool) []ToggleItem {
	items := make([]ToggleItem, 0, len(domain.TimeRanges))
	for _, r := range domain.TimeRanges {
		items = append(items, ToggleItem{
			Label:    string(r),
			Value:    string(r),
			Active:   r == current,
			Disabled: disabled,
		})
	}
	return items
}

func CurrencyFilter(u domain.Unit) []ToggleItem {
	return []ToggleItem{
		{Label: string(domain.UnitBTC), Value: string(domain.UnitBTC), Active: u == domain.UnitBTC},
		{Label: string(domain.UnitUSD), Value: string(domain.UnitUSD), Active: u != domain.UnitBTC},
	}
}

// MarketcapToggle is a single item whose value flips the overlay.
func MarketcapToggle(on bool) []ToggleItem {
	return []ToggleItem{{Label: "MarketCap", Value: strconv.FormatBool(!on), Active: on}}
}

func BuildControls(mode domain.ViewMode, timeFilterDisabled bool) Controls {
	return Controls{
		TimeFilter:      TimeFilter(mode.TimeRange, timeFilterDisabled),
		CurrencyFilter:  CurrencyFilter(mode.Unit),
		MarketcapToggle: MarketcapToggle(mode.ShowMarketCap),
	}
}
