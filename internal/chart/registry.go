package chart

import "sync"

const (
	ChartTypeLine         = "line"
	ChartTypeBar          = "bar"
	ChartTypeLineWithLine = "LineWithLine"
)

// HoverRule is a vertical rule drawn through the active point, spanning the
// full height of AxisID.
type HoverRule struct {
	AxisID string  `json:"axisId"`
	Width  float64 `json:"width"`
	Color  string  `json:"color"`
}

type ChartTypeDef struct {
	Name      string     `json:"name"`
	Base      string     `json:"base"`
	HoverRule *HoverRule `json:"hoverRule,omitempty"`
}

var (
	registerOnce sync.Once
	registryMu   sync.RWMutex
	registry     = map[string]ChartTypeDef{
		ChartTypeLine: {Name: ChartTypeLine, Base: ChartTypeLine},
		ChartTypeBar:  {Name: ChartTypeBar, Base: ChartTypeBar},
	}
)

// RegisterChartTypes adds the custom chart types to the process-wide
// registry. Safe to call more than once; only the first call registers.
func RegisterChartTypes() {
	registerOnce.Do(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		registry[ChartTypeLineWithLine] = ChartTypeDef{
			Name: ChartTypeLineWithLine,
			Base: ChartTypeLine,
			HoverRule: &HoverRule{
				AxisID: AxisPrice,
				Width:  2,
				Color:  "rgba(49, 107, 174, 0.5)",
			},
		}
	})
}

// LookupChartType returns the definition registered under name.
func LookupChartType(name string) (ChartTypeDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[name]
	return def, ok
}
