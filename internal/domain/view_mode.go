package domain

type ViewMode struct {
	Unit          Unit      `json:"unit"`
	ShowMarketCap bool      `json:"showMarketCap"`
	TimeRange     TimeRange `json:"timeRange"`
}

// SessionState is the persisted form of a chart session.
type SessionState struct {
	ViewMode
	// Selection is nil when no point is selected.
	Selection *int `json:"selection"`
}

func DefaultSessionState() SessionState {
	return SessionState{
		ViewMode: ViewMode{Unit: UnitUSD, ShowMarketCap: false, TimeRange: TimeRange1D},
	}
}
