package chart

import "projectchart-service/internal/domain"

const noSelection = -1

// InteractionState holds the user's chart toggles and selected point.
// It has a single writer: the handler applying a user action.
type InteractionState struct {
	mode      domain.ViewMode
	selection int
	length    int
}

// NewInteractionState returns the initial state: USD, no market cap, 1d,
// nothing selected.
func NewInteractionState() *InteractionState {
	return &InteractionState{
		mode:      domain.DefaultSessionState().ViewMode,
		selection: noSelection,
	}
}

// Restore rebuilds a state from its persisted form for a history of
// historyLen points. Unknown unit or range values fall back to defaults and
// a selection outside the history is dropped.
func Restore(st domain.SessionState, historyLen int) *InteractionState {
	s := NewInteractionState()
	if u, err := domain.ParseUnit(string(st.Unit)); err == nil {
		s.mode.Unit = u
	}
	if r, err := domain.ParseTimeRange(string(st.TimeRange)); err == nil {
		s.mode.TimeRange = r
	}
	s.mode.ShowMarketCap = st.ShowMarketCap
	s.SetHistoryLength(historyLen)
	if st.Selection != nil {
		s.SetSelection(*st.Selection)
	}
	return s
}

func (s *InteractionState) SetUnit(u domain.Unit) { s.mode.Unit = u }

func (s *InteractionState) SetMarketCapOverlay(on bool) { s.mode.ShowMarketCap = on }

func (s *InteractionState) SetTimeRange(r domain.TimeRange) { s.mode.TimeRange = r }

// SetSelection pins index i. Indices outside [0, length) are rejected and
// leave the state unchanged; the return value reports whether i was taken.
func (s *InteractionState) SetSelection(i int) bool {
	if i < 0 || i >= s.length {
		return false
	}
	s.selection = i
	return true
}

func (s *InteractionState) ClearSelection() { s.selection = noSelection }

// SetHistoryLength records the size of a newly arrived history set. A pinned
// selection that no longer fits is reset.
func (s *InteractionState) SetHistoryLength(n int) {
	if n < 0 {
		n = 0
	}
	s.length = n
	if s.selection >= n {
		s.selection = noSelection
	}
}

func (s *InteractionState) Selection() (int, bool) {
	if s.selection == noSelection {
		return 0, false
	}
	return s.selection, true
}

func (s *InteractionState) Mode() domain.ViewMode { return s.mode }

func (s *InteractionState) Snapshot() domain.SessionState {
	st := domain.SessionState{ViewMode: s.mode}
	if i, ok := s.Selection(); ok {
		st.Selection = &i
	}
	return st
}

// SelectElement maps the element indices reported by a click or tap on the
// chart to a selection. An empty list is ignored.
func SelectElement(s *InteractionState, elements []int) bool {
	if len(elements) == 0 {
		return false
	}
	return s.SetSelection(elements[0])
}
