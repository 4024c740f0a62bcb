package application

import (
	"fmt"
	"strconv"
	"strings"

	"projectchart-service/internal/chart"
	"projectchart-service/internal/domain"
)

type ActionKind string

const (
	ActionUnit      ActionKind = "unit"
	ActionMarketcap ActionKind = "marketcap"
	ActionTimeRange ActionKind = "timerange"
	ActionSelect    ActionKind = "select"
)

// Action is one user event on the chart. For select, Elements carries the
// indices reported by the renderer; Value may carry a single index or "none".
type Action struct {
	Kind     ActionKind `json:"kind"`
	Value    string     `json:"value"`
	Elements []int      `json:"elements,omitempty"`
}

// apply maps the action to exactly one state mutator.
func (a Action) apply(s *chart.InteractionState) error {
	switch a.Kind {
	case ActionUnit:
		u, err := domain.ParseUnit(a.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		s.SetUnit(u)
	case ActionMarketcap:
		on, err := strconv.ParseBool(a.Value)
		if err != nil {
			return fmt.Errorf("%w: marketcap value %q", ErrBadRequest, a.Value)
		}
		s.SetMarketCapOverlay(on)
	case ActionTimeRange:
		r, err := domain.ParseTimeRange(a.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		s.SetTimeRange(r)
	case ActionSelect:
		if len(a.Elements) > 0 {
			chart.SelectElement(s, a.Elements)
			return nil
		}
		v := strings.TrimSpace(a.Value)
		if v == "" || strings.EqualFold(v, "none") {
			s.ClearSelection()
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: selection %q", ErrBadRequest, a.Value)
		}
		s.SetSelection(i)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrBadRequest, a.Kind)
	}
	return nil
}
