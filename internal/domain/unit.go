package domain

import "strings"

// Unit is the denomination chart values are expressed in.
type Unit string

const (
	UnitUSD Unit = "USD"
	// UnitBTC is the reference currency.
	UnitBTC Unit = "BTC"
)

func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USD":
		return UnitUSD, nil
	case "BTC":
		return UnitBTC, nil
	default:
		return "", ErrUnknownUnit
	}
}

func (u Unit) IsReference() bool { return u == UnitBTC }
