package domain

import (
	"regexp"
	"strings"
)

type Ticker string

var tickerRe = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NormalizeTicker upper-cases the ticker and validates its shape.
func NormalizeTicker(s string) (Ticker, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if !tickerRe.MatchString(t) {
		return "", ErrUnsupportedTicker
	}
	return Ticker(t), nil
}
