package domain

import "errors"

var (
	ErrUnsupportedTicker = errors.New("unsupported ticker")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrUnknownTimeRange  = errors.New("unknown time range")
)
