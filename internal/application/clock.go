package application

import (
	"time"

	"github.com/google/uuid"
)

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// IDGen issues session ids.
type IDGen interface{ New() string }

type defaultIDGen struct{}

func (defaultIDGen) New() string { return uuid.NewString() }
