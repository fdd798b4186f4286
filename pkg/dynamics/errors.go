package dynamics

import "errors"

var (
	ErrInvalidAction         = errors.New("invalid action")
	ErrInvalidState          = errors.New("invalid state")
	ErrMalformedDistribution = errors.New("malformed transition distribution")
)
