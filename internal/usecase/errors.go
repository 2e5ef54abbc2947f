package usecase

import "errors"

// InvalidURLError reports a listing URL that cannot be evaluated.
type InvalidURLError struct {
	Reason string
}

func (e *InvalidURLError) Error() string { return e.Reason }

// ErrNoMarketplaces is returned when a search has no adapter to run against.
var ErrNoMarketplaces = errors.New("no marketplace available for search")
