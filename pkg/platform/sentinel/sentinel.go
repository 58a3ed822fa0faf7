package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Fetchers and stores return these
// (optionally wrapped) so services can decide whether a failure is hard
// (document or valuation source down) or degradable (party source down,
// cache unavailable).
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed record")
)
