package domain

import "time"

type SearchStatus int

const (
	SearchIdle SearchStatus = iota
	SearchDebouncing
	SearchSettled
)

func (s SearchStatus) String() string {
	switch s {
	case SearchDebouncing:
		return "debouncing"
	case SearchSettled:
		return "settled"
	default:
		return "idle"
	}
}

type SearchResult struct {
	Term       string
	Products   []Product
	Suggestion *Product
}

// SearchEvent describes a committed search for analytics consumers.
type SearchEvent struct {
	Term       string
	Results    int
	Suggestion string
	SearchedAt time.Time
}
