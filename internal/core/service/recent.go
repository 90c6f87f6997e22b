package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

const DefaultRecentLimit = 5

// RecentSearches keeps the latest successful search terms, most recent
// first. Persistence is best-effort: storage errors are logged and skipped.
type RecentSearches struct {
	storage port.RecentSearchesStorage
	limit   int

	mu    sync.Mutex
	terms []string
}

// NewRecentSearches loads the stored list. storage may be nil, in which
// case the list lives in memory only.
func NewRecentSearches(
	ctx context.Context, storage port.RecentSearchesStorage, limit int,
) *RecentSearches {
	const op = "NewRecentSearches"
	log := slog.With("op", op)

	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	r := &RecentSearches{storage: storage, limit: limit}

	if storage == nil {
		return r
	}

	terms, err := storage.LoadRecent(ctx)
	if err != nil {
		log.Warn("failed to load recent searches", "err", err)
		return r
	}
	r.terms = r.compact(terms)
	return r
}

// Record moves term to the front of the list.
func (r *RecentSearches) Record(ctx context.Context, term string) {
	const op = "RecentSearches.Record"
	log := slog.With("op", op)

	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	r.mu.Lock()
	r.terms = r.compact(append([]string{term}, r.terms...))
	terms := slices.Clone(r.terms)
	r.mu.Unlock()

	if r.storage == nil {
		return
	}
	if err := r.storage.SaveRecent(ctx, terms); err != nil {
		log.Warn("failed to save recent searches", "err", err)
	}
}

func (r *RecentSearches) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.terms)
}

func (r *RecentSearches) compact(terms []string) []string {
	out := make([]string, 0, r.limit)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
		if len(out) == r.limit {
			break
		}
	}
	return out
}
