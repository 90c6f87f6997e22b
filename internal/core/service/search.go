package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/clock"
	"github.com/niksmo/storefront/pkg/strmatch"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	emitEventTimeout = 5 * time.Second
)

var _ port.Searcher = (*Search)(nil)

// FilterByTerm keeps products whose name, category, subcategory or
// description contains term, ignoring case. A blank term keeps everything.
func FilterByTerm(ps []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ps
	}
	return filter(ps, func(p domain.Product) bool {
		for _, field := range [...]string{p.Name, p.Category, p.Subcategory, p.Description} {
			if strings.Contains(strings.ToLower(field), term) {
				return true
			}
		}
		return false
	})
}

// FindClosest returns the product whose name is nearest to term by edit
// distance.
func FindClosest(ps []domain.Product, term string) (domain.Product, bool) {
	return strmatch.Closest(ps, term, func(p domain.Product) string {
		return p.Name
	})
}

type SearchOpt func(*Search)

func SearchDebounceOpt(d time.Duration) SearchOpt {
	return func(s *Search) {
		if d > 0 {
			s.delay = d
		}
	}
}

func SearchClockOpt(clk clock.Clock) SearchOpt {
	return func(s *Search) {
		if clk != nil {
			s.clock = clk
		}
	}
}

func SearchRecentOpt(r *RecentSearches) SearchOpt {
	return func(s *Search) { s.recent = r }
}

func SearchEmitterOpt(e port.SearchEventsEmitter) SearchOpt {
	return func(s *Search) { s.emitter = e }
}

// SearchOnCommitOpt registers a callback run after every commit, on the
// timer's goroutine.
func SearchOnCommitOpt(fn func(domain.SearchResult)) SearchOpt {
	return func(s *Search) { s.onCommit = fn }
}

// A Search debounces raw input into a committed term and narrows the
// catalog by it. Only the last keystroke inside the debounce window is
// committed.
type Search struct {
	source   port.ProductsSource
	clock    clock.Clock
	delay    time.Duration
	recent   *RecentSearches
	emitter  port.SearchEventsEmitter
	onCommit func(domain.SearchResult)

	mu            sync.Mutex
	status        domain.SearchStatus
	rawTerm       string
	committedTerm string
	timer         clock.Timer
	gen           uint64
	inflight      int
	settled       chan struct{}
	closed        bool
}

func NewSearch(source port.ProductsSource, opts ...SearchOpt) *Search {
	s := &Search{
		source:  source,
		clock:   clock.Real(),
		delay:   DefaultDebounce,
		settled: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTerm records a keystroke and restarts the debounce timer.
func (s *Search) SetTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.rawTerm = term
	s.status = domain.SearchDebouncing
	s.stopTimer()
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.commit(gen) })
}

// Clear drops both terms at once, without waiting for the debounce.
func (s *Search) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTimer()
	s.gen++
	s.rawTerm = ""
	s.committedTerm = ""
	s.status = domain.SearchIdle
	s.broadcast()
}

// Close cancels a pending commit. A closed Search ignores input.
func (s *Search) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.stopTimer()
	s.gen++
	close(s.settled)
}

// Await blocks until no commit is pending or running and returns the
// current result.
func (s *Search) Await(ctx context.Context) (domain.SearchResult, error) {
	const op = "Search.Await"

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return domain.SearchResult{}, fmt.Errorf("%s: %w", op, domain.ErrSearchClosed)
		}
		if s.status != domain.SearchDebouncing && s.inflight == 0 {
			term := s.committedTerm
			s.mu.Unlock()
			return s.resultFor(term), nil
		}
		settled := s.settled
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return domain.SearchResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-settled:
		}
	}
}

func (s *Search) commit(gen uint64) {
	const op = "Search.commit"
	log := slog.With("op", op)

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	term := s.rawTerm
	s.inflight++
	s.mu.Unlock()
	defer s.commitDone()

	res := s.resultFor(term)

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		log.Debug("search superseded", "term", res.Term)
		return
	}
	s.committedTerm = term
	s.status = domain.SearchSettled
	s.timer = nil
	s.mu.Unlock()

	log.Debug("search committed", "term", res.Term, "nResults", len(res.Products))

	if res.Term != "" {
		ctx, cancel := context.WithTimeout(context.Background(), emitEventTimeout)
		defer cancel()

		if s.recent != nil && len(res.Products) > 0 {
			s.recent.Record(ctx, res.Term)
		}
		s.emit(ctx, res)
	}
	if s.onCommit != nil {
		s.onCommit(res)
	}
}

// commitDone wakes Await callers once a running commit has finished its
// side effects.
func (s *Search) commitDone() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if !s.closed {
		s.broadcast()
	}
}

func (s *Search) emit(ctx context.Context, res domain.SearchResult) {
	const op = "Search.emit"
	log := slog.With("op", op)

	if s.emitter == nil {
		return
	}
	evt := domain.SearchEvent{
		Term:       res.Term,
		Results:    len(res.Products),
		SearchedAt: s.clock.Now(),
	}
	if res.Suggestion != nil {
		evt.Suggestion = res.Suggestion.Name
	}
	if err := s.emitter.EmitSearch(ctx, evt); err != nil {
		log.Warn("failed to emit search event", "err", err)
	}
}

func (s *Search) resultFor(term string) domain.SearchResult {
	products := s.source.Products()
	trimmed := strings.TrimSpace(term)

	res := domain.SearchResult{
		Term:     trimmed,
		Products: FilterByTerm(products, trimmed),
	}
	if trimmed != "" && len(res.Products) == 0 {
		if p, ok := FindClosest(products, trimmed); ok {
			res.Suggestion = &p
		}
	}
	return res
}

// Results is the view for the committed term.
func (s *Search) Results() domain.SearchResult {
	return s.resultFor(s.CommittedTerm())
}

func (s *Search) Status() domain.SearchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Search) RawTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawTerm
}

func (s *Search) CommittedTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committedTerm
}

func (s *Search) IsSearching() bool {
	return s.Status() == domain.SearchDebouncing
}

func (s *Search) HasActiveSearch() bool {
	return strings.TrimSpace(s.CommittedTerm()) != ""
}

func (s *Search) Recent() []string {
	if s.recent == nil {
		return nil
	}
	return s.recent.List()
}

func (s *Search) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// broadcast wakes Await callers. Callers hold s.mu.
func (s *Search) broadcast() {
	close(s.settled)
	s.settled = make(chan struct{})
}
