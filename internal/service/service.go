// Package service owns the live ledger state and serializes every change to it.
//
// Mutations run as pure transitions on the current state. On success the
// previous state is pushed onto the undo stack, the new state is persisted and
// only then becomes current. A failed transition or save leaves everything as it was.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
	"github.com/rs/zerolog"
)

type Service struct {
	mu      sync.Mutex
	state   ledger.State
	repo    repo.StateRepository
	undo    *undo.Manager
	metrics *metrics.Metrics
	log     zerolog.Logger
	loc     *time.Location
	clock   func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithLocation sets the time zone calendar days are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithUndoCapacity(n int) Option {
	return func(s *Service) { s.undo = undo.NewManager(n) }
}

// New loads the stored state from r. When r also keeps an undo stack,
// that stack is restored too.
func New(ctx context.Context, r repo.StateRepository, opts ...Option) (*Service, error) {
	s := &Service{
		repo:    r,
		undo:    undo.NewManager(undo.DefaultCapacity),
		metrics: metrics.New(nil),
		log:     logger.Logger,
		loc:     time.Local,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := r.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	s.state = st

	if ur, ok := r.(repo.UndoRepository); ok {
		entries, err := ur.LoadUndo(ctx)
		if err != nil {
			return nil, fmt.Errorf("load undo stack: %w", err)
		}
		s.undo.Restore(entries)
	}

	s.metrics.SetSize(st.Catalog.Len(), st.Ledger.Len())
	s.log.Info().
		Int("products", st.Catalog.Len()).
		Int("transactions", st.Ledger.Len()).
		Int("undo", s.undo.Len()).
		Msg("ledger loaded")
	return s, nil
}

// Now returns the current instant in the ledger time zone.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// Location returns the ledger time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() ledger.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// UndoDepth returns the number of snapshots available to Undo.
func (s *Service) UndoDepth() int {
	return s.undo.Len()
}

func (s *Service) read(fn func(st ledger.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Service) mutate(ctx context.Context, reason string, fn func(ledger.State) (ledger.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state)
	if err != nil {
		s.metrics.Rejections.WithLabelValues(rejectionReason(err)).Inc()
		s.log.Warn().Err(err).Str("op", reason).Msg("operation rejected")
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Str("op", reason).Msg("failed to persist state")
		return fmt.Errorf("persist state: %w", err)
	}

	s.undo.Push(s.state, reason)
	s.state = next
	s.saveUndo(ctx)
	s.metrics.SetSize(next.Catalog.Len(), next.Ledger.Len())
	return nil
}

func (s *Service) saveUndo(ctx context.Context) {
	ur, ok := s.repo.(repo.UndoRepository)
	if !ok {
		return
	}
	if err := ur.SaveUndo(ctx, s.undo.Entries()); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist undo stack")
	}
}

// Undo restores the most recent snapshot and returns the reason it was taken.
func (s *Service) Undo(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.undo.Pop()
	if err != nil {
		return "", err
	}
	if err := s.repo.Save(ctx, entry.State); err != nil {
		s.undo.Push(entry.State, entry.Reason)
		return "", fmt.Errorf("persist state: %w", err)
	}

	s.state = entry.State
	s.saveUndo(ctx)
	s.metrics.Undos.Inc()
	s.metrics.SetSize(s.state.Catalog.Len(), s.state.Ledger.Len())
	s.log.Info().Str("reason", entry.Reason).Int("remaining", s.undo.Len()).Msg("undo applied")
	return entry.Reason, nil
}

func rejectionReason(err error) string {
	switch {
	case ledger.IsValidation(err):
		return "validation"
	case errors.Is(err, ledger.ErrConflict):
		return "conflict"
	case errors.Is(err, ledger.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ledger.ErrInputShape):
		return "input_shape"
	case errors.Is(err, ledger.ErrProductNotFound):
		return "not_found"
	}
	return "other"
}
