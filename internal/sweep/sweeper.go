// Package sweep runs the recurring deadline-driven pass over complaints. Each
// tick re-derives its candidate sets from current state, so an interrupted or
// skipped tick needs no recovery: still-qualifying complaints are simply found
// again next time.
package sweep

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"civictrack/backend/internal/config"
	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"
)

// Engine is the slice of the lifecycle service the sweeper drives.
type Engine interface {
	SendDeadlineWarning(ctx context.Context, id string) (*models.Complaint, error)
	AutoEscalate(ctx context.Context, id string) (*models.Complaint, error)
	PublicEscalate(ctx context.Context, id string) (*models.Complaint, error)
}

// Store is the slice of the record store the sweeper reads candidates from.
type Store interface {
	FindComplaints(ctx context.Context, filter storage.Filter) ([]models.Complaint, error)
	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
}

type Sweeper struct {
	Store  Store
	Engine Engine

	// Interval between ticks; Now is the clock. Both overridable in tests.
	Interval time.Duration
	Now      func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

func NewSweeper(store Store, engine Engine) *Sweeper {
	return &Sweeper{
		Store:    store,
		Engine:   engine,
		Interval: config.SweepInterval,
		Now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins the recurring sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	log.Println("sweep: started")
}

func (s *Sweeper) Stop() {
	close(s.done)
	s.wg.Wait()
	log.Println("sweep: stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Tick(context.Background())
		}
	}
}

// Tick runs the three passes in fixed order: warnings for complaints still
// short of deadline, auto-escalation for those past it, then the terminal
// public escalation. The candidate sets are disjoint by construction, so a
// complaint is never warned and escalated in the same tick.
func (s *Sweeper) Tick(ctx context.Context) {
	held, err := s.Store.AcquireSweepLock(ctx, s.Interval)
	if err != nil {
		log.Printf("sweep: lock: %v", err)
		return
	}
	if !held {
		return
	}
	defer func() {
		if err := s.Store.ReleaseSweepLock(ctx); err != nil {
			log.Printf("sweep: unlock: %v", err)
		}
	}()

	now := s.Now()
	s.warningPass(ctx, now)
	s.escalationPass(ctx, now)
	s.publicPass(ctx, now)
}

func (s *Sweeper) warningPass(ctx context.Context, now time.Time) {
	windowEnd := now.Add(config.WarningWindow)
	candidates, err := s.Store.FindComplaints(ctx, storage.Filter{
		DeadlineAfter:  &now,
		DeadlineBefore: &windowEnd,
		ExcludeStatuses: []models.Status{
			models.StatusResolved, models.StatusVerified,
			models.StatusRejected, models.StatusSocialMedia,
		},
	})
	if err != nil {
		log.Printf("sweep: warning candidates: %v", err)
		return
	}

	for _, c := range candidates {
		if c.AssignedTo == nil {
			continue
		}
		if _, err := s.Engine.SendDeadlineWarning(ctx, c.ID); err != nil && !skippable(err) {
			log.Printf("sweep: warn %s: %v", c.ID, err)
		}
	}
}

func (s *Sweeper) escalationPass(ctx context.Context, now time.Time) {
	maxLevel := config.MaxEscalationLevel
	candidates, err := s.Store.FindComplaints(ctx, storage.Filter{
		DeadlineBefore: &now,
		LevelBelow:     &maxLevel,
		ExcludeStatuses: []models.Status{
			models.StatusResolved, models.StatusVerified,
			models.StatusSocialMedia, models.StatusEscalated,
			models.StatusRejected,
		},
	})
	if err != nil {
		log.Printf("sweep: escalation candidates: %v", err)
		return
	}

	for _, c := range candidates {
		if _, err := s.Engine.AutoEscalate(ctx, c.ID); err != nil && !skippable(err) {
			log.Printf("sweep: escalate %s: %v", c.ID, err)
		}
	}
}

func (s *Sweeper) publicPass(ctx context.Context, now time.Time) {
	level := config.MaxEscalationLevel
	cutoff := now.Add(-config.PublicEscalationGrace)
	candidates, err := s.Store.FindComplaints(ctx, storage.Filter{
		EscalationLevel: &level,
		DeadlineBefore:  &cutoff,
		ExcludeStatuses: []models.Status{
			models.StatusResolved, models.StatusVerified,
			models.StatusRejected, models.StatusSocialMedia,
		},
	})
	if err != nil {
		log.Printf("sweep: public candidates: %v", err)
		return
	}

	for _, c := range candidates {
		if _, err := s.Engine.PublicEscalate(ctx, c.ID); err != nil && !skippable(err) {
			log.Printf("sweep: publish %s: %v", c.ID, err)
		}
	}
}

// skippable errors mean a concurrent actor already transitioned the
// candidate; the next tick re-evaluates it against fresh state.
func skippable(err error) bool {
	return errors.Is(err, lifecycle.ErrConflict) || errors.Is(err, lifecycle.ErrNotFound)
}
