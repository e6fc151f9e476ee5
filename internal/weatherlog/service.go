package weatherlog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Le0Vieir4/Weather-io/internal/logger"
)

// Service implements the bounded weather log over a Repository.
//
// Two pieces of state live on the instance rather than in the store: the most
// recently received observation and the last non-empty AI insight. Both are
// last-write-wins registers updated only by Receive. When several instances
// run behind a load balancer each holds its own copy; callers must not assume
// global consistency.
type Service struct {
	repo Repository
	log  *logger.Logger

	mu          sync.RWMutex
	latest      *Observation
	lastInsight string
}

// NewService constructs a Service backed by the given repository.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Receive ingests one observation: the insight carry-forward rule is applied,
// the observation is persisted, the latest pointer is updated, and retention
// is enforced — in that order. Concurrent calls may briefly exceed MaxLogs;
// the next call's retention pass restores the bound.
func (s *Service) Receive(ctx context.Context, o Observation) (Observation, error) {
	s.mu.Lock()
	if o.AIInsight != "" {
		s.lastInsight = o.AIInsight
	} else if s.lastInsight != "" {
		o.AIInsight = s.lastInsight
	}
	s.mu.Unlock()

	saved, err := s.repo.Insert(ctx, o)
	if err != nil {
		return Observation{}, err
	}

	s.mu.Lock()
	s.latest = &saved
	s.mu.Unlock()

	if err := s.enforceRetention(ctx); err != nil {
		// Retention is eventual: a failed pass is logged and the next
		// Receive gets another chance to restore the bound.
		s.log.Err(err).Msg("weatherlog: retention enforcement failed")
	}

	return saved, nil
}

// enforceRetention evicts exactly count-MaxLogs oldest observations when the
// persisted count exceeds the bound.
func (s *Service) enforceRetention(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count <= MaxLogs {
		return nil
	}

	overflow := count - MaxLogs
	oldest, err := s.repo.FindOldest(ctx, overflow)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(oldest))
	for _, o := range oldest {
		ids = append(ids, o.ID)
	}

	removed, err := s.repo.Remove(ctx, ids)
	if err != nil {
		return err
	}
	s.log.Info().Int("removed", removed).Int("maxLogs", MaxLogs).
		Msg("weatherlog: evicted old logs to maintain limit")
	return nil
}

// GetLatest returns the cached most recent observation, or nil before the
// first Receive. This is a deliberate in-memory read: it costs nothing and
// survives store read failures; only Receive updates it, eviction does not.
func (s *Service) GetLatest() *Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil
	}
	o := *s.latest
	return &o
}

// LastInsight returns the most recent non-empty AI insight, or "".
func (s *Service) LastInsight() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastInsight
}

// GetLogs returns up to limit persisted observations, newest first.
func (s *Service) GetLogs(ctx context.Context, limit int) ([]Observation, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.FindRecent(ctx, limit)
}

// GetLogsByCity returns up to limit observations whose city contains the given
// string, case-insensitively, newest first. The filter runs after retrieval,
// then the result is truncated.
func (s *Service) GetLogsByCity(ctx context.Context, city string, limit int) ([]Observation, error) {
	if limit <= 0 {
		limit = 50
	}

	all, err := s.repo.FindRecent(ctx, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(city)
	var filtered []Observation
	for _, o := range all {
		if strings.Contains(strings.ToLower(o.City), needle) {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// DeleteOlderThan permanently removes observations created more than the given
// number of days ago, independent of the MaxLogs bound. Returns how many were
// removed; zero matches is not an error.
func (s *Service) DeleteOlderThan(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	all, err := s.repo.FindRecent(ctx, 0)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, o := range all {
		if o.CreatedAt.Before(cutoff) {
			ids = append(ids, o.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	return s.repo.Remove(ctx, ids)
}

// Count returns the number of persisted observations.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Oldest returns the oldest persisted observation, or nil when the log is empty.
func (s *Service) Oldest(ctx context.Context) (*Observation, error) {
	logs, err := s.repo.FindOldest(ctx, 1)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// Newest returns the newest persisted observation, or nil when the log is empty.
func (s *Service) Newest(ctx context.Context) (*Observation, error) {
	logs, err := s.repo.FindRecent(ctx, 1)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}
