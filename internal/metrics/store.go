package metrics

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Repository defines the interface for metrics persistence.
type Repository interface {
	// Load reads every rule's ledger.
	Load(ctx context.Context) (map[string]*RuleMetrics, error)

	// AppendInterval persists one recorded interval and the updated
	// lifetime total for a rule.
	AppendInterval(ctx context.Context, ruleID string, iv Interval, totalActiveMS int64) error

	// Prune deletes persisted intervals ending before cutoffMS.
	Prune(ctx context.Context, cutoffMS int64) error

	// Delete removes a rule's ledger entirely.
	Delete(ctx context.Context, ruleID string) error
}

// Store holds the in-memory ledgers for all rules, keyed by rule ID,
// and writes mutations through to a repository.
//
// All mutation is atomic with respect to Summary reads: one mutex
// guards the ledger map, so a reader never observes a torn ledger.
// Persistence failures are logged and do not block the decision path —
// the in-memory ledger is authoritative for the running process.
type Store struct {
	mu     sync.Mutex
	byRule map[string]*RuleMetrics
	repo   Repository
	logger Logger
}

// NewStore creates a metrics store. repo may be nil for a purely
// in-memory store (tests).
func NewStore(repo Repository) *Store {
	return &Store{
		byRule: make(map[string]*RuleMetrics),
		repo:   repo,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Load populates the store from the repository. Call on startup.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading metrics: %w", err)
	}

	s.mu.Lock()
	s.byRule = loaded
	if s.byRule == nil {
		s.byRule = make(map[string]*RuleMetrics)
	}
	s.mu.Unlock()
	return nil
}

// RecordInterval records a closed active interval for a rule.
// Non-positive durations are ignored, matching the ledger contract.
func (s *Store) RecordInterval(ctx context.Context, ruleID string, startMS, endMS int64) {
	s.mu.Lock()
	ledger, ok := s.byRule[ruleID]
	if !ok {
		ledger = &RuleMetrics{}
		s.byRule[ruleID] = ledger
	}
	recorded := ledger.RecordInterval(startMS, endMS)
	total := ledger.TotalActiveMS
	s.mu.Unlock()

	if !recorded {
		return
	}

	if s.repo != nil {
		iv := Interval{StartMS: startMS, EndMS: endMS}
		if err := s.repo.AppendInterval(ctx, ruleID, iv, total); err != nil {
			s.logger.Error("failed to persist rule interval",
				"rule_id", ruleID,
				"error", err,
			)
		}
	}

	s.logger.Debug("rule interval recorded",
		"rule_id", ruleID,
		"duration_ms", endMS-startMS,
	)
}

// Prune drops intervals older than the retention horizon from every
// ledger and from persistence. Lifetime totals are untouched.
func (s *Store) Prune(ctx context.Context, nowMS int64) {
	s.mu.Lock()
	removed := 0
	for _, ledger := range s.byRule {
		removed += ledger.Prune(nowMS)
	}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Prune(ctx, nowMS-retentionMS); err != nil {
			s.logger.Error("failed to prune persisted intervals", "error", err)
		}
	}

	if removed > 0 {
		s.logger.Debug("pruned rule intervals", "removed", removed)
	}
}

// Summary aggregates a rule's ledger at a point in time.
// The second return is false when the rule has no ledger yet.
func (s *Store) Summary(ruleID string, nowMS int64) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.byRule[ruleID]
	if !ok {
		return Summary{}, false
	}
	return ledger.Summarize(nowMS), true
}

// Get returns a copy of a rule's ledger.
func (s *Store) Get(ruleID string) (*RuleMetrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, ok := s.byRule[ruleID]
	if !ok {
		return nil, false
	}
	return ledger.Clone(), true
}

// Delete removes a rule's ledger. Called when the owning rule is
// deleted; metrics never outlive their rule.
func (s *Store) Delete(ctx context.Context, ruleID string) {
	s.mu.Lock()
	delete(s.byRule, ruleID)
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Delete(ctx, ruleID); err != nil {
			s.logger.Error("failed to delete persisted metrics",
				"rule_id", ruleID,
				"error", err,
			)
		}
	}
}
