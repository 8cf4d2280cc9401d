package metrics

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteRepository implements Repository using SQLite.
//
// Two tables back the ledger: rule_metrics holds the lifetime total per
// rule, rule_intervals the retained interval history. Both reference the
// rules table with ON DELETE CASCADE, so a rule deletion removes its
// metrics in the same statement.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed metrics repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Load reads every rule's ledger.
func (r *SQLiteRepository) Load(ctx context.Context) (map[string]*RuleMetrics, error) {
	ledgers := make(map[string]*RuleMetrics)

	rows, err := r.db.QueryContext(ctx, "SELECT rule_id, total_active_ms FROM rule_metrics")
	if err != nil {
		return nil, fmt.Errorf("querying rule metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ruleID string
			total  int64
		)
		if err := rows.Scan(&ruleID, &total); err != nil {
			return nil, fmt.Errorf("scanning rule metrics: %w", err)
		}
		ledgers[ruleID] = &RuleMetrics{TotalActiveMS: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule metrics: %w", err)
	}

	ivRows, err := r.db.QueryContext(ctx,
		"SELECT rule_id, start_ms, end_ms FROM rule_intervals ORDER BY start_ms")
	if err != nil {
		return nil, fmt.Errorf("querying rule intervals: %w", err)
	}
	defer ivRows.Close()

	for ivRows.Next() {
		var (
			ruleID string
			iv     Interval
		)
		if err := ivRows.Scan(&ruleID, &iv.StartMS, &iv.EndMS); err != nil {
			return nil, fmt.Errorf("scanning rule interval: %w", err)
		}
		ledger, ok := ledgers[ruleID]
		if !ok {
			// Interval without a totals row; tolerate and rebuild.
			ledger = &RuleMetrics{}
			ledgers[ruleID] = ledger
		}
		ledger.RecentIntervals = append(ledger.RecentIntervals, iv)
	}
	if err := ivRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule intervals: %w", err)
	}

	return ledgers, nil
}

// AppendInterval persists one recorded interval and the updated lifetime
// total atomically.
func (r *SQLiteRepository) AppendInterval(ctx context.Context, ruleID string, iv Interval, totalActiveMS int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rule_metrics (rule_id, total_active_ms) VALUES (?, ?)
		ON CONFLICT(rule_id) DO UPDATE SET total_active_ms = excluded.total_active_ms`,
		ruleID, totalActiveMS,
	); err != nil {
		return fmt.Errorf("upserting rule total: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO rule_intervals (rule_id, start_ms, end_ms) VALUES (?, ?, ?)",
		ruleID, iv.StartMS, iv.EndMS,
	); err != nil {
		return fmt.Errorf("inserting rule interval: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing interval: %w", err)
	}
	return nil
}

// Prune deletes persisted intervals ending before cutoffMS.
// rule_metrics totals are left untouched.
func (r *SQLiteRepository) Prune(ctx context.Context, cutoffMS int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM rule_intervals WHERE end_ms < ?", cutoffMS,
	); err != nil {
		return fmt.Errorf("pruning rule intervals: %w", err)
	}
	return nil
}

// Delete removes a rule's ledger. Usually redundant with the foreign key
// cascade from the rules table, but kept for direct store cleanup.
func (r *SQLiteRepository) Delete(ctx context.Context, ruleID string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM rule_intervals WHERE rule_id = ?", ruleID,
	); err != nil {
		return fmt.Errorf("deleting rule intervals: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM rule_metrics WHERE rule_id = ?", ruleID,
	); err != nil {
		return fmt.Errorf("deleting rule metrics: %w", err)
	}
	return nil
}
