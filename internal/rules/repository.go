package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/busylight-core/internal/light"
)

// Repository defines the interface for rule persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Create(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id string) error
}

// ruleColumns is the SELECT column list for rule queries.
const ruleColumns = `id, name, enabled, expression, action, sort_order, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
//
// Expression and action are stored as JSON columns; rule metrics rows
// reference rules with ON DELETE CASCADE, so deleting a rule deletes its
// metrics in the same statement.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a rule by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id = ?`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("querying rule by id: %w", err)
	}
	return rule, nil
}

// List retrieves all rules in evaluation order (sort_order, then name).
func (r *SQLiteRepository) List(ctx context.Context) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var list []Rule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning rule: %w", scanErr)
		}
		list = append(list, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}
	return list, nil
}

// Create inserts a new rule.
func (r *SQLiteRepository) Create(ctx context.Context, rule *Rule) error {
	exprJSON, actionJSON, err := marshalRule(rule)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	query := `
		INSERT INTO rules (id, name, enabled, expression, action, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		boolToInt(rule.Enabled),
		exprJSON,
		actionJSON,
		rule.SortOrder,
		rule.CreatedAt.Format(time.RFC3339),
		rule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrRuleExists
		}
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

// Update modifies an existing rule.
func (r *SQLiteRepository) Update(ctx context.Context, rule *Rule) error {
	exprJSON, actionJSON, err := marshalRule(rule)
	if err != nil {
		return err
	}

	rule.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE rules SET
			name = ?, enabled = ?, expression = ?, action = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		rule.Name,
		boolToInt(rule.Enabled),
		exprJSON,
		actionJSON,
		rule.SortOrder,
		rule.UpdatedAt.Format(time.RFC3339),
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Delete removes a rule by ID. Metrics rows cascade via foreign key.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// marshalRule serialises the JSON columns of a rule.
func marshalRule(rule *Rule) (exprJSON, actionJSON string, err error) {
	expr, err := json.Marshal(Canonicalize(rule.Expression))
	if err != nil {
		return "", "", fmt.Errorf("marshalling expression: %w", err)
	}
	action, err := json.Marshal(rule.Action)
	if err != nil {
		return "", "", fmt.Errorf("marshalling action: %w", err)
	}
	return string(expr), string(action), nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRule scans a rule row, unmarshalling the JSON columns.
func scanRule(row rowScanner) (*Rule, error) {
	var (
		rule       Rule
		enabled    int
		exprJSON   string
		actionJSON string
		createdAt  string
		updatedAt  string
	)

	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&enabled,
		&exprJSON,
		&actionJSON,
		&rule.SortOrder,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	rule.Enabled = enabled != 0

	var expr Expression
	if err := json.Unmarshal([]byte(exprJSON), &expr); err != nil {
		return nil, fmt.Errorf("unmarshalling expression: %w", err)
	}
	rule.Expression = expr

	var action light.Action
	if err := json.Unmarshal([]byte(actionJSON), &action); err != nil {
		return nil, fmt.Errorf("unmarshalling action: %w", err)
	}
	rule.Action = action

	// Timestamps are written by us in RFC3339; parse errors mean a
	// hand-edited row and are not fatal.
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	rule.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return &rule, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError detects SQLite unique constraint violations.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
