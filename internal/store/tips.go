package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// DismissTip records that a household dismissed a tip. Dismissing an already
// dismissed tip is a no-op.
func (s *Store) DismissTip(ctx context.Context, householdID, tipID string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO tip_dismissals (household_id, tip_id, dismissed_at) VALUES (?, ?, ?)`,
		householdID, tipID, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("dismissing tip: %w", err)
	}
	return nil
}

// UndismissTip removes a dismissal. Returns ErrNotFound when the tip was not
// dismissed.
func (s *Store) UndismissTip(ctx context.Context, householdID, tipID string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM tip_dismissals WHERE household_id = ? AND tip_id = ?`,
		householdID, tipID,
	)
	if err != nil {
		return fmt.Errorf("undismissing tip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DismissedTips returns the set of tip IDs the household has dismissed.
func (s *Store) DismissedTips(ctx context.Context, householdID string) (map[string]bool, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT tip_id FROM tip_dismissals WHERE household_id = ?`, householdID)
	if err != nil {
		return nil, fmt.Errorf("listing dismissed tips: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning dismissed tip: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// ReductionGoal tracks a household's commitment to act on a tip.
type ReductionGoal struct {
	ID          string
	HouseholdID string
	TipID       string
	TargetDate  time.Time
	Completed   bool
	CompletedAt time.Time
	Notes       string
	CreatedAt   time.Time
}

// AddGoal records a new reduction goal.
func (s *Store) AddGoal(ctx context.Context, householdID, tipID string, targetDate time.Time, notes string) (ReductionGoal, error) {
	g := ReductionGoal{
		ID:          ulid.Make().String(),
		HouseholdID: householdID,
		TipID:       tipID,
		TargetDate:  targetDate,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO reduction_goals (id, household_id, tip_id, target_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.HouseholdID, g.TipID, g.TargetDate.UTC().Format(dateLayout), g.Notes,
		g.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return ReductionGoal{}, fmt.Errorf("inserting reduction goal: %w", err)
	}
	return g, nil
}

// CompleteGoal marks a goal done. Returns ErrNotFound for an unknown id.
func (s *Store) CompleteGoal(ctx context.Context, goalID string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE reduction_goals SET completed = 1, completed_at = ? WHERE id = ? AND completed = 0`,
		time.Now().UTC().Format(timeLayout), goalID,
	)
	if err != nil {
		return fmt.Errorf("completing reduction goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGoals returns a household's goals, newest first.
func (s *Store) ListGoals(ctx context.Context, householdID string) ([]ReductionGoal, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, household_id, tip_id, target_date, completed, completed_at, notes, created_at
		FROM reduction_goals WHERE household_id = ? ORDER BY created_at DESC, id DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reduction goals: %w", err)
	}
	defer rows.Close()

	var out []ReductionGoal
	for rows.Next() {
		var g ReductionGoal
		var targetDate, createdAt string
		var completedAt sql.NullString
		var completed int
		if err := rows.Scan(&g.ID, &g.HouseholdID, &g.TipID, &targetDate, &completed, &completedAt, &g.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning reduction goal: %w", err)
		}
		g.Completed = completed != 0
		if g.TargetDate, err = time.Parse(dateLayout, targetDate); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		if completedAt.Valid {
			if g.CompletedAt, err = time.Parse(timeLayout, completedAt.String); err != nil {
				return nil, fmt.Errorf("goal %s: %w", g.ID, err)
			}
		}
		if g.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
