package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339

// CreateHousehold inserts a new household and returns it with its generated id.
func (s *Store) CreateHousehold(ctx context.Context, name, region string, members int) (domain.Household, error) {
	h := domain.Household{
		ID:        uuid.NewString(),
		Name:      name,
		Region:    region,
		Members:   members,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO households (id, name, region, members, created_at) VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Region, h.Members, h.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return domain.Household{}, fmt.Errorf("inserting household: %w", err)
	}
	return h, nil
}

// GetHousehold fetches a household by id.
func (s *Store) GetHousehold(ctx context.Context, id string) (domain.Household, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, region, members, created_at FROM households WHERE id = ?`, id)
	return scanHousehold(row)
}

// FindHousehold fetches a household by id or, failing that, by exact name.
// The CLI accepts either form.
func (s *Store) FindHousehold(ctx context.Context, idOrName string) (domain.Household, error) {
	h, err := s.GetHousehold(ctx, idOrName)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return domain.Household{}, err
	}
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, region, members, created_at FROM households WHERE name = ? ORDER BY created_at LIMIT 1`, idOrName)
	return scanHousehold(row)
}

// ListHouseholds returns all households, newest first.
func (s *Store) ListHouseholds(ctx context.Context) ([]domain.Household, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, region, members, created_at FROM households ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing households: %w", err)
	}
	defer rows.Close()

	var out []domain.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHousehold(row rowScanner) (domain.Household, error) {
	var h domain.Household
	var createdAt string
	err := row.Scan(&h.ID, &h.Name, &h.Region, &h.Members, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Household{}, ErrNotFound
	}
	if err != nil {
		return domain.Household{}, fmt.Errorf("scanning household: %w", err)
	}
	h.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return domain.Household{}, fmt.Errorf("parsing household timestamp: %w", err)
	}
	return h, nil
}
