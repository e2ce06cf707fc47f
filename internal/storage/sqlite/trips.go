package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
)

const tripColumns = "id, name, cover_image, icon, color, start_date, end_date, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	trip := &models.Trip{}
	err := row.Scan(&trip.ID, &trip.Name, &trip.CoverImage, &trip.Icon, &trip.Color,
		&trip.StartDate, &trip.EndDate, &trip.CreatedAt, &trip.UpdatedAt)
	return trip, err
}

// CreateTrip persists a new trip and its initial members.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	// Generate ID if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now
	}
	trip.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips ("+tripColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		trip.ID, trip.Name, trip.CoverImage, trip.Icon, trip.Color,
		trip.StartDate, trip.EndDate, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for i, userID := range trip.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_members (trip_id, user_id, position) VALUES (?, ?, ?)",
			trip.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, including its members in join order.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := scanTrip(s.db.QueryRowContext(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id = ?", tripID))
	if err == sql.ErrNoRows {
		return nil, notFound("trip", tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	trip.Members, err = s.tripMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// ListTripsByMember retrieves every trip userID belongs to, latest start date first.
func (s *SQLiteStore) ListTripsByMember(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.cover_image, t.icon, t.color, t.start_date, t.end_date, t.created_at, t.updated_at
		 FROM trips t
		 JOIN trip_members m ON m.trip_id = t.id
		 WHERE m.user_id = ?
		 ORDER BY t.start_date DESC, t.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	rows.Close()

	// Load members once the trip cursor is closed
	for _, trip := range trips {
		trip.Members, err = s.tripMembers(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
	}

	return trips, nil
}

// UpdateTrip updates the descriptive fields of an existing trip.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now().Unix()

	result, err := s.db.ExecContext(ctx,
		`UPDATE trips SET name = ?, cover_image = ?, icon = ?, color = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ?`,
		trip.Name, trip.CoverImage, trip.Icon, trip.Color, trip.StartDate, trip.EndDate, trip.UpdatedAt, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("trip", trip.ID)
	}

	return nil
}

// DeleteTrip removes a trip, its members, expenses and notes. Linked
// restaurants stay in their owners' journals.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to delete trip expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to delete trip notes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE restaurants SET trip_id = '' WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to unlink trip restaurants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_members WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to delete trip members: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("trip", tripID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddTripMember appends a member to the end of a trip's member list.
func (s *SQLiteStore) AddTripMember(ctx context.Context, tripID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&exists)
	if err == sql.ErrNoRows {
		return notFound("trip", tripID)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO trip_members (trip_id, user_id, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM trip_members WHERE trip_id = ?))`,
		tripID, userID, tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to add trip member: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE trips SET updated_at = ? WHERE id = ?", time.Now().Unix(), tripID); err != nil {
		return fmt.Errorf("failed to touch trip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLiteStore) tripMembers(ctx context.Context, tripID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM trip_members WHERE trip_id = ? ORDER BY position",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan trip member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip members: %w", err)
	}

	return members, nil
}
