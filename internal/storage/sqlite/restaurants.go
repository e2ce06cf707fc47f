package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
)

const restaurantColumns = "id, user_id, trip_id, name, address, city, country, maps_link, cuisine_type, latitude, longitude, created_at"

const visitColumns = "id, restaurant_id, user_id, date, rating, total_price, currency, notes, created_at"

func scanRestaurant(row rowScanner) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	var lat, lng sql.NullFloat64
	err := row.Scan(&r.ID, &r.UserID, &r.TripID, &r.Name, &r.Address, &r.City, &r.Country,
		&r.MapsLink, &r.CuisineType, &lat, &lng, &r.CreatedAt)
	if lat.Valid && lng.Valid {
		r.Coordinates = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	return r, err
}

func coordinateArgs(c *models.Coordinates) (lat, lng sql.NullFloat64) {
	if c == nil {
		return lat, lng
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

func scanVisit(row rowScanner) (*models.Visit, error) {
	v := &models.Visit{}
	err := row.Scan(&v.ID, &v.RestaurantID, &v.UserID, &v.Date, &v.Rating, &v.TotalPrice,
		&v.Currency, &v.Notes, &v.CreatedAt)
	return v, err
}

// CreateRestaurant persists a new journal entry.
func (s *SQLiteStore) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.New().String()
	}
	if restaurant.CreatedAt == 0 {
		restaurant.CreatedAt = time.Now().Unix()
	}

	lat, lng := coordinateArgs(restaurant.Coordinates)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO restaurants ("+restaurantColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		restaurant.ID, restaurant.UserID, restaurant.TripID, restaurant.Name, restaurant.Address,
		restaurant.City, restaurant.Country, restaurant.MapsLink, restaurant.CuisineType,
		lat, lng, restaurant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant: %w", err)
	}

	return nil
}

// GetRestaurant retrieves a restaurant by ID.
func (s *SQLiteStore) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	restaurant, err := scanRestaurant(s.db.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", restaurantID))
	if err == sql.ErrNoRows {
		return nil, notFound("restaurant", restaurantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return restaurant, nil
}

// ListRestaurantsByUser retrieves a user's journal, newest entry first.
func (s *SQLiteStore) ListRestaurantsByUser(ctx context.Context, userID string) ([]*models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE user_id = ? ORDER BY created_at DESC, name",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []*models.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate restaurants: %w", err)
	}

	return restaurants, nil
}

// UpdateRestaurant replaces the descriptive fields of a restaurant. The owner
// and creation time never change.
func (s *SQLiteStore) UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	lat, lng := coordinateArgs(restaurant.Coordinates)
	result, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET trip_id = ?, name = ?, address = ?, city = ?, country = ?, maps_link = ?,
		 cuisine_type = ?, latitude = ?, longitude = ?
		 WHERE id = ?`,
		restaurant.TripID, restaurant.Name, restaurant.Address, restaurant.City, restaurant.Country,
		restaurant.MapsLink, restaurant.CuisineType, lat, lng, restaurant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("restaurant", restaurant.ID)
	}

	return nil
}

// DeleteRestaurant removes a restaurant, its visits and their dishes.
func (s *SQLiteStore) DeleteRestaurant(ctx context.Context, restaurantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM visit_dishes WHERE visit_id IN (SELECT id FROM visits WHERE restaurant_id = ?)",
		restaurantID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete visit dishes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM visits WHERE restaurant_id = ?", restaurantID); err != nil {
		return fmt.Errorf("failed to delete restaurant visits: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM restaurants WHERE id = ?", restaurantID)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("restaurant", restaurantID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateVisit persists a visit and its dishes.
func (s *SQLiteStore) CreateVisit(ctx context.Context, visit *models.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.CreatedAt == 0 {
		visit.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO visits ("+visitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		visit.ID, visit.RestaurantID, visit.UserID, visit.Date, visit.Rating, visit.TotalPrice,
		visit.Currency, visit.Notes, visit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	for i, dish := range visit.Dishes {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO visit_dishes (visit_id, position, name, rating) VALUES (?, ?, ?, ?)",
			visit.ID, i, dish.Name, dish.Rating,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dish: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetVisit retrieves a visit with its dishes.
func (s *SQLiteStore) GetVisit(ctx context.Context, visitID string) (*models.Visit, error) {
	visit, err := scanVisit(s.db.QueryRowContext(ctx,
		"SELECT "+visitColumns+" FROM visits WHERE id = ?", visitID))
	if err == sql.ErrNoRows {
		return nil, notFound("visit", visitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	dishes, err := s.visitDishes(ctx, "d.visit_id = ?", visitID)
	if err != nil {
		return nil, err
	}
	visit.Dishes = dishes[visit.ID]
	if visit.Dishes == nil {
		visit.Dishes = []models.Dish{}
	}

	return visit, nil
}

// DeleteVisit removes a visit and its dishes.
func (s *SQLiteStore) DeleteVisit(ctx context.Context, visitID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM visit_dishes WHERE visit_id = ?", visitID); err != nil {
		return fmt.Errorf("failed to delete visit dishes: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM visits WHERE id = ?", visitID)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("visit", visitID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListVisitsByRestaurant retrieves a restaurant's visits, most recent first.
func (s *SQLiteStore) ListVisitsByRestaurant(ctx context.Context, restaurantID string) ([]*models.Visit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+visitColumns+" FROM visits WHERE restaurant_id = ? ORDER BY date DESC, created_at DESC",
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	visits := []*models.Visit{}
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}
	rows.Close()

	// Load every dish of the restaurant in one query
	dishes, err := s.visitDishes(ctx, "v.restaurant_id = ?", restaurantID)
	if err != nil {
		return nil, err
	}
	for _, visit := range visits {
		visit.Dishes = dishes[visit.ID]
		if visit.Dishes == nil {
			visit.Dishes = []models.Dish{}
		}
	}

	return visits, nil
}

// visitDishes loads dishes in position order, keyed by visit ID. where filters
// the join of visit_dishes d with visits v.
func (s *SQLiteStore) visitDishes(ctx context.Context, where string, arg any) (map[string][]models.Dish, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.visit_id, d.name, d.rating
		 FROM visit_dishes d
		 JOIN visits v ON v.id = d.visit_id
		 WHERE `+where+`
		 ORDER BY d.visit_id, d.position`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit dishes: %w", err)
	}
	defer rows.Close()

	dishes := make(map[string][]models.Dish)
	for rows.Next() {
		var visitID string
		var dish models.Dish
		if err := rows.Scan(&visitID, &dish.Name, &dish.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes[visitID] = append(dishes[visitID], dish)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dishes: %w", err)
	}

	return dishes, nil
}
