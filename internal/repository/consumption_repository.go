package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ConsumptionRepository provides data access for the coupon consumption ledger using pgx.
type ConsumptionRepository struct {
	pool PoolInterface
}

// NewConsumptionRepository creates a new ConsumptionRepository with the given pool.
func NewConsumptionRepository(pool *pgxpool.Pool) *ConsumptionRepository {
	return &ConsumptionRepository{pool: pool}
}

// NewConsumptionRepositoryWithPool creates a new ConsumptionRepository with a custom pool interface.
// This is primarily used for testing.
func NewConsumptionRepositoryWithPool(pool PoolInterface) *ConsumptionRepository {
	return &ConsumptionRepository{pool: pool}
}

// Insert records a coupon use and fills in the timestamps set by the database.
// Returns service.ErrCouponAlreadyConsumed if the coupon was already spent on this reservation,
// or if a wallet coupon was already spent by this customer.
func (r *ConsumptionRepository) Insert(ctx context.Context, c *model.Consumption) error {
	query := `INSERT INTO coupon_consumptions
		(id, coupon_id, customer_id, hotel_id, reservation_id, source, status, last_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.CouponID, c.CustomerID, c.HotelID, c.ReservationID,
		string(c.Source), string(c.Status), c.LastError,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponAlreadyConsumed
		}
		return fmt.Errorf("insert consumption: %w", err)
	}
	return nil
}

// UpdateStatus records the outcome of the backend use request.
func (r *ConsumptionRepository) UpdateStatus(ctx context.Context, id string, status model.ConsumptionStatus, lastError string) error {
	query := `UPDATE coupon_consumptions SET status = $2, last_error = $3, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(status), lastError)
	if err != nil {
		return fmt.Errorf("update consumption %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update consumption %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// ListByReservation returns the coupon uses recorded for a reservation, oldest first.
// On success, returns an empty slice (not nil) when nothing was recorded.
func (r *ConsumptionRepository) ListByReservation(ctx context.Context, reservationID string) ([]model.Consumption, error) {
	query := `SELECT id, coupon_id, customer_id, hotel_id, reservation_id, source, status, last_error, created_at, updated_at
		FROM coupon_consumptions WHERE reservation_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("get consumptions for reservation %s: %w", reservationID, err)
	}
	defer rows.Close()

	consumptions := []model.Consumption{}
	for rows.Next() {
		var (
			c              model.Consumption
			source, status string
		)
		if err := rows.Scan(
			&c.ID,
			&c.CouponID,
			&c.CustomerID,
			&c.HotelID,
			&c.ReservationID,
			&source,
			&status,
			&c.LastError,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		c.Source = model.CouponSource(source)
		c.Status = model.ConsumptionStatus(status)
		consumptions = append(consumptions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consumption rows: %w", err)
	}
	return consumptions, nil
}
