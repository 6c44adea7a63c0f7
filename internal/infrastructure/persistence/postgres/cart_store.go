package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/sawa-shop/storefront-service/internal/domain/cart"
)

// CartStore keeps one row per user with the serialized cart payload.
// The payload format is shared with the other store adapters.
type CartStore struct {
	db *sql.DB
}

func NewCartStore(conn *Connection) *CartStore {
	return &CartStore{
		db: conn.GetDB(),
	}
}

func (s *CartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	query := `
		SELECT payload
		FROM carts
		WHERE user_id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return cart.New(), nil
		}
		return nil, err
	}

	return cart.Decode(payload), nil
}

func (s *CartStore) Save(ctx context.Context, userID string, c *cart.Cart) error {
	query := `
		INSERT INTO carts (user_id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, userID, cart.Encode(c), time.Now().UTC())
	return err
}

// DeleteStale removes carts untouched for longer than maxAge. Called by
// the sweeper; abandoned carts otherwise accumulate forever.
func (s *CartStore) DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		DELETE FROM carts
		WHERE updated_at < $1
	`

	cutoff := time.Now().UTC().Add(-maxAge)
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
