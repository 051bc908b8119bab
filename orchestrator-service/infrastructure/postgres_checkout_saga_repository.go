package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/orchestrator-service/domain"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
)

// PostgresCheckoutSagaRepository implements CheckoutSagaRepository using
// PostgreSQL. Cart lines, applied reservations and the transition history
// are stored as JSONB documents next to the indexed saga columns.
type PostgresCheckoutSagaRepository struct {
	db *sqlx.DB
}

// NewPostgresCheckoutSagaRepository creates a new PostgresCheckoutSagaRepository
func NewPostgresCheckoutSagaRepository(db *sqlx.DB) *PostgresCheckoutSagaRepository {
	return &PostgresCheckoutSagaRepository{db: db}
}

// postgresCheckoutSaga represents a checkout saga in the database
type postgresCheckoutSaga struct {
	ID        string    `db:"id"`
	ClientID  string    `db:"client_id"`
	Status    string    `db:"status"`
	OrderID   *string   `db:"order_id"`
	Lines     []byte    `db:"lines"`
	Reserved  []byte    `db:"reserved"`
	History   []byte    `db:"history"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save upserts the saga with its full transition history
func (r *PostgresCheckoutSagaRepository) Save(ctx context.Context, s *domain.CheckoutSaga) error {
	query := `
		INSERT INTO checkout_sagas (
			id, client_id, status, order_id, lines, reserved, history,
			created_at, updated_at
		) VALUES (
			:id, :client_id, :status, :order_id, :lines, :reserved, :history,
			:created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			order_id = EXCLUDED.order_id,
			lines = EXCLUDED.lines,
			reserved = EXCLUDED.reserved,
			history = EXCLUDED.history,
			updated_at = EXCLUDED.updated_at`

	record, err := r.toPostgres(s)
	if err != nil {
		return err
	}

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return errors.Wrap(err, "failed to save checkout saga")
	}
	return nil
}

// FindByID finds a saga by ID; returns (nil, nil) when absent
func (r *PostgresCheckoutSagaRepository) FindByID(ctx context.Context, id models.ID) (*domain.CheckoutSaga, error) {
	query := `
		SELECT id, client_id, status, order_id, lines, reserved, history,
		       created_at, updated_at
		FROM checkout_sagas
		WHERE id = $1`

	var record postgresCheckoutSaga
	err := r.db.GetContext(ctx, &record, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find checkout saga")
	}

	return r.toDomain(&record)
}

// FindByClientID finds a client's sagas, newest first
func (r *PostgresCheckoutSagaRepository) FindByClientID(ctx context.Context, clientID models.ID) ([]*domain.CheckoutSaga, error) {
	query := `
		SELECT id, client_id, status, order_id, lines, reserved, history,
		       created_at, updated_at
		FROM checkout_sagas
		WHERE client_id = $1
		ORDER BY created_at DESC`

	var records []postgresCheckoutSaga
	if err := r.db.SelectContext(ctx, &records, query, clientID.String()); err != nil {
		return nil, errors.Wrap(err, "failed to find checkout sagas by client ID")
	}

	sagas := make([]*domain.CheckoutSaga, len(records))
	for i := range records {
		s, err := r.toDomain(&records[i])
		if err != nil {
			return nil, err
		}
		sagas[i] = s
	}
	return sagas, nil
}

func (r *PostgresCheckoutSagaRepository) toPostgres(s *domain.CheckoutSaga) (*postgresCheckoutSaga, error) {
	lines, err := json.Marshal(s.Lines)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal cart lines")
	}
	reserved, err := json.Marshal(s.Reserved)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal reservations")
	}
	history, err := json.Marshal(s.History)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transition history")
	}

	var orderID *string
	if s.OrderID != "" {
		v := s.OrderID.String()
		orderID = &v
	}

	return &postgresCheckoutSaga{
		ID:        s.ID.String(),
		ClientID:  s.ClientID.String(),
		Status:    s.Status.String(),
		OrderID:   orderID,
		Lines:     lines,
		Reserved:  reserved,
		History:   history,
		CreatedAt: s.Timestamps.CreatedAt,
		UpdatedAt: s.Timestamps.UpdatedAt,
	}, nil
}

func (r *PostgresCheckoutSagaRepository) toDomain(record *postgresCheckoutSaga) (*domain.CheckoutSaga, error) {
	id, err := models.NewID(record.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saga ID")
	}
	clientID, err := models.NewID(record.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client ID")
	}

	s := &domain.CheckoutSaga{
		ID:       id,
		ClientID: clientID,
		Status:   saga.Status(record.Status),
		Timestamps: models.Timestamps{
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		},
	}
	if record.OrderID != nil {
		s.OrderID = models.ID(*record.OrderID)
	}

	if err := json.Unmarshal(record.Lines, &s.Lines); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cart lines")
	}
	if err := json.Unmarshal(record.Reserved, &s.Reserved); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal reservations")
	}
	if err := json.Unmarshal(record.History, &s.History); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal transition history")
	}
	return s, nil
}
