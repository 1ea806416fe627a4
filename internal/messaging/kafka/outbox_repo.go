package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

const (
	// Batas retry sebelum event berhenti diambil ulang oleh relay.
	MaxOutboxRetries = 10
	// Backoff linear per percobaan, dibatasi MaxOutboxRetries kali.
	RetryBackoff = 15 * time.Second
	// Panjang maksimum error_message yang disimpan.
	maxFailureReason = 500
)

var ErrOutboxEventNotFound = errors.New("outbox event not found")

// OutboxEvent adalah satu baris outbox_events. Untuk directory,
// AggregateID adalah id employee yang berubah.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) conn() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Create harus dipanggil di dalam transaksi yang sama dengan perubahan datanya.
func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	_, err := r.conn().ExecContext(ctx, `
INSERT INTO outbox_events (
	id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending mengambil event yang siap dikirim, urut created_at.
// Event ditahan selama event lebih lama untuk aggregate yang sama masih
// menunggu backoff, supaya consumer tidak menerima update setelah delete.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.conn().QueryContext(ctx, `
SELECT
	o.id::text,
	COALESCE(o.request_id, ''),
	o.aggregate_type,
	o.aggregate_id::text,
	o.event_type,
	o.topic,
	o.payload,
	o.status,
	o.retry_count,
	COALESCE(o.next_retry_at, o.created_at)
FROM outbox_events o
WHERE o.status IN ($1, $2)
	AND o.retry_count < $3
	AND (o.next_retry_at IS NULL OR o.next_retry_at <= NOW())
	AND NOT EXISTS (
		SELECT 1 FROM outbox_events prev
		WHERE prev.aggregate_type = o.aggregate_type
			AND prev.aggregate_id = o.aggregate_id
			AND prev.status IN ($1, $2)
			AND prev.retry_count < $3
			AND prev.created_at < o.created_at
			AND prev.next_retry_at > NOW()
	)
ORDER BY o.created_at ASC
LIMIT $4
`, OutboxStatusPending, OutboxStatusFailed, MaxOutboxRetries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID, &e.EventType,
			&e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	res, err := r.conn().ExecContext(ctx, `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1
`, id, OutboxStatusSent)
	return affectedOne(res, err)
}

// MarkFailed menaikkan retry_count dan menjadwalkan percobaan berikutnya
// (retry_count+1) * RetryBackoff dari sekarang.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if len(reason) > maxFailureReason {
		reason = reason[:maxFailureReason]
	}
	res, err := r.conn().ExecContext(ctx, `
UPDATE outbox_events
SET
	status = $2,
	retry_count = retry_count + 1,
	error_message = $3,
	next_retry_at = NOW() + (LEAST(retry_count + 1, $4) * $5 * INTERVAL '1 second'),
	updated_at = NOW()
WHERE id = $1
`, id, OutboxStatusFailed, reason, MaxOutboxRetries, int(RetryBackoff/time.Second))
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutboxEventNotFound
	}
	return nil
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
