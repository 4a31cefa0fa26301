package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type outboxStatus string

const (
	outboxStatusPending outboxStatus = "pending"
	outboxStatusSent    outboxStatus = "sent"
	outboxStatusFailed  outboxStatus = "failed"
)

type outboxRecord struct {
	msg       domain.OutboxMessage
	status    outboxStatus
	attempts  int
	seq       int64
	createdAt time.Time
}

type outboxRepository struct {
	s session
}

func (r *outboxRepository) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	err := r.s.mutate(func(d *dataset) error {
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		d.outbox[msg.ID] = outboxRecord{
			msg:       msg,
			status:    outboxStatusPending,
			seq:       d.nextSeq(),
			createdAt: time.Now().UTC(),
		}
		return nil
	})
	return msg, err
}

func (r *outboxRepository) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var result []domain.OutboxMessage
	err := r.s.view(func(d *dataset) error {
		pending := make([]outboxRecord, 0, len(d.outbox))
		for _, record := range d.outbox {
			if record.status == outboxStatusPending {
				pending = append(pending, record)
			}
		}
		sort.Slice(pending, func(i, j int) bool {
			return pending[i].seq < pending[j].seq
		})
		if len(pending) > limit {
			pending = pending[:limit]
		}
		result = make([]domain.OutboxMessage, 0, len(pending))
		for _, record := range pending {
			result = append(result, record.msg)
		}
		return nil
	})
	return result, err
}

func (r *outboxRepository) Stats(_ context.Context) (domain.OutboxStats, error) {
	var stats domain.OutboxStats
	err := r.s.view(func(d *dataset) error {
		for _, record := range d.outbox {
			if record.status != outboxStatusPending {
				continue
			}
			stats.PendingCount++
			if stats.OldestPendingAt.IsZero() || record.createdAt.Before(stats.OldestPendingAt) {
				stats.OldestPendingAt = record.createdAt
			}
		}
		return nil
	})
	return stats, err
}

func (r *outboxRepository) MarkSent(_ context.Context, id string) error {
	return r.markStatus(id, outboxStatusSent)
}

func (r *outboxRepository) MarkFailed(_ context.Context, id string) error {
	return r.markStatus(id, outboxStatusFailed)
}

func (r *outboxRepository) markStatus(id string, status outboxStatus) error {
	return r.s.mutate(func(d *dataset) error {
		record, ok := d.outbox[id]
		if !ok {
			return domain.ErrOutboxPublish
		}
		record.status = status
		record.attempts++
		d.outbox[id] = record
		return nil
	})
}

var _ domain.OutboxRepository = (*outboxRepository)(nil)
