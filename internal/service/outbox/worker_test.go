package outbox

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// fakePublisher считает публикации и может падать заданное число раз.
type fakePublisher struct {
	published []domain.OutboxMessage
	failures  int
	calls     int
}

func (p *fakePublisher) Publish(msg domain.OutboxMessage) error {
	p.calls++
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, msg)
	return nil
}

func testLogger() *log.Entry {
	base := log.New()
	base.SetLevel(log.WarnLevel)
	return base.WithField("component", "outbox-test")
}

func enqueue(t *testing.T, repo domain.OutboxRepository, eventType string) domain.OutboxMessage {
	t.Helper()
	msg, err := repo.Enqueue(context.Background(), domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     eventType,
		Payload:       []byte(`{"order_id":"order-1"}`),
	})
	require.NoError(t, err)
	return msg
}

func TestProcessOncePublishesPending(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Outbox()
	publisher := &fakePublisher{}

	enqueue(t, repo, "order.created")
	enqueue(t, repo, "order.updated")

	worker := NewWorker(repo, publisher, WithLogger(testLogger()))
	worker.ProcessOnce(ctx)

	require.Len(t, publisher.published, 2)
	require.Equal(t, "order.created", publisher.published[0].EventType)

	// Повторный цикл не публикует уже отправленное.
	worker.ProcessOnce(ctx)
	require.Len(t, publisher.published, 2)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
}

func TestProcessOnceRetriesTransientFailure(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Outbox()
	publisher := &fakePublisher{failures: 2}

	enqueue(t, repo, "order.created")

	worker := NewWorker(repo, publisher,
		WithLogger(testLogger()),
		WithMaxAttempts(3),
		WithRetryBaseDelay(0),
	)
	worker.ProcessOnce(ctx)

	// Две неудачные попытки, третья успешна.
	require.Equal(t, 3, publisher.calls)
	require.Len(t, publisher.published, 1)
}

func TestProcessOnceMarksFailedAndSendsToDLQ(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Outbox()
	publisher := &fakePublisher{failures: 100}
	dlq := &fakePublisher{}

	msg := enqueue(t, repo, "order.created")

	worker := NewWorker(repo, publisher,
		WithLogger(testLogger()),
		WithMaxAttempts(2),
		WithRetryBaseDelay(0),
		WithDLQPublisher(dlq),
	)
	worker.ProcessOnce(ctx)

	require.Empty(t, publisher.published)
	require.Len(t, dlq.published, 1)
	require.Equal(t, msg.ID, dlq.published[0].ID)

	// Сообщение помечено failed и больше не забирается.
	pending, err := repo.PullPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestWorkerDefaults(t *testing.T) {
	worker := NewWorker(nil, nil,
		WithBatchSize(-1),
		WithMaxAttempts(0),
		WithPollInterval(-1),
		WithRetryBaseDelay(-1),
	)
	require.Equal(t, defaultBatchSize, worker.batchSize)
	require.Equal(t, defaultMaxAttempts, worker.maxAttempts)
	require.Equal(t, defaultPollInterval, worker.pollInterval)
	require.Zero(t, worker.retryBaseDelay)

	// Без repo/publisher воркер отключается и не паникует.
	worker.Run(context.Background())
}
