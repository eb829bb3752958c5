package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeValidate(t *testing.T) {
	seq := int64(3)
	env := EventEnvelope[OrderCreated]{
		EventName:    EventNameOrderCreated,
		EventVersion: eventVersion,
		EventID:      "evt-1",
		Producer:     producerName,
		PartitionKey: "order-5",
		Sequence:     &seq,
		OccurredAt:   time.Now().UTC(),
	}

	assert.NoError(t, env.Validate(EventNameOrderCreated, eventVersion))
	assert.Error(t, env.Validate(EventNameOrderStatusChanged, eventVersion))
	assert.Error(t, env.Validate(EventNameOrderCreated, eventVersion+1))

	env.PartitionKey = ""
	assert.Error(t, env.Validate(EventNameOrderCreated, eventVersion))
}

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.val
	return nil
}

type fakeQuerier struct {
	calls []string
	next  int64
	err   error
}

func (q *fakeQuerier) QueryRowContext(ctx context.Context, query string, args ...any) rowScanner {
	q.calls = append(q.calls, args[0].(string))
	q.next++
	return fakeRow{val: q.next, err: q.err}
}

func TestNextSequence_Increments(t *testing.T) {
	q := &fakeQuerier{}
	repo := &sequenceRepository{db: q}

	first, err := repo.NextSequence(context.Background(), "order-5")
	require.NoError(t, err)
	second, err := repo.NextSequence(context.Background(), "order-5")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, []string{"order-5", "order-5"}, q.calls)
}

func TestNextSequence_EmptyPartitionKey(t *testing.T) {
	q := &fakeQuerier{}
	repo := &sequenceRepository{db: q}

	_, err := repo.NextSequence(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, q.calls)
}

func TestNextSequence_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection reset")}
	repo := &sequenceRepository{db: q}

	_, err := repo.NextSequence(context.Background(), "order-5")
	require.Error(t, err)
	assert.ErrorContains(t, err, "increment sequence")
}
