package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.msgs))
	for _, m := range w.msgs {
		out = append(out, string(m.Key))
	}
	return out
}

func TestProducerFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 16, zerolog.Nop())
	p.Start(context.Background())

	p.Publish([]byte("a"), []byte("1"), EventHeaders("ProductCreated", 1)...)
	p.Publish([]byte("b"), []byte("2"))
	p.Close()
	p.Close()
	p.WaitClosed()

	assert.Equal(t, []string{"a", "b"}, w.keys())
	assert.True(t, w.closed)

	// after close publishing is a logged no-op
	p.Publish([]byte("c"), []byte("3"))
	assert.Len(t, w.keys(), 2)
}

func TestProducerStopsOnContextCancel(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Publish([]byte("a"), []byte("1"))
	cancel()
	p.WaitClosed()
	assert.True(t, w.closed)
}

func TestProducerDropsWhenFull(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 1, zerolog.Nop())

	// not started: inbox holds one message, the rest are dropped without blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			p.Publish([]byte("k"), []byte("v"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
	assert.Len(t, p.inbox, 1)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestConsumerCommitsOnlyHandledMessages(t *testing.T) {
	r := &fakeReader{}
	for i := int64(0); i < 6; i++ {
		r.queue = append(r.queue, kafka.Message{Offset: i})
	}
	c := newConsumer(r, 3, zerolog.Nop())
	c.backoff = time.Millisecond

	var mu sync.Mutex
	seen := map[int64]bool{}
	h := func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		seen[m.Offset] = true
		mu.Unlock()
		if m.Offset%2 == 1 {
			return errors.New("boom")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx, h) }()

	require.Eventually(t, func() bool { return r.committedCount() == 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)

	assert.ElementsMatch(t, []int64{0, 2, 4}, r.committed)
	assert.Len(t, seen, 6)
	assert.True(t, r.closed)
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}
	got, err := UnwrapPayload[payload](json.RawMessage(`{"id":"p-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)

	_, err = UnwrapPayload[payload](json.RawMessage(`[`))
	assert.Error(t, err)
}

func TestHeaderValue(t *testing.T) {
	m := kafka.Message{Headers: EventHeaders("ProductDeleted", 1)}
	assert.Equal(t, "ProductDeleted", HeaderValue(m, HeaderEventType))
	assert.Equal(t, "1", HeaderValue(m, HeaderEventVersion))
	assert.Empty(t, HeaderValue(m, "missing"))
}
