package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// ── Producer ────────────────────────────────────────────────────────────────

func TestScanProducer_ClavePorPaquete(t *testing.T) {
	tq, bin := &fakeWriter{}, &fakeWriter{}
	p := newScanProducer(tq, bin, 3, time.Minute, logger.Nop())

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.PublishTQScans(context.Background(), []dto.TQScanEvent{{RFIDID: "T1", PackageID: "P-1", TQDate: dto.NewScanTime(at)}}))
	require.NoError(t, p.PublishBinScans(context.Background(), []dto.BinScanEvent{{RFIDID: "T1", PackageID: "P-1", BinID: "A", BinnedDate: dto.NewScanTime(at)}}))

	require.Len(t, tq.msgs, 1)
	assert.Equal(t, "P-1", string(tq.msgs[0].Key))
	var ev dto.TQScanEvent
	require.NoError(t, json.Unmarshal(tq.msgs[0].Value, &ev))
	assert.Equal(t, "T1", ev.RFIDID)
	assert.True(t, at.Equal(ev.TQDate.Time))

	require.Len(t, bin.msgs, 1)
}

func TestScanProducer_CircuitoSeAbre(t *testing.T) {
	tq := &fakeWriter{err: errors.New("broker caído")}
	p := newScanProducer(tq, &fakeWriter{}, 2, time.Minute, logger.Nop())
	scans := []dto.TQScanEvent{{RFIDID: "T1", PackageID: "P-1"}}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := p.PublishTQScans(ctx, scans)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPublisherUnavailable)
	}
	err := p.PublishTQScans(ctx, scans)
	assert.ErrorIs(t, err, ErrPublisherUnavailable)
}

// ── Consumer ────────────────────────────────────────────────────────────────

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
	// fetchErrs hace fallar las primeras lecturas.
	fetchErrs int
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.fetchErrs > 0 {
		r.fetchErrs--
		r.mu.Unlock()
		return kafka.Message{}, errors.New("broker no disponible")
	}
	if len(r.pending) > 0 {
		m := r.pending[0]
		r.pending = r.pending[1:]
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

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumer_ReintentaAntesDeConfirmar(t *testing.T) {
	r := &fakeReader{pending: []kafka.Message{{Offset: 1, Value: []byte("a")}, {Offset: 2, Value: []byte("b")}}}
	c := NewConsumer(config.KafkaConfig{GroupID: "test"}, logger.Nop())
	c.retryMax = 5 * time.Millisecond

	var (
		mu    sync.Mutex
		calls []string
	)
	failures := 2
	c.readers["rfid.tq-scans"] = r
	c.handlers["rfid.tq-scans"] = func(_ context.Context, v []byte) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, string(v))
		if string(v) == "a" && failures > 0 {
			failures--
			return errors.New("store no disponible")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, []int64{1, 2}, r.commits())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "a", "a", "b"}, calls)
}

func TestConsumer_EsperaTrasErrorDeLectura(t *testing.T) {
	r := &fakeReader{fetchErrs: 3, pending: []kafka.Message{{Offset: 7, Value: []byte("a")}}}
	c := NewConsumer(config.KafkaConfig{GroupID: "test"}, logger.Nop())

	var (
		mu    sync.Mutex
		waits []time.Duration
	)
	c.wait = func(ctx context.Context, d time.Duration) bool {
		mu.Lock()
		waits = append(waits, d)
		mu.Unlock()
		return ctx.Err() == nil
	}
	c.readers["rfid.bin-scans"] = r
	c.handlers["rfid.bin-scans"] = func(context.Context, []byte) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(r.commits()) == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, waits, 3, "una espera por cada lectura fallida")
	for _, d := range waits {
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, c.retryMax)
	}
}

func TestConsumer_CancelarDuranteEsperaDetiene(t *testing.T) {
	r := &fakeReader{fetchErrs: 1000}
	c := NewConsumer(config.KafkaConfig{GroupID: "test"}, logger.Nop())
	c.readers["rfid.tq-scans"] = r
	c.handlers["rfid.tq-scans"] = func(context.Context, []byte) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("el consumidor no se detuvo")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Greater(t, r.fetchErrs, 990, "sin espera el bucle consumiría los errores de golpe")
}
