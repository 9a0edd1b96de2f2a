// Package kafka implementa el transporte de lecturas RFID sobre segmentio/kafka-go:
// un publicador protegido por circuit breaker y un consumidor con commit manual.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// ErrPublisherUnavailable indica que el circuito hacia Kafka está abierto.
var ErrPublisherUnavailable = ports.ErrPublisherUnavailable

// messageWriter es la parte de *kafka.Writer que usa el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ScanProducer implementa ports.ScanPublisher.
type ScanProducer struct {
	tq      messageWriter
	bin     messageWriter
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

var _ ports.ScanPublisher = (*ScanProducer)(nil)

// NewScanProducer crea un writer síncrono por topic.
func NewScanProducer(cfg config.KafkaConfig, log *logger.Logger) *ScanProducer {
	w := func(topic string) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		}
	}
	return newScanProducer(w(cfg.TQTopic), w(cfg.BinTopic), cfg.BreakerFailures, cfg.BreakerTimeout, log)
}

func newScanProducer(tq, bin messageWriter, failures int, timeout time.Duration, log *logger.Logger) *ScanProducer {
	if failures < 1 {
		failures = 5
	}
	log = log.Component("kafka-producer")
	settings := gobreaker.Settings{
		Name:        "rfid-scan-producer",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cambio de estado del circuit breaker")
		},
	}
	return &ScanProducer{tq: tq, bin: bin, breaker: gobreaker.NewCircuitBreaker(settings), log: log}
}

// PublishTQScans publica las lecturas con clave package_id para conservar el orden por paquete.
func (p *ScanProducer) PublishTQScans(ctx context.Context, scans []dto.TQScanEvent) error {
	msgs := make([]kafka.Message, 0, len(scans))
	for _, s := range scans {
		m, err := message(s.PackageID, s, s.TQDate.Time)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}
	return p.write(ctx, p.tq, msgs)
}

// PublishBinScans publica las lecturas de binning.
func (p *ScanProducer) PublishBinScans(ctx context.Context, scans []dto.BinScanEvent) error {
	msgs := make([]kafka.Message, 0, len(scans))
	for _, s := range scans {
		m, err := message(s.PackageID, s, s.BinnedDate.Time)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}
	return p.write(ctx, p.bin, msgs)
}

func (p *ScanProducer) write(ctx context.Context, w messageWriter, msgs []kafka.Message) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, w.WriteMessages(ctx, msgs...)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrPublisherUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("publicar %d lecturas: %w", len(msgs), err)
	}
	return nil
}

// Close cierra los writers.
func (p *ScanProducer) Close() error {
	return errors.Join(p.tq.Close(), p.bin.Close())
}

func message(key string, v any, at time.Time) (kafka.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("serializar lectura: %w", err)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: at,
	}, nil
}
