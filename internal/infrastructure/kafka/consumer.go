package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// Handler procesa el valor de un mensaje. Un error deja el mensaje sin confirmar
// y se reintenta; nil lo confirma.
type Handler func(ctx context.Context, value []byte) error

// messageReader es la parte de *kafka.Reader que usa el consumidor.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer lee uno o más topics con commit manual tras procesar cada mensaje.
type Consumer struct {
	cfg      config.KafkaConfig
	readers  map[string]messageReader
	handlers map[string]Handler
	log      *logger.Logger
	// retryMax acota la espera entre reintentos de un mismo mensaje y entre
	// lecturas fallidas del broker.
	retryMax time.Duration
	wait     func(ctx context.Context, d time.Duration) bool
}

// NewConsumer crea el consumidor para el grupo configurado.
func NewConsumer(cfg config.KafkaConfig, log *logger.Logger) *Consumer {
	return &Consumer{
		cfg:      cfg,
		readers:  map[string]messageReader{},
		handlers: map[string]Handler{},
		log:      log.Component("kafka-consumer"),
		retryMax: 5 * time.Second,
		wait:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) newBackOff() *backoff.ExponentialBackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	eb.MaxInterval = c.retryMax
	eb.MaxElapsedTime = 0
	return eb
}

// Subscribe registra el handler de un topic.
func (c *Consumer) Subscribe(topic string, h Handler) {
	c.handlers[topic] = h
	if _, ok := c.readers[topic]; !ok {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			GroupID:  c.cfg.GroupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  500 * time.Millisecond,
		})
	}
}

// Run consume todos los topics suscritos hasta que ctx se cancele.
func (c *Consumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for topic, h := range c.handlers {
		wg.Add(1)
		go func(topic string, r messageReader, h Handler) {
			defer wg.Done()
			c.consume(ctx, topic, r, h)
		}(topic, c.readers[topic], h)
	}
	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) consume(ctx context.Context, topic string, r messageReader, h Handler) {
	c.log.Info().Str("topic", topic).Str("group", c.cfg.GroupID).Msg("consumidor iniciado")
	fetchBackOff := c.newBackOff()
	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info().Str("topic", topic).Msg("consumidor detenido")
				return
			}
			d := fetchBackOff.NextBackOff()
			c.log.Error().Err(err).Str("topic", topic).Dur("retry_in", d).Msg("error leyendo mensaje")
			if !c.wait(ctx, d) {
				c.log.Info().Str("topic", topic).Msg("consumidor detenido")
				return
			}
			continue
		}
		fetchBackOff.Reset()
		if !c.handle(ctx, topic, msg, h) {
			return
		}
		if err := r.CommitMessages(ctx, msg); err != nil {
			c.log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("error confirmando mensaje")
		}
	}
}

// handle reintenta el mismo mensaje con espera exponencial hasta que el handler
// lo acepte. Devuelve false si ctx se canceló antes.
func (c *Consumer) handle(ctx context.Context, topic string, msg kafka.Message, h Handler) bool {
	eb := c.newBackOff()
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := h(ctx, msg.Value)
		if err != nil {
			c.log.Warn().Err(err).
				Str("topic", topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Int("attempt", attempt).
				Msg("mensaje no procesado, se reintenta")
		}
		return err
	}, backoff.WithContext(eb, ctx))
	return err == nil
}

// Close cierra los readers.
func (c *Consumer) Close() error {
	var first error
	for topic, r := range c.readers {
		if err := r.Close(); err != nil && first == nil {
			first = err
			c.log.Error().Err(err).Str("topic", topic).Msg("error cerrando reader")
		}
	}
	return first
}
