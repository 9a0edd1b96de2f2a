package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Store.ConflictRetries)
	assert.Equal(t, "rfid.tq-scans", cfg.Kafka.TQTopic)
	assert.Equal(t, "rfid.bin-scans", cfg.Kafka.BinTopic)
	assert.Equal(t, 10*time.Second, cfg.Allocation.LockTTL)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, 5, cfg.DB.ConnectAttempts)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STORE_CONFLICT_RETRIES", "8")
	t.Setenv("REDIS_DEDUPE_TTL", "90s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Store.ConflictRetries)
	assert.Equal(t, 90*time.Second, cfg.Redis.DedupeTTL)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_RechazaReintentosInvalidos(t *testing.T) {
	t.Setenv("STORE_CONFLICT_RETRIES", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_EscapaContrasena(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "wms", Password: "p@ss:w", DBName: "wms", SSLMode: "disable"}
	assert.Equal(t, "postgres://wms:p%40ss%3Aw@db:5432/wms?sslmode=disable", c.DSN())
}

func TestLoad_PoolDesdeEntorno(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MIN_CONNS", "4")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "2m")
	t.Setenv("DB_CONNECT_ATTEMPTS", "10")
	t.Setenv("DB_CONNECT_TIMEOUT", "750ms")
	t.Setenv("DB_FORCE_IPV4", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 4, cfg.DB.MinConns)
	assert.Equal(t, 2*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 10, cfg.DB.ConnectAttempts)
	assert.Equal(t, 750*time.Millisecond, cfg.DB.ConnectTimeout)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestLoad_RechazaPoolInvalido(t *testing.T) {
	t.Run("min mayor que max", func(t *testing.T) {
		t.Setenv("DB_MAX_CONNS", "2")
		t.Setenv("DB_MIN_CONNS", "5")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("sin intentos de conexión", func(t *testing.T) {
		t.Setenv("DB_CONNECT_ATTEMPTS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
