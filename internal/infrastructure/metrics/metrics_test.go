package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/metrics"
)

func TestScanProcessed(t *testing.T) {
	m := metrics.New("test")
	m.ScanProcessed("rfid.tq-scans", "applied")
	m.ScanProcessed("rfid.tq-scans", "applied")
	m.ScanProcessed("rfid.bin-scans", "rejected")

	n, err := testutil.GatherAndCount(m.Registry(), "wms_rfid_scans_processed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMiddleware_UsaRutaDeclarada(t *testing.T) {
	m := metrics.New("test")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/packages/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, id := range []string{"P-1", "P-2"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/packages/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	n, err := testutil.GatherAndCount(m.Registry(), "wms_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "una sola serie para la ruta /api/packages/:id")
}
