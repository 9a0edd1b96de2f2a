package ports

import (
	"context"
	"errors"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
)

// ErrPublisherUnavailable indica que la cola no acepta publicaciones (circuito abierto).
var ErrPublisherUnavailable = errors.New("publicador de lecturas no disponible")

// ScanPublisher define el puerto de salida hacia la cola de lecturas RFID.
// La entrega es al menos una vez; el consumidor tolera duplicados.
type ScanPublisher interface {
	PublishTQScans(ctx context.Context, scans []dto.TQScanEvent) error
	PublishBinScans(ctx context.Context, scans []dto.BinScanEvent) error
}

// Deduper filtra entregas repetidas recientes antes de tocar el store.
// La clave se marca solo cuando la lectura ya quedó aplicada, así una caída
// entre la consulta y la escritura no descarta la reentrega.
type Deduper interface {
	// Seen indica si key se marcó dentro de la ventana configurada.
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// ScanMetrics registra el resultado del procesamiento de cada lectura.
type ScanMetrics interface {
	ScanProcessed(topic, outcome string)
}

// NopScanMetrics descarta las métricas.
type NopScanMetrics struct{}

func (NopScanMetrics) ScanProcessed(string, string) {}
