package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bin es una ubicación de almacenamiento con capacidad volumétrica restante.
// AvailabilityVol solo disminuye por asignación y nunca puede quedar negativo.
type Bin struct {
	ID              string
	Zone            string
	AvailabilityVol decimal.Decimal
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
