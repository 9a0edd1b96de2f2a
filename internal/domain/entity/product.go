package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un SKU almacenable. Volume es el volumen por unidad y
// alimenta el planificador de bins (volumen total = cantidad × Volume).
type Product struct {
	ID        string
	Name      string
	Volume    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
