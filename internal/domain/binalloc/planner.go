// Package binalloc implementa el planificador de asignación de bins (servicio de dominio).
// Primero intenta ubicar todo el paquete en un único bin; si ninguno alcanza,
// reparte de forma voraz en unidades enteras sobre los bins de mayor capacidad.
package binalloc

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// Capacity es la disponibilidad volumétrica de un bin en el momento de planificar.
type Capacity struct {
	BinID     string
	Available decimal.Decimal
}

// Plan es el resultado del planificador: unidades por bin y volumen a descontar por bin.
type Plan struct {
	Allocation map[string]int
	Deltas     map[string]decimal.Decimal
}

// FromBins convierte bins del repositorio en capacidades.
func FromBins(bins []*entity.Bin) []Capacity {
	out := make([]Capacity, 0, len(bins))
	for _, b := range bins {
		out = append(out, Capacity{BinID: b.ID, Available: b.AvailabilityVol})
	}
	return out
}

// Compute calcula la asignación de quantity unidades de volumen unitVolume.
// No modifica bins; si no hay espacio devuelve domain.ErrInsufficientSpace.
func Compute(quantity int, unitVolume decimal.Decimal, bins []Capacity) (*Plan, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	if !unitVolume.IsPositive() {
		return nil, fmt.Errorf("%w: el producto no tiene volumen definido", domain.ErrInvalidInput)
	}

	sorted := make([]Capacity, len(bins))
	copy(sorted, bins)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Available.GreaterThan(sorted[j].Available)
	})

	total := unitVolume.Mul(decimal.NewFromInt(int64(quantity)))
	plan := &Plan{Allocation: map[string]int{}, Deltas: map[string]decimal.Decimal{}}

	for _, b := range sorted {
		if b.Available.GreaterThanOrEqual(total) {
			plan.Allocation[b.BinID] = quantity
			plan.Deltas[b.BinID] = total
			return plan, nil
		}
	}

	remaining := quantity
	for _, b := range sorted {
		if remaining == 0 {
			break
		}
		if !b.Available.IsPositive() {
			continue
		}
		fit, _ := b.Available.QuoRem(unitVolume, 0)
		n := int(fit.IntPart())
		if n > remaining {
			n = remaining
		}
		if n <= 0 {
			continue
		}
		plan.Allocation[b.BinID] = n
		plan.Deltas[b.BinID] = unitVolume.Mul(decimal.NewFromInt(int64(n)))
		remaining -= n
	}

	if remaining > 0 {
		return nil, fmt.Errorf("%w: faltan %d unidades de volumen %s", domain.ErrInsufficientSpace, remaining, unitVolume)
	}
	return plan, nil
}
