package lifecycle

import (
	"fmt"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// ClosePickOrder cierra una orden de picking. Solo el picker asignado puede cerrarla.
// Cerrar de nuevo una orden ya cerrada devuelve la orden con ErrNoChange para
// que el llamador vuelva a evaluar la cascada del slip.
func ClosePickOrder(order *entity.PickOrder, pickerID string, now time.Time) (*entity.PickOrder, error) {
	if order.PickerID != pickerID {
		return nil, fmt.Errorf("%w: la orden %s no está asignada a este picker", domain.ErrForbidden, order.ID)
	}
	if order.Status == entity.PickOrderClosed {
		return order, ErrNoChange
	}
	if order.Status != entity.PickOrderReadyForPicking {
		return nil, statusError("la orden de picking", order.Status, entity.PickOrderReadyForPicking)
	}
	next := *order
	next.Status = entity.PickOrderClosed
	next.PickedDate = &now
	next.UpdatedAt = now
	return &next, nil
}

// AllClosed indica si todas las órdenes del slip están en CLOSE. Un slip sin órdenes no cuenta.
func AllClosed(orders []*entity.PickOrder) bool {
	if len(orders) == 0 {
		return false
	}
	for _, o := range orders {
		if o.Status != entity.PickOrderClosed {
			return false
		}
	}
	return true
}

// ReadyForPacking aplica PICKING -> READY-FOR-PACKING. Si el slip ya avanzó
// devuelve ErrNoChange, de modo que la cascada ocurre una sola vez.
func ReadyForPacking(slip *entity.PickSlip, now time.Time) (*entity.PickSlip, error) {
	if slip.Status != entity.PickSlipPicking {
		return nil, ErrNoChange
	}
	next := *slip
	next.Status = entity.PickSlipReadyForPacking
	next.ReadyForPackingDate = &now
	next.UpdatedAt = now
	return &next, nil
}

// StartPacking asigna el slip al packer.
func StartPacking(slip *entity.PickSlip, packerID string, now time.Time) (*entity.PickSlip, error) {
	if slip.Status != entity.PickSlipReadyForPacking {
		return nil, statusError("el pick slip", slip.Status, entity.PickSlipReadyForPacking)
	}
	next := *slip
	next.Status = entity.PickSlipPackingInProgress
	next.PackerID = packerID
	next.PackingStartDate = &now
	next.UpdatedAt = now
	return &next, nil
}

// ClosePacking deja el slip listo para despacho.
func ClosePacking(slip *entity.PickSlip, packerID string, now time.Time) (*entity.PickSlip, error) {
	if slip.Status != entity.PickSlipPackingInProgress {
		return nil, statusError("el pick slip", slip.Status, entity.PickSlipPackingInProgress)
	}
	next := *slip
	next.Status = entity.PickSlipReadyForDispatch
	if next.PackerID == "" {
		next.PackerID = packerID
	}
	next.PackedDate = &now
	next.UpdatedAt = now
	return &next, nil
}

// Dispatch marca el slip como despachado.
func Dispatch(slip *entity.PickSlip, dispatcherID string, now time.Time) (*entity.PickSlip, error) {
	if slip.Status != entity.PickSlipReadyForDispatch {
		return nil, statusError("el pick slip", slip.Status, entity.PickSlipReadyForDispatch)
	}
	next := *slip
	next.Status = entity.PickSlipDispatched
	next.DispatcherID = dispatcherID
	next.DispatchedDate = &now
	next.UpdatedAt = now
	return &next, nil
}
