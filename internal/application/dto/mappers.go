package dto

import "github.com/jhoicas/wms-rfid-api/internal/domain/entity"

// NewStoringOrderResponse mapea la entidad a su representación HTTP.
func NewStoringOrderResponse(o *entity.StoringOrder) *StoringOrderResponse {
	if o == nil {
		return nil
	}
	return &StoringOrderResponse{
		ID:                o.ID,
		ReceiverID:        o.ReceiverID,
		InvoiceNumber:     o.InvoiceNumber,
		BillOfEntryID:     o.BillOfEntryID,
		AirwayBillNumber:  o.AirwayBillNumber,
		PackageQuantity:   o.PackageQuantity,
		Status:            o.Status,
		DiscrepancyDetail: o.DiscrepancyDetail,
		PackageIDs:        o.PackageIDs,
		ReceivedDate:      o.ReceivedDate,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// NewPackageResponse mapea un paquete.
func NewPackageResponse(p *entity.Package) *PackageResponse {
	if p == nil {
		return nil
	}
	return &PackageResponse{
		ID:                        p.ID,
		StoringOrderID:            p.StoringOrderID,
		ProductID:                 p.ProductID,
		Quantity:                  p.Quantity,
		RFIDIDs:                   p.RFIDIDs,
		Status:                    p.Status,
		TQScannedQuantity:         p.TQScannedQuantity,
		BinAllocation:             p.BinAllocation,
		BinCurrent:                p.BinCurrent,
		BinnerID:                  p.BinnerID,
		TQStaffID:                 p.TQStaffID,
		TQFailDescription:         p.TQFailDescription,
		TQStartDate:               p.TQStartDate,
		TQDate:                    p.TQDate,
		ReadyForBinAllocationDate: p.ReadyForBinAllocationDate,
		BinAllocationDate:         p.BinAllocationDate,
		BinnedDate:                p.BinnedDate,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}

// NewPickOrderResponse mapea una orden de picking.
func NewPickOrderResponse(o *entity.PickOrder) *PickOrderResponse {
	if o == nil {
		return nil
	}
	return &PickOrderResponse{
		ID:         o.ID,
		PickSlipID: o.PickSlipID,
		PickerID:   o.PickerID,
		ProductID:  o.ProductID,
		BinID:      o.BinID,
		Quantity:   o.Quantity,
		Status:     o.Status,
		PickedDate: o.PickedDate,
		CreatedAt:  o.CreatedAt,
	}
}

// NewPickSlipResponse mapea un pick slip.
func NewPickSlipResponse(s *entity.PickSlip) *PickSlipResponse {
	if s == nil {
		return nil
	}
	return &PickSlipResponse{
		ID:                  s.ID,
		PackingZone:         s.PackingZone,
		Status:              s.Status,
		PackerID:            s.PackerID,
		DispatcherID:        s.DispatcherID,
		ReadyForPackingDate: s.ReadyForPackingDate,
		PackingStartDate:    s.PackingStartDate,
		PackedDate:          s.PackedDate,
		DispatchedDate:      s.DispatchedDate,
		CreatedAt:           s.CreatedAt,
	}
}

// NewItemResponse mapea la proyección de una etiqueta.
func NewItemResponse(it *entity.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		RFIDID:     it.RFIDID,
		PackageID:  it.PackageID,
		Status:     it.Status,
		BinID:      it.BinID,
		TQDate:     it.TQDate,
		BinnedDate: it.BinnedDate,
		UpdatedAt:  it.UpdatedAt,
	}
}
