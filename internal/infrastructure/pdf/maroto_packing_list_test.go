package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/pdf"
)

func TestRenderPackingList(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	slip := &entity.PickSlip{ID: "PS-1", PackingZone: "Z1", Status: entity.PickSlipReadyForDispatch, PackerID: "emp-pack", ReadyForPackingDate: &now}
	orders := []*entity.PickOrder{
		{ID: "PO-1", ProductID: "SKU-1", BinID: "A", Quantity: 2, PickerID: "p1", Status: entity.PickOrderClosed},
		{ID: "PO-2", ProductID: "SKU-2", BinID: "B", Quantity: 1, PickerID: "p2", Status: entity.PickOrderClosed},
	}

	b, err := pdf.NewPackingListGenerator("Bodega Central").RenderPackingList(context.Background(), slip, orders)
	require.NoError(t, err)
	require.Greater(t, len(b), 4)
	assert.Equal(t, "%PDF", string(b[:4]))
}
