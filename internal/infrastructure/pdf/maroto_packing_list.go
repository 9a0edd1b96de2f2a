// Package pdf genera el packing list imprimible de un pick slip.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Pick slip + zona     │  Estado + fechas             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PERSONAL: packer / dispatcher                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Orden | Producto | Bin | Cant. | Picker | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL UNIDADES                                              │
//	│  FOOTER: QR con el id del slip                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PackingListGenerator implementa ports.PackingListRenderer usando Maroto v2.
type PackingListGenerator struct {
	warehouse string
}

var _ ports.PackingListRenderer = (*PackingListGenerator)(nil)

// NewPackingListGenerator construye el generador; warehouse aparece en la cabecera.
func NewPackingListGenerator(warehouse string) *PackingListGenerator {
	return &PackingListGenerator{warehouse: warehouse}
}

// RenderPackingList genera el PDF y devuelve sus bytes.
func (g *PackingListGenerator) RenderPackingList(_ context.Context, slip *entity.PickSlip, orders []*entity.PickOrder) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Packing list "+slip.ID, true).
		WithAuthor(nonEmpty(g.warehouse, "WMS"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.warehouse, slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(staffRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(orders)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(orders))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar packing list: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(warehouse string, slip *entity.PickSlip) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(warehouse, "WMS"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Zona de empaque: "+nonEmpty(slip.PackingZone, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PACKING LIST", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(slip.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Estado: "+slip.Status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func staffRow(slip *entity.PickSlip) core.Row {
	return row.New(12).Add(
		col.New(6).Add(
			text.New("EMPAQUE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Packer: %s   |   Inicio: %s   |   Fin: %s",
				nonEmpty(slip.PackerID, "—"),
				formatDate(slip.PackingStartDate),
				formatDate(slip.PackedDate),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("DESPACHO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Dispatcher: %s   |   Fecha: %s",
				nonEmpty(slip.DispatcherID, "—"),
				formatDate(slip.DispatchedDate),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Orden", 3, align.Left),
		h("Producto", 3, align.Left),
		h("Bin", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Picker", 2, align.Left),
		h("Estado", 1, align.Center),
	)
}

// tableRows: una fila por orden de picking.
func tableRows(orders []*entity.PickOrder) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(orders))
	for _, o := range orders {
		out = append(out, row.New(7).Add(
			cell(o.ID, 3, align.Left),
			cell(o.ProductID, 3, align.Left),
			cell(o.BinID, 2, align.Left),
			cell(strconv.Itoa(o.Quantity), 1, align.Center),
			cell(o.PickerID, 2, align.Left),
			cell(checkmark(o.Status), 1, align.Center),
		))
	}
	return out
}

func totalRow(orders []*entity.PickOrder) core.Row {
	total := 0
	for _, o := range orders {
		total += o.Quantity
	}
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL UNIDADES:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(2).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 2,
		})),
	)
}

func footerRow(slip *entity.PickSlip) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(slip.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código para confirmar el despacho del pick slip.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Listo para empaque: "+formatDate(slip.ReadyForPackingDate), props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006 15:04")
}

func checkmark(status string) string {
	if status == entity.PickOrderClosed {
		return "OK"
	}
	return "-"
}
