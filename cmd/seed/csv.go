package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// charsetReader decodifica la entrada a UTF-8. Las exportaciones de hojas de
// cálculo suelen venir en ISO-8859-1 o Windows-1252; en UTF-8 se descarta el BOM.
func charsetReader(charset string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder())), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

// row es una fila indexada por el nombre de columna de la cabecera.
type row map[string]string

func (r row) str(k string) string { return strings.TrimSpace(r[k]) }

func (r row) intVal(k string) (int, error) {
	n, err := strconv.Atoi(r.str(k))
	if err != nil {
		return 0, fmt.Errorf("columna %s: %w", k, err)
	}
	return n, nil
}

func (r row) decimalVal(k string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(r.str(k))
	if err != nil {
		return decimal.Zero, fmt.Errorf("columna %s: %w", k, err)
	}
	return d, nil
}

// list separa valores múltiples de una celda ("T1|T2|T3").
func (r row) list(k string) []string {
	var out []string
	for _, s := range strings.Split(r.str(k), "|") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// readRows lee un CSV con cabecera y valida que estén las columnas requeridas.
func readRows(r io.Reader, charset string, required ...string) ([]row, error) {
	dec, err := charsetReader(charset, r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dec)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	for _, col := range required {
		if !contains(header, col) {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rw := make(row, len(header))
		for i, h := range header {
			if i < len(rec) {
				rw[h] = rec[i]
			}
		}
		rows = append(rows, rw)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ── Parsers por archivo ───────────────────────────────────────────────────────

func parseProducts(rows []row, now time.Time) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(rows))
	for i, r := range rows {
		vol, err := r.decimalVal("volume")
		if err != nil {
			return nil, fmt.Errorf("products fila %d: %w", i+1, err)
		}
		if !vol.IsPositive() {
			return nil, fmt.Errorf("products fila %d: volume debe ser > 0", i+1)
		}
		out = append(out, &entity.Product{ID: r.str("product_id"), Name: r.str("name"), Volume: vol, CreatedAt: now, UpdatedAt: now})
	}
	return out, nil
}

func parseBins(rows []row, now time.Time) ([]*entity.Bin, error) {
	out := make([]*entity.Bin, 0, len(rows))
	for i, r := range rows {
		vol, err := r.decimalVal("availability_vol")
		if err != nil {
			return nil, fmt.Errorf("bins fila %d: %w", i+1, err)
		}
		if vol.IsNegative() {
			return nil, fmt.Errorf("bins fila %d: availability_vol negativo", i+1)
		}
		out = append(out, &entity.Bin{ID: r.str("bin_id"), Zone: r.str("zone"), AvailabilityVol: vol, CreatedAt: now, UpdatedAt: now})
	}
	return out, nil
}

// parseStoringOrders arma órdenes y paquetes; PackageIDs sale de packages.csv.
func parseStoringOrders(orderRows, packageRows []row, now time.Time) ([]*entity.StoringOrder, []*entity.Package, error) {
	orders := make([]*entity.StoringOrder, 0, len(orderRows))
	byID := make(map[string]*entity.StoringOrder, len(orderRows))
	for i, r := range orderRows {
		qty, err := r.intVal("package_quantity")
		if err != nil {
			return nil, nil, fmt.Errorf("storing_orders fila %d: %w", i+1, err)
		}
		o := &entity.StoringOrder{
			ID:               r.str("storing_order_id"),
			ReceiverID:       r.str("receiver_id"),
			InvoiceNumber:    r.str("invoice_number"),
			BillOfEntryID:    r.str("bill_of_entry_id"),
			AirwayBillNumber: r.str("airway_bill_number"),
			PackageQuantity:  qty,
			Status:           entity.StoringOrderCreated,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}

	packages := make([]*entity.Package, 0, len(packageRows))
	for i, r := range packageRows {
		qty, err := r.intVal("quantity")
		if err != nil {
			return nil, nil, fmt.Errorf("packages fila %d: %w", i+1, err)
		}
		p := &entity.Package{
			ID:             r.str("package_id"),
			StoringOrderID: r.str("storing_order_id"),
			ProductID:      r.str("product_id"),
			Quantity:       qty,
			RFIDIDs:        r.list("rfid_ids"),
			Status:         entity.PackageCreated,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if len(p.RFIDIDs) > 0 && len(p.RFIDIDs) != p.Quantity {
			return nil, nil, fmt.Errorf("packages fila %d: %d etiquetas para cantidad %d", i+1, len(p.RFIDIDs), p.Quantity)
		}
		o, ok := byID[p.StoringOrderID]
		if !ok {
			return nil, nil, fmt.Errorf("packages fila %d: orden %s inexistente", i+1, p.StoringOrderID)
		}
		o.PackageIDs = append(o.PackageIDs, p.ID)
		packages = append(packages, p)
	}
	return orders, packages, nil
}

func parsePickSlips(slipRows, orderRows []row, now time.Time) ([]*entity.PickSlip, []*entity.PickOrder, error) {
	slips := make([]*entity.PickSlip, 0, len(slipRows))
	known := make(map[string]bool, len(slipRows))
	for _, r := range slipRows {
		s := &entity.PickSlip{ID: r.str("pick_slip_id"), PackingZone: r.str("packing_zone"), Status: entity.PickSlipPicking, CreatedAt: now, UpdatedAt: now}
		slips = append(slips, s)
		known[s.ID] = true
	}
	orders := make([]*entity.PickOrder, 0, len(orderRows))
	for i, r := range orderRows {
		qty, err := r.intVal("quantity")
		if err != nil {
			return nil, nil, fmt.Errorf("pick_orders fila %d: %w", i+1, err)
		}
		o := &entity.PickOrder{
			ID:         r.str("pick_order_id"),
			PickSlipID: r.str("pick_slip_id"),
			PickerID:   r.str("picker_id"),
			ProductID:  r.str("product_id"),
			BinID:      r.str("bin_id"),
			Quantity:   qty,
			Status:     entity.PickOrderReadyForPicking,
			CreatedAt:  now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt:  now,
		}
		if !known[o.PickSlipID] {
			return nil, nil, fmt.Errorf("pick_orders fila %d: pick slip %s inexistente", i+1, o.PickSlipID)
		}
		orders = append(orders, o)
	}
	return slips, orders, nil
}
