package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/postgres"
)

var seedNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Charset y lectura de CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestCharsetReader_Latin1(t *testing.T) {
	r, err := charsetReader("ISO-8859-1", strings.NewReader("Caf\xe9"))
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café", string(b))
}

func TestCharsetReader_UTF8DescartaBOM(t *testing.T) {
	r, err := charsetReader("", strings.NewReader("\ufeffbin_id"))
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bin_id", string(b))
}

func TestCharsetReader_NoSoportado(t *testing.T) {
	_, err := charsetReader("ebcdic", strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadRows_FaltaColumna(t *testing.T) {
	_, err := readRows(strings.NewReader("bin_id,zone\nA,Z1\n"), "", "bin_id", "availability_vol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "availability_vol")
}

func TestReadRows_CabeceraNormalizada(t *testing.T) {
	rows, err := readRows(strings.NewReader(" Bin_ID , Zone,AVAILABILITY_VOL\nA,Z1,100\n"), "", "bin_id", "availability_vol")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].str("bin_id"))
	assert.Equal(t, "100", rows[0].str("availability_vol"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Parsers
// ──────────────────────────────────────────────────────────────────────────────

func csvSource(files map[string]string) rowSource {
	return func(name string, required ...string) ([]row, error) {
		content, ok := files[name]
		if !ok {
			return nil, nil
		}
		return readRows(strings.NewReader(content), "", required...)
	}
}

func sampleFiles() map[string]string {
	return map[string]string{
		"products.csv":       "product_id,name,volume\nSKU-1,Caja,10\n",
		"bins.csv":           "bin_id,zone,availability_vol\nA,Z1,100\nB,Z1,50\n",
		"storing_orders.csv": "storing_order_id,receiver_id,invoice_number,bill_of_entry_id,airway_bill_number,package_quantity\nSO-1,emp-rx,INV-1,BOE-1,AWB-1,2\n",
		"packages.csv":       "package_id,storing_order_id,product_id,quantity,rfid_ids\nP-1,SO-1,SKU-1,2,T1|T2\nP-2,SO-1,SKU-1,1,\n",
		"pick_slips.csv":     "pick_slip_id,packing_zone\nPS-1,Z1\n",
		"pick_orders.csv":    "pick_order_id,pick_slip_id,picker_id,product_id,bin_id,quantity\nPO-1,PS-1,p1,SKU-1,A,1\nPO-2,PS-1,p1,SKU-1,B,1\n",
	}
}

func TestParseDataset_EnlazaPaquetesYOrdenes(t *testing.T) {
	ds, err := parseDataset(csvSource(sampleFiles()), seedNow)
	require.NoError(t, err)

	require.Len(t, ds.storingOrders, 1)
	assert.Equal(t, []string{"P-1", "P-2"}, ds.storingOrders[0].PackageIDs)
	assert.Equal(t, entity.StoringOrderCreated, ds.storingOrders[0].Status)
	assert.Equal(t, []string{"T1", "T2"}, ds.packages[0].RFIDIDs)
	assert.Empty(t, ds.packages[1].RFIDIDs)
	assert.True(t, ds.pickOrders[0].CreatedAt.Before(ds.pickOrders[1].CreatedAt), "el orden del archivo define la antigüedad")
	assert.Equal(t, "100", ds.bins[0].AvailabilityVol.String())
}

func TestParseDataset_PaqueteDeOrdenInexistente(t *testing.T) {
	files := sampleFiles()
	files["packages.csv"] = "package_id,storing_order_id,product_id,quantity\nP-1,SO-X,SKU-1,1\n"
	_, err := parseDataset(csvSource(files), seedNow)
	assert.Error(t, err)
}

func TestParseDataset_EtiquetasNoCoincidenConCantidad(t *testing.T) {
	files := sampleFiles()
	files["packages.csv"] = "package_id,storing_order_id,product_id,quantity,rfid_ids\nP-1,SO-1,SKU-1,3,T1|T2\n"
	_, err := parseDataset(csvSource(files), seedNow)
	assert.Error(t, err)
}

func TestParseDataset_VolumenInvalido(t *testing.T) {
	files := sampleFiles()
	files["products.csv"] = "product_id,name,volume\nSKU-1,Caja,0\n"
	_, err := parseDataset(csvSource(files), seedNow)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// apply
// ──────────────────────────────────────────────────────────────────────────────

func memoryRepos(st *memory.Store) postgres.Repos {
	return postgres.Repos{
		Products:      st.Products(),
		Bins:          st.Bins(),
		Inventory:     st.Inventory(),
		StoringOrders: st.StoringOrders(),
		Packages:      st.Packages(),
		Items:         st.Items(),
		PickOrders:    st.PickOrders(),
		PickSlips:     st.PickSlips(),
	}
}

func TestApply_RepetibleSinDuplicados(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	ds, err := parseDataset(csvSource(sampleFiles()), seedNow)
	require.NoError(t, err)

	first, err := apply(ctx, memoryRepos(st), ds)
	require.NoError(t, err)
	assert.Equal(t, 2, first.inserted["packages"])
	assert.Equal(t, 2, first.inserted["pick_orders"])

	second, err := apply(ctx, memoryRepos(st), ds)
	require.NoError(t, err)
	assert.Zero(t, second.inserted["packages"])
	assert.Equal(t, 2, second.skipped["packages"])
	assert.Equal(t, 1, second.skipped["storing_orders"])

	item, err := st.Items().GetByID(ctx, "T1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "P-1", item.PackageID)
	assert.Equal(t, entity.PackageCreated, item.Status)
}
