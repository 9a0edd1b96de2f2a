// seed carga datos de bodega desde CSV a PostgreSQL y, opcionalmente, emite la
// primera API key de administrador.
//
// Uso: go run ./cmd/seed [directorio]
// Por defecto lee ./seed. Archivos reconocidos (todos opcionales):
//
//	products.csv        product_id,name,volume
//	bins.csv            bin_id,zone,availability_vol
//	storing_orders.csv  storing_order_id,receiver_id,invoice_number,bill_of_entry_id,airway_bill_number,package_quantity
//	packages.csv        package_id,storing_order_id,product_id,quantity,rfid_ids (T1|T2|...)
//	pick_slips.csv      pick_slip_id,packing_zone
//	pick_orders.csv     pick_order_id,pick_slip_id,picker_id,product_id,bin_id,quantity
//
// SEED_CHARSET: utf-8 (defecto), iso-8859-1 o windows-1252.
// SEED_ADMIN_EMPLOYEE_ID: si se define, crea una API key admin y la imprime una sola vez.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// dataset es el contenido parseado del directorio de carga.
type dataset struct {
	products      []*entity.Product
	bins          []*entity.Bin
	storingOrders []*entity.StoringOrder
	packages      []*entity.Package
	pickSlips     []*entity.PickSlip
	pickOrders    []*entity.PickOrder
}

// stats cuenta filas insertadas y omitidas (ya existentes).
type stats struct {
	inserted map[string]int
	skipped  map[string]int
}

func main() {
	dir := "seed"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ds, err := loadDir(dir, os.Getenv("SEED_CHARSET"), time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	var st stats
	err = postgres.NewTxRunner(pool).Run(ctx, func(repos postgres.Repos) error {
		st, err = apply(ctx, repos, ds)
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Msg("carga inicial")
	}
	for kind, n := range st.inserted {
		log.Info().Str("kind", kind).Int("inserted", n).Int("skipped", st.skipped[kind]).Msg("carga completada")
	}

	if employeeID := os.Getenv("SEED_ADMIN_EMPLOYEE_ID"); employeeID != "" {
		authUC := auth.NewAuthUseCase(postgres.NewAPIKeyRepository(pool), auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		})
		key, err := authUC.BootstrapAdmin(ctx, employeeID, "bootstrap")
		if err != nil {
			log.Fatal().Err(err).Msg("crear API key admin")
		}
		// Única vez que se muestra el secreto.
		fmt.Printf("API key admin para %s: %s\n", employeeID, key.Key)
	}
}

// loadDir parsea los CSV presentes en dir.
func loadDir(dir, charset string, now time.Time) (*dataset, error) {
	read := func(name string, required ...string) ([]row, error) {
		f, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rows, err := readRows(f, charset, required...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return rows, nil
	}
	return parseDataset(read, now)
}

type rowSource func(name string, required ...string) ([]row, error)

func parseDataset(read rowSource, now time.Time) (*dataset, error) {
	var ds dataset

	rows, err := read("products.csv", "product_id", "volume")
	if err != nil {
		return nil, err
	}
	if ds.products, err = parseProducts(rows, now); err != nil {
		return nil, err
	}

	if rows, err = read("bins.csv", "bin_id", "availability_vol"); err != nil {
		return nil, err
	}
	if ds.bins, err = parseBins(rows, now); err != nil {
		return nil, err
	}

	orderRows, err := read("storing_orders.csv", "storing_order_id", "invoice_number", "bill_of_entry_id", "airway_bill_number", "package_quantity")
	if err != nil {
		return nil, err
	}
	packageRows, err := read("packages.csv", "package_id", "storing_order_id", "product_id", "quantity")
	if err != nil {
		return nil, err
	}
	if ds.storingOrders, ds.packages, err = parseStoringOrders(orderRows, packageRows, now); err != nil {
		return nil, err
	}

	slipRows, err := read("pick_slips.csv", "pick_slip_id", "packing_zone")
	if err != nil {
		return nil, err
	}
	pickRows, err := read("pick_orders.csv", "pick_order_id", "pick_slip_id", "picker_id", "product_id", "bin_id", "quantity")
	if err != nil {
		return nil, err
	}
	if ds.pickSlips, ds.pickOrders, err = parsePickSlips(slipRows, pickRows, now); err != nil {
		return nil, err
	}
	return &ds, nil
}

// apply inserta el dataset. Productos y bins se sobrescriben; el resto se omite
// si ya existe para que la carga pueda repetirse dentro de una sola transacción.
func apply(ctx context.Context, repos postgres.Repos, ds *dataset) (stats, error) {
	st := stats{inserted: map[string]int{}, skipped: map[string]int{}}

	for _, p := range ds.products {
		if err := repos.Products.Upsert(ctx, p); err != nil {
			return st, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		st.inserted["products"]++
	}
	for _, b := range ds.bins {
		if err := repos.Bins.Upsert(ctx, b); err != nil {
			return st, fmt.Errorf("bin %s: %w", b.ID, err)
		}
		st.inserted["bins"]++
	}
	for _, o := range ds.storingOrders {
		existing, err := repos.StoringOrders.GetByID(ctx, o.ID)
		if err != nil {
			return st, err
		}
		if existing != nil {
			st.skipped["storing_orders"]++
			continue
		}
		if err := repos.StoringOrders.Create(ctx, o); err != nil {
			return st, fmt.Errorf("orden %s: %w", o.ID, err)
		}
		st.inserted["storing_orders"]++
	}
	for _, p := range ds.packages {
		existing, err := repos.Packages.GetByID(ctx, p.ID)
		if err != nil {
			return st, err
		}
		if existing != nil {
			st.skipped["packages"]++
			continue
		}
		if err := repos.Packages.Create(ctx, p); err != nil {
			return st, fmt.Errorf("paquete %s: %w", p.ID, err)
		}
		if len(p.RFIDIDs) > 0 {
			if err := repos.Items.SetStatus(ctx, p.ID, p.RFIDIDs, entity.PackageCreated); err != nil {
				return st, fmt.Errorf("items de %s: %w", p.ID, err)
			}
		}
		st.inserted["packages"]++
	}
	for _, s := range ds.pickSlips {
		existing, err := repos.PickSlips.GetByID(ctx, s.ID)
		if err != nil {
			return st, err
		}
		if existing != nil {
			st.skipped["pick_slips"]++
			continue
		}
		if err := repos.PickSlips.Create(ctx, s); err != nil {
			return st, fmt.Errorf("pick slip %s: %w", s.ID, err)
		}
		st.inserted["pick_slips"]++
	}
	for _, o := range ds.pickOrders {
		existing, err := repos.PickOrders.GetByID(ctx, o.ID)
		if err != nil {
			return st, err
		}
		if existing != nil {
			st.skipped["pick_orders"]++
			continue
		}
		if err := repos.PickOrders.Create(ctx, o); err != nil {
			return st, fmt.Errorf("pick order %s: %w", o.ID, err)
		}
		st.inserted["pick_orders"]++
	}
	return st, nil
}

