package entity

import "time"

// Inventory es el total de unidades de un producto confirmadas físicamente en un bin.
// Clave compuesta (BinID, ProductID); solo se incrementa al cerrar el binning de un paquete.
type Inventory struct {
	BinID     string
	ProductID string
	Quantity  int
	UpdatedAt time.Time
}
