package entity

import "time"

// Item es la proyección por etiqueta RFID: último estado y ubicación conocidos.
// Se sobrescribe por RFIDID y no es fuente de verdad; los contadores del Package sí lo son.
type Item struct {
	RFIDID     string
	PackageID  string
	Status     string
	BinID      string
	TQDate     *time.Time
	BinnedDate *time.Time
	UpdatedAt  time.Time
}
