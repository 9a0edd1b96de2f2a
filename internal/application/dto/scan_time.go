package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Formatos aceptados para las fechas de lectura. Los lectores existentes
// envían "2006-01-02 15:04:05" sin zona; se interpreta como UTC.
var scanTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// ScanTime fecha de una lectura RFID. Acepta RFC3339 y el formato con espacio
// de los lectores; null o "" dejan el valor en cero.
type ScanTime struct {
	time.Time
}

// NewScanTime envuelve t.
func NewScanTime(t time.Time) ScanTime { return ScanTime{Time: t} }

// UnmarshalJSON implementa json.Unmarshaler.
func (s *ScanTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		s.Time = time.Time{}
		return nil
	}
	raw, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("fecha de lectura: se esperaba un string: %s", b)
	}
	if raw == "" {
		s.Time = time.Time{}
		return nil
	}
	for _, layout := range scanTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			s.Time = t
			return nil
		}
	}
	return fmt.Errorf("fecha de lectura %q: formato no soportado", raw)
}

// MarshalJSON escribe RFC3339 con nanosegundos; el cero se escribe como null.
func (s ScanTime) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(s.Format(time.RFC3339Nano))), nil
}
