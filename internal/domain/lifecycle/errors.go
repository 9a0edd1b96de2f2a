// Package lifecycle contiene las transiciones de estado de las entidades del almacén.
// Son funciones puras: reciben el estado actual y devuelven una copia con el nuevo
// estado, o un error de dominio sin tocar la entrada. La persistencia condicional
// y los reintentos viven en la capa de aplicación.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
)

// ErrDuplicateScan indica que la etiqueta ya fue contada para esa etapa (reentrega del evento).
var ErrDuplicateScan = fmt.Errorf("%w: etiqueta ya registrada", domain.ErrDuplicate)

// ErrNoChange indica que la transición ya estaba aplicada; el llamador no debe escribir.
var ErrNoChange = errors.New("transición ya aplicada")

func statusError(entity, current string, expected ...string) error {
	return fmt.Errorf("%w: %s no está en %s (estado actual: %s)",
		domain.ErrPrecondition, entity, strings.Join(expected, " o "), current)
}

func in(status string, allowed ...string) bool {
	for _, s := range allowed {
		if status == s {
			return true
		}
	}
	return false
}
