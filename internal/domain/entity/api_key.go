package entity

import "time"

// APIKey es una credencial de empleado. La clave entregada al cliente tiene la
// forma "<ID>.<secreto>"; solo se persiste el hash bcrypt del secreto.
type APIKey struct {
	ID         string
	EmployeeID string
	Role       string
	Name       string
	SecretHash string
	Active     bool
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// Usable indica si la clave está activa y no ha expirado en el instante dado.
func (k *APIKey) Usable(now time.Time) bool {
	if k == nil || !k.Active {
		return false
	}
	return k.ExpiresAt == nil || now.Before(*k.ExpiresAt)
}
