package dto

import "time"

// CreateAPIKeyRequest body para POST /api/auth/api-keys.
type CreateAPIKeyRequest struct {
	EmployeeID string     `json:"employee_id" validate:"required"`
	Role       string     `json:"role" validate:"required,oneof=admin receiver tq_employee binner picker packer dispatcher scanner"`
	Name       string     `json:"name" validate:"max=120"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// APIKeyResponse clave emitida. Key solo se devuelve en la creación.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Key        string     `json:"key,omitempty"`
	EmployeeID string     `json:"employee_id"`
	Role       string     `json:"role"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenResponse JWT emitido a cambio de una API key válida.
type TokenResponse struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	ExpiresIn  int    `json:"expires_in"` // segundos
}
