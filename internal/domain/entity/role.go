package entity

// Roles válidos para empleados del almacén. El rol llega del autorizador
// (API key o JWT) y cada comando declara los roles que acepta.
const (
	RoleAdmin      = "admin"
	RoleReceiver   = "receiver"
	RoleTQEmployee = "tq_employee"
	RoleBinner     = "binner"
	RolePicker     = "picker"
	RolePacker     = "packer"
	RoleDispatcher = "dispatcher"
	RoleScanner    = "scanner"
)

// Principal es la identidad resuelta a partir de una credencial.
type Principal struct {
	EmployeeID string
	Role       string
}

// HasRole indica si el principal tiene alguno de los roles indicados.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// ValidRole indica si el rol pertenece al vocabulario conocido.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReceiver, RoleTQEmployee, RoleBinner, RolePicker, RolePacker, RoleDispatcher, RoleScanner:
		return true
	}
	return false
}
