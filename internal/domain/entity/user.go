package entity

// Roles del directorio de usuarios relevantes para bodega.
const (
	RoleAdmin        = "admin"
	RoleStockManager = "stock_manager"
	RolePicker       = "picker"
)

// AlertRecipientRoles roles que reciben alertas de stock.
var AlertRecipientRoles = []string{RoleAdmin, RoleStockManager}

// User representa un usuario del directorio externo; aquí solo interesa para notificar.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}
