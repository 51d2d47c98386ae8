package entity

import "time"

// Roles de usuario de la farmacia.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleAuxiliar     = "auxiliar"
)

// User representa un usuario del sistema. El core no autoriza: solo registra
// quién actuó (PerformedBy en StockEvent); el rol se usa en el middleware RBAC.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | farmaceutico | auxiliar
	Status       string // active | inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
