package domain

type UserRole string

const (
	RoleBuyer    UserRole = "buyer"
	RoleSeller   UserRole = "seller"
	RoleDelivery UserRole = "delivery"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
