package models

// Role represents user roles in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actions checked by HasPermission.
const (
	ActionViewRecords    = "view_records"
	ActionViewAllRecords = "view_all_records"
	ActionCreateRecord   = "create_record"
	ActionDeleteRecord   = "delete_record"
	ActionPrintRecord    = "print_record"
	ActionViewProducts   = "view_products"
	ActionManageProducts = "manage_products"
	ActionViewCustomers  = "view_customers"
)

// User represents an identity issued by the identity store.
type User struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Role  Role   `bson:"role" json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	SessionID string `json:"session_id,omitempty"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	User      User   `json:"user"`
	View      View   `json:"view"`
}

// Claims represents JWT claims
type Claims struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	SessionID string `json:"sid"`
	Exp       int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return action == ActionViewRecords || action == ActionCreateRecord ||
			action == ActionDeleteRecord || action == ActionPrintRecord ||
			action == ActionViewProducts
	default:
		return false
	}
}
