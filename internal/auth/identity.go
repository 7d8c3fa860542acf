package auth

import "github.com/ukydev/ototansan/internal/models"

// identities is the fixed identity table. Entries are never mutated.
var identities = []models.User{
	{
		ID:    "admin-1",
		Name:  "Super Admin",
		Email: "admin@ototansan.com",
		Role:  models.RoleAdmin,
	},
	{
		ID:    "user-1",
		Name:  "Budi Santoso",
		Email: "user@ototansan.com",
		Role:  models.RoleUser,
	},
}

// roleSecrets holds one shared password per role, not per user. This is demo
// behaviour and is deliberately not extended to per-user credentials.
var roleSecrets = map[models.Role]string{
	models.RoleAdmin: "admin123",
	models.RoleUser:  "user123",
}

// Identities returns a copy of the identity table.
func Identities() []models.User {
	out := make([]models.User, len(identities))
	copy(out, identities)
	return out
}
