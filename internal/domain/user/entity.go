package user

import (
	"time"

	"github.com/google/uuid"
)

// Role values recognised by the admin dashboard
const (
	RoleAdmin      = "admin"
	RoleOperations = "operations"
	RoleFinance    = "finance"
	RoleViewer     = "viewer"
)

// User represents an application user managed from the admin dashboard
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHashed string
	FullName       string
	PhoneNumber    *string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
