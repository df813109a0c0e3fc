// internal/model/operator.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type OperatorRole string

const (
	RoleAdmin  OperatorRole = "admin"
	RoleViewer OperatorRole = "viewer"
)

// Operator is a dashboard account with access to the admin surface.
type Operator struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email        string       `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Role         OperatorRole `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the operator may mutate billing state.
func (o *Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}
