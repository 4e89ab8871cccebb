package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// RelationType is the role a user holds in a business
type RelationType string

const (
	RelationOwner RelationType = "Owner"
	RelationAdmin RelationType = "Admin"
	RelationStaff RelationType = "Staff"
)

// Assignable reports whether the type may be granted after creation.
// Owner only exists through business registration.
func (t RelationType) Assignable() bool {
	return t == RelationAdmin || t == RelationStaff
}

// User is a platform account managed by the identity service
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Customer is a diner account
type Customer struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

// BusinessUser links a user to a business with a role. Every relation except
// the owner's starts unverified until the supervisor follows the email link.
type BusinessUser struct {
	ID                uuid.UUID    `json:"id"`
	UserID            uuid.UUID    `json:"userId"`
	BusinessID        uuid.UUID    `json:"businessId"`
	Type              RelationType `json:"type"`
	SupervisorID      uuid.UUID    `json:"supervisorId"`
	VerificationToken null.String  `json:"-"`
	IsVerified        bool         `json:"isVerified"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// CreateRelationInput is a request to grant a user a role in a business
type CreateRelationInput struct {
	BusinessID uuid.UUID    `json:"businessId"`
	Username   string       `json:"username"`
	Type       RelationType `json:"type"`
}
