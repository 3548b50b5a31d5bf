package medusa

import (
	"time"
)

// User represents an admin user of the host commerce platform.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// Invite represents a pending admin user invite on the host platform.
type Invite struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Accepted  bool       `json:"accepted"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Cart represents a shopping cart on the host platform.
type Cart struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	CustomerID  string     `json:"customer_id"`
	Total       int64      `json:"total"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type userListResponse struct {
	Users []User `json:"users"`
	Count int    `json:"count"`
}

type inviteResponse struct {
	Invite Invite `json:"invite"`
}

type cartListResponse struct {
	Carts []Cart `json:"carts"`
	Count int    `json:"count"`
}
