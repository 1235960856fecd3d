package model

import "time"

// Role identifies the set of permissions granted to a user. The set of roles is closed; every user is exactly one of
// admin, customer, or guest.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleGuest:
		return true
	}
	return false
}

// BypassesQuotas reports whether the role is exempt from subscription and quota checks.
func (r Role) BypassesQuotas() bool {
	return r == RoleAdmin
}

// ManagesPlatform reports whether the role may manage reference data and other users' resources.
func (r Role) ManagesPlatform() bool {
	return r == RoleAdmin
}

// Provisions reports whether a billing account and a customer profile are provisioned for the role when the user is
// registered. Guests consume resources through the customer that invited them.
func (r Role) Provisions() bool {
	return r == RoleCustomer
}

// User represents a platform user.
//
// swagger:model
type User struct {
	// The user identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The username
	Username string `gorm:"not null;unique" json:"username,omitempty"`

	// The user's email address
	Email string `gorm:"not null;unique" json:"email,omitempty"`

	// The display name of the user
	Name string `json:"name,omitempty"`

	// The user's role
	Role Role `gorm:"type:text;not null;default:'customer'" json:"role,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// GeneralAdmin is the profile row for a platform administrator.
type GeneralAdmin struct {
	ID     *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`
	UserID *string `gorm:"type:uuid;not null;unique" json:"-"`
	User   *User   `json:"user,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Customer is the profile row for a paying customer. The suspended flag gates every mutating resource operation.
//
// swagger:model
type Customer struct {
	ID     *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`
	UserID *string `gorm:"type:uuid;not null;unique" json:"-"`
	User   *User   `json:"user,omitempty"`

	// The total amount the customer has spent on the platform
	TotalSpent float64 `gorm:"type:numeric(10,2);not null;default:0" json:"total_spent"`

	// True if the customer account has been suspended
	Suspended bool `gorm:"not null;default:false" json:"suspended"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Guest status values.
const (
	GuestStatusActive   = "active"
	GuestStatusInactive = "inactive"
)

// Guest is the profile row for a guest invited by a customer.
type Guest struct {
	ID     *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`
	UserID *string `gorm:"type:uuid;not null;unique" json:"-"`
	User   *User   `json:"user,omitempty"`

	// The customer who invited the guest
	CustomerID *string   `gorm:"type:uuid" json:"-"`
	Customer   *Customer `json:"customer,omitempty"`

	// Either active or inactive
	Status string `gorm:"type:text;not null;default:'active'" json:"status,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// CustomerStatistics summarizes the customer population.
type CustomerStatistics struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
	Guests    int64 `json:"guests"`
}
