package model

import "time"

// Rate plan names. The set of plans is fixed reference data; rows are seeded by the schema migrations.
const (
	PlanNameBronze   = "bronze"
	PlanNameSilver   = "silver"
	PlanNameGold     = "gold"
	PlanNamePlatinum = "platinum"
)

// RatePlan defines a subscription tier: its price and the resource ceilings it grants.
//
// swagger:model
type RatePlan struct {
	// The rate plan identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The plan name
	Name string `gorm:"not null;unique" json:"name,omitempty"`

	// The price charged when subscribing to the plan
	Price float64 `gorm:"type:numeric(10,2);not null" json:"price"`

	// The maximum number of virtual machines an account on this plan may own
	VMLimit int `gorm:"not null;default:2" json:"vm_limit"`

	// The maximum number of backups each virtual machine may have
	BackupLimit int `gorm:"not null;default:2" json:"backup_limit"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// BillingAccount is the virtual space holding the funds a user has within the system.
//
// swagger:model
type BillingAccount struct {
	// The billing account identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The owning user
	UserID *string `gorm:"type:uuid;not null;unique" json:"-"`
	User   *User   `json:"user,omitempty"`

	// The current balance
	Amount float64 `gorm:"type:numeric(10,2);not null;default:200" json:"amount"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Subscription status values. Subscriptions only ever move from active to inactive.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
)

// Subscription links a billing account to a rate plan. At most one subscription per account is active at a time.
//
// swagger:model
type Subscription struct {
	// The subscription identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The billing account the subscription belongs to
	AccountID *string         `gorm:"type:uuid;not null" json:"-"`
	Account   *BillingAccount `json:"account,omitempty"`

	// The rate plan the account is subscribed to
	PlanID *string   `gorm:"type:uuid;not null" json:"-"`
	Plan   *RatePlan `json:"plan,omitempty"`

	// Either active or inactive
	Status string `gorm:"type:text;not null;default:'active'" json:"status,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Transaction status values.
const (
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusCancelled  = "cancelled"
)

// Transaction records a payment event tied to a billing account. The gateway fields come back from the payment
// client and are stored verbatim.
//
// swagger:model
type Transaction struct {
	// The transaction identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The billing account the transaction belongs to
	AccountID *string         `gorm:"type:uuid;not null" json:"-"`
	Account   *BillingAccount `json:"account,omitempty"`

	// The amount charged or deposited
	Amount float64 `gorm:"type:numeric(10,2);not null" json:"amount"`

	// The payment method reported by the gateway
	PaymentMethod string `json:"payment_method,omitempty"`

	// The gateway transaction number
	TransactionNo string `json:"transaction_no,omitempty"`

	// The gateway receipt number
	ReceiptNo string `json:"receipt_no,omitempty"`

	// The gateway payment reference
	PaymentRef string `json:"payment_ref,omitempty"`

	// A human readable description of the payment
	Description string `json:"description,omitempty"`

	// One of processing, completed, or cancelled
	Status string `gorm:"type:text;not null;default:'processing'" json:"status,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// SubscriptionListing is the result of a subscription listing request.
type SubscriptionListing struct {
	Subscriptions []*Subscription `json:"subscriptions"`
	Total         int64           `json:"total"`
}
