package httpmodel

import (
	"fmt"

	"github.com/autovm/autovm/internal/model"
)

// NewSubscription
//
// swagger:model
type NewSubscription struct {

	// The name of the rate plan to subscribe to
	//
	// required: true
	PlanName string `json:"plan_name"`
}

// Validate verifies that all the required fields in a subscription purchase are present.
func (s NewSubscription) Validate() error {
	if s.PlanName == "" {
		return fmt.Errorf("a plan name is required")
	}
	return nil
}

// NewVirtualMachine
//
// swagger:model
type NewVirtualMachine struct {

	// A human readable description
	Description string `json:"description"`

	// The ID of the operating system version to install
	//
	// required: true
	OperatingSystemVersionID string `json:"operating_system_version_id"`

	// The ID of the region to place the machine in
	//
	// required: true
	RegionID string `json:"region_id"`

	// The backup frequency; one of daily, weekly, or monthly
	BackupFrequency string `json:"backup_frequency"`

	// The disk size in gigabytes
	DiskSize int `json:"disk_size"`
}

// Validate verifies the fields of a virtual machine creation request, applying defaults for the fields the request
// left out.
func (m *NewVirtualMachine) Validate() error {
	if m.OperatingSystemVersionID == "" {
		return fmt.Errorf("an operating system version is required")
	}
	if m.RegionID == "" {
		return fmt.Errorf("a region is required")
	}

	if m.BackupFrequency == "" {
		m.BackupFrequency = model.BackupFrequencyDaily
	}
	switch m.BackupFrequency {
	case model.BackupFrequencyDaily, model.BackupFrequencyWeekly, model.BackupFrequencyMonthly:
	default:
		return fmt.Errorf("invalid backup frequency: %s", m.BackupFrequency)
	}

	if m.DiskSize == 0 {
		m.DiskSize = model.DiskSizes[0]
	}
	if !model.ValidDiskSize(m.DiskSize) {
		return fmt.Errorf("invalid disk size: %d", m.DiskSize)
	}

	return nil
}

// Assignment
//
// swagger:model
type Assignment struct {

	// The ID of the user the virtual machine is being assigned to
	//
	// required: true
	UserID string `json:"user_id"`
}

// Validate verifies that all the required fields in an assignment request are present.
func (a Assignment) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("a user ID is required")
	}
	return nil
}

// Suspension
//
// swagger:model
type Suspension struct {

	// True to suspend the customer, false to reactivate
	//
	// required: true
	Suspend *bool `json:"suspend"`
}

// Validate verifies that the suspension flag is present.
func (s Suspension) Validate() error {
	if s.Suspend == nil {
		return fmt.Errorf("the suspend flag is required")
	}
	return nil
}

// Deposit
//
// swagger:model
type Deposit struct {

	// The amount to add to the account balance
	//
	// required: true
	Amount float64 `json:"amount"`
}

// Validate verifies that the deposit amount is positive.
func (d Deposit) Validate() error {
	if d.Amount <= 0 {
		return fmt.Errorf("the deposit amount must be greater than zero")
	}
	return nil
}

// NewUser
//
// swagger:model
type NewUser struct {

	// The user's email address
	//
	// required: true
	Email string `json:"email"`

	// The display name of the user
	Name string `json:"name"`

	// The user's role; defaults to customer
	Role model.Role `json:"role"`
}

// Validate verifies the fields of a user registration request. The role defaults to customer when it is left out.
func (u *NewUser) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("an email address is required")
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

// NewRegion
//
// swagger:model
type NewRegion struct {

	// The region name
	//
	// required: true
	Name string `json:"name"`
}

// Validate verifies that the region name is present.
func (r NewRegion) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("a region name is required")
	}
	return nil
}

// NewOSVersion
//
// swagger:model
type NewOSVersion struct {

	// The operating system name
	//
	// required: true
	OperatingSystem string `json:"operating_system"`

	// The version string
	//
	// required: true
	Version string `json:"version"`
}

// Validate verifies that all the required fields in an operating system version are present.
func (o NewOSVersion) Validate() error {
	if o.OperatingSystem == "" {
		return fmt.Errorf("an operating system name is required")
	}
	if o.Version == "" {
		return fmt.Errorf("a version is required")
	}
	return nil
}
