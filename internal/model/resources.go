package model

import "time"

// Region identifies a datacenter location where virtual machines can be placed.
type Region struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The region name
	Name string `gorm:"not null" json:"name,omitempty"`

	// A URL-safe slug derived from the name
	Slug string `gorm:"not null;unique" json:"slug,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// OperatingSystem is a supported operating system family, for example ubuntu or fedora.
type OperatingSystem struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	Name string `gorm:"not null;unique" json:"name,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// OperatingSystemVersion is a specific installable version of an operating system, for example ubuntu 20.04.
type OperatingSystemVersion struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	OperatingSystemID *string          `gorm:"type:uuid;not null" json:"-"`
	OperatingSystem   *OperatingSystem `json:"operating_system,omitempty"`

	Version string `gorm:"not null" json:"version,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Backup frequency values.
const (
	BackupFrequencyDaily   = "daily"
	BackupFrequencyWeekly  = "weekly"
	BackupFrequencyMonthly = "monthly"
)

// DiskSizes lists the disk sizes, in gigabytes, that a virtual machine can be provisioned with.
var DiskSizes = []int{200, 300, 400, 600, 1000}

// ValidDiskSize reports whether the given size is one of the provisionable disk sizes.
func ValidDiskSize(size int) bool {
	for _, s := range DiskSizes {
		if s == size {
			return true
		}
	}
	return false
}

// VirtualMachine represents a provisioned virtual machine owned by a user.
//
// swagger:model
type VirtualMachine struct {
	// The virtual machine identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The generated machine name
	Name string `gorm:"not null;unique" json:"name,omitempty"`

	// A human readable description
	Description string `json:"description,omitempty"`

	// The owning user
	UserID *string `gorm:"type:uuid;not null" json:"-"`
	User   *User   `json:"user,omitempty"`

	// The installed operating system version
	OperatingSystemVersionID *string                 `gorm:"type:uuid" json:"-"`
	OperatingSystemVersion   *OperatingSystemVersion `json:"operating_system_version,omitempty"`

	// The region the machine is placed in
	RegionID *string `gorm:"type:uuid" json:"-"`
	Region   *Region `json:"region,omitempty"`

	// One of daily, weekly, or monthly
	BackupFrequency string `gorm:"type:text;not null;default:'daily'" json:"backup_frequency,omitempty"`

	// The provisioned disk size in gigabytes
	DiskSize int `gorm:"not null;default:200" json:"disk_size"`

	// True while the machine is running
	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Backup is a snapshot of a virtual machine. The size is captured at creation time because the machine's disk can be
// resized later.
//
// swagger:model
type Backup struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	VMID *string         `gorm:"type:uuid;not null" json:"-"`
	VM   *VirtualMachine `gorm:"foreignKey:VMID" json:"vm,omitempty"`

	// The backup size in gigabytes
	Size int `gorm:"not null" json:"size"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// Virtual machine history actions.
const (
	VMActionCreate = "create_vm"
	VMActionDelete = "delete_vm"
	VMActionAssign = "assign_vm"
	VMActionBackup = "backup_vm"
	VMActionStart  = "start_vm"
	VMActionStop   = "stop_vm"
)

// VirtualMachineHistory is an append-only audit log entry for an action performed on a virtual machine.
//
// swagger:model
type VirtualMachineHistory struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	VirtualMachineID *string         `gorm:"type:uuid" json:"-"`
	VirtualMachine   *VirtualMachine `json:"virtual_machine,omitempty"`

	// The action performed
	Action string `gorm:"type:text;not null;default:'create_vm'" json:"action,omitempty"`

	// A human readable description of the action
	Description string `json:"description,omitempty"`

	// The user who performed the action
	UserID *string `gorm:"type:uuid;not null" json:"-"`
	User   *User   `json:"user,omitempty"`

	CreatedAt time.Time `json:"created,omitempty"`
}

// Notification is a per-user message produced by background jobs.
//
// swagger:model
type Notification struct {
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	UserID *string `gorm:"type:uuid;not null" json:"-"`
	User   *User   `json:"user,omitempty"`

	// The message shown to the user
	Message string `gorm:"not null" json:"message,omitempty"`

	// True once the user has read the notification
	Read bool `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated,omitempty"`
}

// VMStatistics summarizes the virtual machines visible to a requester.
type VMStatistics struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// VMAssignmentNotification is the background job payload published when a virtual machine changes owners.
type VMAssignmentNotification struct {
	MachineID       string `json:"machine_id"`
	MachineName     string `json:"machine_name"`
	PreviousOwnerID string `json:"previous_owner_id"`
	NewOwnerID      string `json:"new_owner_id"`
}

// AccountStatusNotification is the background job payload published when a customer account is suspended or
// reactivated.
type AccountStatusNotification struct {
	UserID    string `json:"user_id"`
	Suspended bool   `json:"suspended"`
}
