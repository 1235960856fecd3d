package httpmodel

import (
	"testing"

	"github.com/autovm/autovm/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewSubscriptionValidate(t *testing.T) {
	assert.Error(t, NewSubscription{}.Validate())
	assert.NoError(t, NewSubscription{PlanName: model.PlanNameBronze}.Validate())
}

func TestNewVirtualMachineValidate(t *testing.T) {
	m := NewVirtualMachine{
		OperatingSystemVersionID: "os-version-id",
		RegionID:                 "region-id",
	}
	assert.NoError(t, m.Validate())

	// Defaults are applied during validation.
	assert.Equal(t, model.BackupFrequencyDaily, m.BackupFrequency)
	assert.Equal(t, model.DiskSizes[0], m.DiskSize)
}

func TestNewVirtualMachineValidateRejections(t *testing.T) {
	missingOS := NewVirtualMachine{RegionID: "region-id"}
	assert.Error(t, missingOS.Validate())

	missingRegion := NewVirtualMachine{OperatingSystemVersionID: "os-version-id"}
	assert.Error(t, missingRegion.Validate())

	badFrequency := NewVirtualMachine{
		OperatingSystemVersionID: "os-version-id",
		RegionID:                 "region-id",
		BackupFrequency:          "hourly",
	}
	assert.Error(t, badFrequency.Validate())

	badDiskSize := NewVirtualMachine{
		OperatingSystemVersionID: "os-version-id",
		RegionID:                 "region-id",
		DiskSize:                 123,
	}
	assert.Error(t, badDiskSize.Validate())
}

func TestAssignmentValidate(t *testing.T) {
	assert.Error(t, Assignment{}.Validate())
	assert.NoError(t, Assignment{UserID: "user-id"}.Validate())
}

func TestSuspensionValidate(t *testing.T) {
	assert.Error(t, Suspension{}.Validate())

	// Both true and false are valid; only a missing flag is rejected.
	suspend := true
	assert.NoError(t, Suspension{Suspend: &suspend}.Validate())
	reactivate := false
	assert.NoError(t, Suspension{Suspend: &reactivate}.Validate())
}

func TestDepositValidate(t *testing.T) {
	assert.Error(t, Deposit{}.Validate())
	assert.Error(t, Deposit{Amount: -50}.Validate())
	assert.NoError(t, Deposit{Amount: 100}.Validate())
}

func TestNewUserValidate(t *testing.T) {
	missingEmail := NewUser{}
	assert.Error(t, missingEmail.Validate())

	// The role defaults to customer.
	defaulted := NewUser{Email: "somebody@example.org"}
	assert.NoError(t, defaulted.Validate())
	assert.Equal(t, model.RoleCustomer, defaulted.Role)

	badRole := NewUser{Email: "somebody@example.org", Role: "superuser"}
	assert.Error(t, badRole.Validate())

	admin := NewUser{Email: "somebody@example.org", Role: model.RoleAdmin}
	assert.NoError(t, admin.Validate())
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestNewRegionValidate(t *testing.T) {
	assert.Error(t, NewRegion{}.Validate())
	assert.NoError(t, NewRegion{Name: "North America"}.Validate())
}

func TestNewOSVersionValidate(t *testing.T) {
	assert.Error(t, NewOSVersion{}.Validate())
	assert.Error(t, NewOSVersion{OperatingSystem: "ubuntu"}.Validate())
	assert.Error(t, NewOSVersion{Version: "22.04"}.Validate())
	assert.NoError(t, NewOSVersion{OperatingSystem: "ubuntu", Version: "22.04"}.Validate())
}
