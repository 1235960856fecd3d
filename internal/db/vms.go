package db

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateVM stores a new virtual machine.
func CreateVM(ctx context.Context, db *gorm.DB, vm *model.VirtualMachine) error {
	wrapMsg := "unable to create the virtual machine"

	err := db.WithContext(ctx).Create(vm).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// GetVM looks up the virtual machine with the given identifier.
func GetVM(ctx context.Context, db *gorm.DB, vmID string) (*model.VirtualMachine, error) {
	wrapMsg := fmt.Sprintf("unable to look up virtual machine ID '%s'", vmID)
	var err error

	var vm model.VirtualMachine
	err = db.WithContext(ctx).
		Preload("User").
		Preload("Region").
		Preload("OperatingSystemVersion").
		Preload("OperatingSystemVersion.OperatingSystem").
		Where("id = ?", vmID).
		First(&vm).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrapf(model.ErrNotFound, "virtual machine %s", vmID)
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &vm, nil
}

// ListVMs lists virtual machines, optionally restricted to a single owner and to a single activity state. Admins
// pass an empty owner ID to list everything; a nil isActive lists both running and stopped machines.
func ListVMs(ctx context.Context, db *gorm.DB, ownerID string, isActive *bool) ([]model.VirtualMachine, error) {
	wrapMsg := "unable to list virtual machines"

	query := db.WithContext(ctx).
		Preload("User").
		Preload("Region").
		Preload("OperatingSystemVersion").
		Preload("OperatingSystemVersion.OperatingSystem").
		Order("created_at desc")
	if ownerID != "" {
		query = query.Where("user_id = ?", ownerID)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var vms []model.VirtualMachine
	err := query.Find(&vms).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return vms, nil
}

// CountVMsForUser counts the virtual machines owned by the given user. The count is compared against the vm_limit of
// the owner's active subscription plan.
func CountVMsForUser(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	wrapMsg := "unable to count virtual machines"

	var count int64
	err := db.WithContext(ctx).
		Model(&model.VirtualMachine{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return count, nil
}

// ReassignVM changes the owner of a virtual machine.
func ReassignVM(ctx context.Context, db *gorm.DB, vmID, newOwnerID string) error {
	wrapMsg := "unable to reassign the virtual machine"

	err := db.WithContext(ctx).
		Model(&model.VirtualMachine{}).
		Where("id = ?", vmID).
		UpdateColumn("user_id", newOwnerID).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// GetVMStatistics summarizes the virtual machines visible to a requester, optionally restricted to a single owner.
func GetVMStatistics(ctx context.Context, db *gorm.DB, ownerID string) (*model.VMStatistics, error) {
	wrapMsg := "unable to gather virtual machine statistics"
	var err error

	base := func() *gorm.DB {
		query := db.WithContext(ctx).Model(&model.VirtualMachine{})
		if ownerID != "" {
			query = query.Where("user_id = ?", ownerID)
		}
		return query
	}

	var stats model.VMStatistics
	err = base().Count(&stats.Total).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	err = base().Where("is_active = ?", true).Count(&stats.Active).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	stats.Inactive = stats.Total - stats.Active

	return &stats, nil
}
