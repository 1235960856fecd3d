package db

import (
	"context"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateBackup takes a backup of the virtual machine, capturing the disk size at the time of the snapshot.
func CreateBackup(ctx context.Context, db *gorm.DB, vm *model.VirtualMachine) (*model.Backup, error) {
	wrapMsg := "unable to create the backup"
	var err error

	backup := model.Backup{
		VMID: vm.ID,
		Size: vm.DiskSize,
	}
	err = db.WithContext(ctx).Create(&backup).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &backup, nil
}

// CountBackupsForVM counts the backups taken of a specific virtual machine. The count is compared against the
// backup_limit of the owner's active subscription plan.
func CountBackupsForVM(ctx context.Context, db *gorm.DB, vmID string) (int64, error) {
	wrapMsg := "unable to count backups"

	var count int64
	err := db.WithContext(ctx).
		Model(&model.Backup{}).
		Where("vm_id = ?", vmID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	return count, nil
}

// ListBackups lists backups, optionally restricted to the virtual machines owned by a single user.
func ListBackups(ctx context.Context, db *gorm.DB, ownerID string) ([]model.Backup, error) {
	wrapMsg := "unable to list backups"

	query := db.WithContext(ctx).Preload("VM").Order("backups.created_at desc")
	if ownerID != "" {
		query = query.
			Joins("JOIN virtual_machines ON backups.vm_id = virtual_machines.id").
			Where("virtual_machines.user_id = ?", ownerID)
	}

	var backups []model.Backup
	err := query.Find(&backups).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return backups, nil
}
