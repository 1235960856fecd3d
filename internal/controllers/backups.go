package controllers

import (
	"net/http"

	"github.com/autovm/autovm/internal/billing"
	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BackupVM takes a backup of a virtual machine. The machine owner's suspension flag is checked before anything else,
// then the owner's subscription, then the per-machine backup limit. The backup and its audit log entry are created in
// a single transaction.
//
// swagger:route POST /v1/vms/{vm_id}/backup backups backupVM
//
// # Backup Virtual Machine
//
// Takes a backup of the virtual machine.
//
// Responses:
//
//	200: backupResponse
func (s Server) BackupVM(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "backup-vm"})
	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"user": user.Username})

	vmID := ctx.Param("vm_id")
	if vmID == "" {
		return model.Error(ctx, "invalid virtual machine ID", http.StatusBadRequest)
	}

	// Load the machine and verify that the requester may back it up.
	vm, err := db.GetVM(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}
	if !user.Role.ManagesPlatform() && *vm.UserID != *user.ID {
		return model.Error(ctx, "you are not authorized to back up this virtual machine", http.StatusForbidden)
	}

	var backup *model.Backup
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		// The checks apply to the machine's owner, even when an admin triggers the backup. Machines owned by an
		// admin are exempt.
		if !vm.User.Role.BypassesQuotas() {
			customer, err := db.GetCustomer(context, tx, *vm.UserID)
			if err != nil {
				return err
			}
			_, subscription, err := db.GetActiveSubscriptionForUser(context, tx, *vm.UserID)
			if err != nil {
				return err
			}
			backupCount, err := db.CountBackupsForVM(context, tx, vmID)
			if err != nil {
				return err
			}
			if err = billing.CheckBackupCreation(customer.Suspended, subscription, backupCount); err != nil {
				return err
			}
		}

		backup, err = db.CreateBackup(context, tx, vm)
		if err != nil {
			return err
		}
		return db.AddVMHistory(context, tx, vmID, *user.ID, model.VMActionBackup, "backup taken")
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("user %s backed up virtual machine %s", user.Username, vm.Name)

	return model.Success(ctx, backup, http.StatusOK)
}

// GetAllBackups lists backups. Admins see every backup; other users only see backups of their own machines.
func (s Server) GetAllBackups(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing backups"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	ownerID := ""
	if !user.Role.ManagesPlatform() {
		ownerID = *user.ID
	}

	backups, err := db.ListBackups(context, s.GORMDB, ownerID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, backups, http.StatusOK)
}
