package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/billing"
	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/httpmodel"
	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/internal/query"
	"github.com/autovm/autovm/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddVM provisions a new virtual machine for the requesting user. Admins bypass the quota checks; customers need an
// active subscription, must not be suspended, and must be below their plan's virtual machine limit.
//
// swagger:route POST /v1/vms vms addVM
//
// # Add Virtual Machine
//
// Provisions a new virtual machine for the requesting user.
//
// Responses:
//
//	200: virtualMachineResponse
func (s Server) AddVM(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "add-vm"})
	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"user": user.Username})

	// Guests consume resources through the customer that invited them and can't provision machines themselves.
	if !user.Role.BypassesQuotas() && !user.Role.Provisions() {
		return model.Error(ctx, "guests may not provision virtual machines", http.StatusForbidden)
	}

	// Parse and validate the request body.
	var body httpmodel.NewVirtualMachine
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	var vm *model.VirtualMachine
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		// Enforce the quota for customers. The check happens before anything is created.
		if !user.Role.BypassesQuotas() {
			customer, err := db.GetCustomer(context, tx, *user.ID)
			if err != nil {
				return err
			}
			_, subscription, err := db.GetActiveSubscriptionForUser(context, tx, *user.ID)
			if err != nil {
				return err
			}
			vmCount, err := db.CountVMsForUser(context, tx, *user.ID)
			if err != nil {
				return err
			}
			if err = billing.CheckVMCreation(user.Role, customer.Suspended, subscription, vmCount); err != nil {
				return err
			}
		}

		// Resolve the placement references.
		region, err := db.GetRegionByID(context, tx, body.RegionID)
		if err != nil {
			return err
		}
		osVersion, err := db.GetOSVersionByID(context, tx, body.OperatingSystemVersionID)
		if err != nil {
			return err
		}

		// Provision the machine under a generated name.
		vm = &model.VirtualMachine{
			Name:                     utils.GenerateVMName(),
			Description:              body.Description,
			UserID:                   user.ID,
			OperatingSystemVersionID: osVersion.ID,
			RegionID:                 region.ID,
			BackupFrequency:          body.BackupFrequency,
			DiskSize:                 body.DiskSize,
			IsActive:                 true,
		}
		if err = db.CreateVM(context, tx, vm); err != nil {
			return err
		}
		if err = db.AddVMHistory(context, tx, *vm.ID, *user.ID, model.VMActionCreate, "virtual machine created"); err != nil {
			return err
		}

		// Load the machine details for the response.
		vm, err = db.GetVM(context, tx, *vm.ID)
		return err
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("user %s provisioned virtual machine %s", user.Username, vm.Name)

	return model.Success(ctx, vm, http.StatusOK)
}

// GetAllVMs lists virtual machines. Admins see every machine; other users only see their own. The listing can be
// restricted to running or stopped machines with the is_active query parameter.
func (s Server) GetAllVMs(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing vms"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	ownerID := ""
	if !user.Role.ManagesPlatform() {
		ownerID = *user.ID
	}

	// Extract the optional is_active filter.
	var isActive *bool
	if ctx.QueryParam("is_active") != "" {
		value, err := query.ValidateBooleanQueryParam(ctx, "is_active", nil)
		if err != nil {
			log.Error(err)
			return model.Error(ctx, err.Error(), http.StatusBadRequest)
		}
		isActive = &value
	}

	vms, err := db.ListVMs(context, s.GORMDB, ownerID, isActive)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, vms, http.StatusOK)
}

// GetVM returns the details of a single virtual machine. Users who don't manage the platform may only view machines
// they own.
func (s Server) GetVM(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting vm"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	vmID := ctx.Param("vm_id")
	if vmID == "" {
		return model.Error(ctx, "invalid virtual machine ID", http.StatusBadRequest)
	}

	vm, err := db.GetVM(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	if !user.Role.ManagesPlatform() && *vm.UserID != *user.ID {
		return model.Error(ctx, "you are not authorized to view this virtual machine", http.StatusForbidden)
	}

	return model.Success(ctx, vm, http.StatusOK)
}

// GetVMStatistics summarizes the virtual machines visible to the requesting user.
func (s Server) GetVMStatistics(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "vm statistics"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	ownerID := ""
	if !user.Role.ManagesPlatform() {
		ownerID = *user.ID
	}

	stats, err := db.GetVMStatistics(context, s.GORMDB, ownerID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, stats, http.StatusOK)
}

// AssignVM transfers ownership of a virtual machine to another user. The new owner is subject to the same
// subscription and quota checks as machine creation. When the owner actually changes, an audit log entry is recorded
// in the same transaction and a notification job is published for both parties.
//
// swagger:route POST /v1/vms/{vm_id}/assign vms assignVM
//
// # Assign Virtual Machine
//
// Transfers ownership of a virtual machine to another user.
//
// Responses:
//
//	200: virtualMachineResponse
func (s Server) AssignVM(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "assign-vm"})
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

	// Parse and validate the request body.
	var body httpmodel.Assignment
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	// Load the machine and verify that the requester may assign it.
	vm, err := db.GetVM(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}
	if !user.Role.ManagesPlatform() && *vm.UserID != *user.ID {
		return model.Error(ctx, "you are not authorized to assign this virtual machine", http.StatusForbidden)
	}

	previousOwnerID := *vm.UserID

	var newOwner *model.User
	var ownerChanged bool
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		newOwner, err = db.GetUserByID(context, tx, body.UserID)
		if err != nil {
			return err
		}

		// Assigning a machine to its current owner is a no-op.
		if *newOwner.ID == previousOwnerID {
			return nil
		}

		// The new owner needs room under their own plan. A user who was never provisioned with a billing
		// account has no subscription and can't receive machines.
		if !newOwner.Role.BypassesQuotas() {
			_, subscription, err := db.GetActiveSubscriptionForUser(context, tx, *newOwner.ID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return model.ErrNoActiveSubscription
				}
				return err
			}
			vmCount, err := db.CountVMsForUser(context, tx, *newOwner.ID)
			if err != nil {
				return err
			}
			if err = billing.CheckAssignment(subscription, vmCount); err != nil {
				return err
			}
		}

		if err = db.ReassignVM(context, tx, vmID, *newOwner.ID); err != nil {
			return err
		}

		description := fmt.Sprintf("virtual machine assigned to %s", newOwner.Username)
		if err = db.AddVMHistory(context, tx, vmID, *user.ID, model.VMActionAssign, description); err != nil {
			return err
		}

		ownerChanged = true
		return nil
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	// Notify both parties in the background. A publish failure doesn't undo the assignment.
	if ownerChanged {
		log.Infof("virtual machine %s assigned from %s to %s", vm.Name, previousOwnerID, *newOwner.ID)
		s.publishNotification(log, s.VMAssignmentSubject, &model.VMAssignmentNotification{
			MachineID:       vmID,
			MachineName:     vm.Name,
			PreviousOwnerID: previousOwnerID,
			NewOwnerID:      *newOwner.ID,
		})
	}

	vm, err = db.GetVM(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	return model.Success(ctx, vm, http.StatusOK)
}

// GetAllVMHistory lists the audit log across every virtual machine. Only admins may view the full log.
func (s Server) GetAllVMHistory(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "vm history"})

	context := ctx.Request().Context()

	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil
	}

	entries, err := db.ListVMHistory(context, s.GORMDB, "")
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, entries, http.StatusOK)
}

// GetVMHistory lists the audit log for a single virtual machine. Users who don't manage the platform may only view
// the history of machines they own.
func (s Server) GetVMHistory(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "vm history"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	vmID := ctx.Param("vm_id")
	if vmID == "" {
		return model.Error(ctx, "invalid virtual machine ID", http.StatusBadRequest)
	}

	vm, err := db.GetVM(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}
	if !user.Role.ManagesPlatform() && *vm.UserID != *user.ID {
		return model.Error(ctx, "you are not authorized to view this virtual machine", http.StatusForbidden)
	}

	entries, err := db.ListVMHistory(context, s.GORMDB, vmID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, entries, http.StatusOK)
}
