package controllers

import (
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/httpmodel"
	"github.com/autovm/autovm/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// GetAllCustomers lists the customer profiles. Only admins may list customers.
func (s Server) GetAllCustomers(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing customers"})

	context := ctx.Request().Context()

	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil
	}

	customers, err := db.ListCustomers(context, s.GORMDB)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, customers, http.StatusOK)
}

// GetAllGuests lists guest profiles. Admins see every guest; customers only see the guests they invited.
func (s Server) GetAllGuests(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing guests"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	customerID := ""
	if !user.Role.ManagesPlatform() {
		if !user.Role.Provisions() {
			return model.Error(ctx, "you are not authorized to list guests", http.StatusForbidden)
		}
		customer, err := db.GetCustomer(context, s.GORMDB, *user.ID)
		if err != nil {
			return model.BusinessError(ctx, err)
		}
		customerID = *customer.ID
	}

	guests, err := db.ListGuests(context, s.GORMDB, customerID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, guests, http.StatusOK)
}

// GetCustomerStatistics summarizes the customer population. Only admins may view the statistics.
func (s Server) GetCustomerStatistics(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "customer statistics"})

	context := ctx.Request().Context()

	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil
	}

	stats, err := db.GetCustomerStatistics(context, s.GORMDB)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, stats, http.StatusOK)
}

// SuspendCustomer suspends or reactivates a customer account. Suspension only gates future mutating operations; the
// customer's existing machines and backups are untouched. A notification job is published so the customer learns
// about the change.
//
// swagger:route POST /v1/customers/{username}/suspend customers suspendCustomer
//
// # Suspend Customer
//
// Suspends or reactivates a customer account.
//
// Responses:
//
//	200: customerResponse
func (s Server) SuspendCustomer(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "suspend-customer"})
	context := ctx.Request().Context()

	admin, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil
	}

	username := ctx.Param("username")
	if username == "" {
		return model.Error(ctx, "invalid username", http.StatusBadRequest)
	}

	// Parse and validate the request body.
	var body httpmodel.Suspension
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	user, err := db.GetUser(context, s.GORMDB, username)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}
	customer, err := db.GetCustomer(context, s.GORMDB, *user.ID)
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	suspend := *body.Suspend
	if err = db.SetCustomerSuspended(context, s.GORMDB, *customer.ID, suspend); err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("admin %s set the suspension flag for customer %s to %t", admin.Username, username, suspend)

	// Tell the customer about the change in the background.
	s.publishNotification(log, s.AccountStatusSubject, &model.AccountStatusNotification{
		UserID:    *customer.UserID,
		Suspended: suspend,
	})

	customer.Suspended = suspend
	return model.Success(ctx, customer, http.StatusOK)
}
