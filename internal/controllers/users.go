package controllers

import (
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/httpmodel"
	"github.com/autovm/autovm/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddUser registers a user under the given username. Registration is idempotent and explicitly provisions everything
// the user will need later: customers get a billing account with the starting balance and a customer profile in the
// same transaction, so read paths never have to create anything on the fly.
//
// swagger:route PUT /v1/users/{username} users addUser
//
// # Add User
//
// Registers a user, provisioning the role-specific profile and billing account.
//
// Responses:
//
//	200: userResponse
func (s Server) AddUser(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "add-user"})
	context := ctx.Request().Context()

	username := ctx.Param("username")
	if username == "" {
		return model.Error(ctx, "invalid username", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"user": username})

	// Parse and validate the request body.
	var body httpmodel.NewUser
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	var user *model.User
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		user, err = db.EnsureUser(context, tx, username, body.Email, body.Name, body.Role)
		if err != nil {
			return err
		}

		if err = db.ProvisionProfile(context, tx, user); err != nil {
			return err
		}

		// Only customers get a billing account of their own.
		if user.Role.Provisions() {
			if _, err = db.ProvisionBillingAccount(context, tx, *user.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("registered user %s with role %s", user.Username, user.Role)

	return model.Success(ctx, user, http.StatusOK)
}

// GetAllUsers lists the registered users. Only admins may list users.
func (s Server) GetAllUsers(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing users"})

	context := ctx.Request().Context()

	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil
	}

	users, err := db.ListUsers(context, s.GORMDB)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, users, http.StatusOK)
}
