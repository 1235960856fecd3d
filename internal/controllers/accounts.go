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

// GetBalance returns the requesting user's current account balance.
func (s Server) GetBalance(ctx echo.Context) error {
	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	account, err := db.GetBillingAccount(context, s.GORMDB, *user.ID)
	if err != nil {
		return model.BusinessError(ctx, err)
	}

	return model.Success(ctx, map[string]float64{"balance": account.Amount}, http.StatusOK)
}

// Deposit adds funds to the requesting user's billing account and records a matching transaction. Both writes happen
// in the same database transaction.
func (s Server) Deposit(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "deposit"})
	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"user": user.Username})

	// Parse and validate the request body.
	var body httpmodel.Deposit
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		account, err := db.GetBillingAccount(context, tx, *user.ID)
		if err != nil {
			return err
		}

		// Record the deposit with the gateway before touching the balance.
		details, err := s.Payments.MakePayment(body.Amount, "Account deposit")
		if err != nil {
			return err
		}
		if _, err = db.RecordTransaction(context, tx, account, body.Amount, details); err != nil {
			return err
		}

		return db.DepositToAccount(context, tx, *account.ID, body.Amount)
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("user %s deposited %.2f", user.Username, body.Amount)

	msg := fmt.Sprintf("Successfully deposited %.2f into your account", body.Amount)
	return model.Success(ctx, msg, http.StatusOK)
}

// GetAllTransactions lists payment transactions. Admins see every transaction; other users only see the transactions
// for their own account.
func (s Server) GetAllTransactions(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing transactions"})

	context := ctx.Request().Context()

	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	accountID := ""
	if !user.Role.ManagesPlatform() {
		account, err := db.GetBillingAccount(context, s.GORMDB, *user.ID)
		if err != nil {
			return model.BusinessError(ctx, err)
		}
		accountID = *account.ID
	}

	transactions, err := db.ListTransactions(context, s.GORMDB, accountID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	return model.Success(ctx, transactions, http.StatusOK)
}
