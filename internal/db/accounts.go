package db

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProvisionBillingAccount creates a billing account for the user if one doesn't exist already. This happens once,
// when the user is registered; read paths never create accounts.
func ProvisionBillingAccount(ctx context.Context, db *gorm.DB, userID string) (*model.BillingAccount, error) {
	wrapMsg := "unable to provision the billing account"
	var err error

	account := model.BillingAccount{UserID: &userID}
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&account).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	if account.ID == nil {
		return GetBillingAccount(ctx, db, userID)
	}
	return &account, nil
}

// GetBillingAccount looks up the billing account belonging to the given user.
func GetBillingAccount(ctx context.Context, db *gorm.DB, userID string) (*model.BillingAccount, error) {
	wrapMsg := fmt.Sprintf("unable to look up the billing account for user ID '%s'", userID)
	var err error

	var account model.BillingAccount
	err = db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrap(model.ErrNotFound, "billing account")
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &account, nil
}

// UpdateAccountBalance persists a new balance for the given billing account.
func UpdateAccountBalance(ctx context.Context, db *gorm.DB, accountID string, amount float64) error {
	wrapMsg := "unable to update the account balance"

	err := db.WithContext(ctx).
		Model(&model.BillingAccount{}).
		Where("id = ?", accountID).
		UpdateColumn("amount", amount).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// DepositToAccount atomically adds the given amount to the account balance.
func DepositToAccount(ctx context.Context, db *gorm.DB, accountID string, amount float64) error {
	wrapMsg := "unable to deposit into the account"

	err := db.WithContext(ctx).
		Model(&model.BillingAccount{}).
		Where("id = ?", accountID).
		UpdateColumn("amount", gorm.Expr("amount + ?", amount)).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}
