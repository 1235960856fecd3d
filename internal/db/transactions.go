package db

import (
	"context"

	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/internal/payments"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RecordTransaction stores a payment event for the given account using the details returned by the payment gateway.
func RecordTransaction(ctx context.Context, db *gorm.DB, account *model.BillingAccount, amount float64, details *payments.Result) (*model.Transaction, error) {
	wrapMsg := "unable to record the transaction"
	var err error

	transaction := model.Transaction{
		AccountID:     account.ID,
		Amount:        amount,
		PaymentMethod: details.PaymentMethod,
		TransactionNo: details.TransactionNo,
		ReceiptNo:     details.ReceiptNo,
		PaymentRef:    details.PaymentRef,
		Description:   details.Description,
		Status:        details.Status,
	}
	err = db.WithContext(ctx).Create(&transaction).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &transaction, nil
}

// ListTransactions lists transactions, optionally restricted to a single billing account. Admins pass an empty
// account ID to list everything.
func ListTransactions(ctx context.Context, db *gorm.DB, accountID string) ([]model.Transaction, error) {
	wrapMsg := "unable to list transactions"

	query := db.WithContext(ctx).Preload("Account").Preload("Account.User").Order("created_at desc")
	if accountID != "" {
		query = query.Where("account_id = ?", accountID)
	}

	var transactions []model.Transaction
	err := query.Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return transactions, nil
}
