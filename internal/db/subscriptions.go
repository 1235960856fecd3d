package db

import (
	"context"
	"strings"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetActiveSubscription retrieves the subscription that is currently active for the billing account. At most one
// subscription per account is active at a time; the purchase flow enforces this by deactivating existing
// subscriptions before creating a new one. Returns nil if the account has no active subscription.
func GetActiveSubscription(ctx context.Context, db *gorm.DB, accountID string) (*model.Subscription, error) {
	wrapMsg := "unable to get the active subscription"
	var err error

	var subscription model.Subscription
	err = db.WithContext(ctx).
		Preload("Plan").
		Where("account_id = ?", accountID).
		Where("status = ?", model.SubscriptionStatusActive).
		Order("created_at desc").
		First(&subscription).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &subscription, nil
}

// GetActiveSubscriptionForUser resolves the billing account for the given user and returns the account together with
// its active subscription. The subscription is nil if there isn't an active one.
func GetActiveSubscriptionForUser(ctx context.Context, db *gorm.DB, userID string) (*model.BillingAccount, *model.Subscription, error) {
	account, err := GetBillingAccount(ctx, db, userID)
	if err != nil {
		return nil, nil, err
	}

	subscription, err := GetActiveSubscription(ctx, db, *account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, subscription, nil
}

// DeactivateSubscriptions marks every currently active subscription for an account as inactive. This operation is
// used when an account purchases a new plan.
func DeactivateSubscriptions(ctx context.Context, db *gorm.DB, accountID string) error {
	wrapMsg := "unable to deactivate active subscriptions for the account"

	err := db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("account_id = ?", accountID).
		Where("status = ?", model.SubscriptionStatusActive).
		UpdateColumn("status", model.SubscriptionStatusInactive).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// SubscribeAccountToPlan creates a new active subscription linking the account to the plan.
func SubscribeAccountToPlan(ctx context.Context, db *gorm.DB, account *model.BillingAccount, plan *model.RatePlan) (*model.Subscription, error) {
	wrapMsg := "unable to add the subscription"
	var err error

	subscription := model.Subscription{
		AccountID: account.ID,
		PlanID:    plan.ID,
		Status:    model.SubscriptionStatusActive,
	}
	err = db.WithContext(ctx).Create(&subscription).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &subscription, nil
}

// GetSubscriptionDetails loads the details for the subscription with the given ID, including the account, its owner,
// and the plan.
func GetSubscriptionDetails(ctx context.Context, db *gorm.DB, subscriptionID string) (*model.Subscription, error) {
	var subscription *model.Subscription

	err := db.WithContext(ctx).
		Preload("Account").
		Preload("Account.User").
		Preload("Plan").
		Where("id = ?", subscriptionID).
		First(&subscription).
		Error

	return subscription, err
}

// SubscriptionListingParams represents the parameters that can be used to customize a subscription listing.
type SubscriptionListingParams struct {
	Offset    int
	Limit     int
	SortField string
	SortDir   string
	Search    string
}

// ListSubscriptions lists subscriptions for multiple accounts.
func ListSubscriptions(ctx context.Context, db *gorm.DB, params *SubscriptionListingParams) ([]*model.Subscription, int64, error) {
	var subscriptions []*model.Subscription
	var count int64

	// Determine the offset and limit to use.
	var offset int = 0
	if params != nil && params.Offset >= 0 {
		offset = params.Offset
	}
	var limit int = 50
	if params != nil && params.Limit >= 0 {
		limit = params.Limit
	}

	// Determine the sort field and sort order to use.
	sortField := "users.username"
	if params != nil && params.SortField != "" {
		sortField = params.SortField
	}
	order := "asc"
	if params != nil && params.SortDir != "" {
		order = params.SortDir
	}
	orderBy := sortField + " " + order

	// Build the base query.
	baseQuery := db.WithContext(ctx).
		Model(&model.Subscription{}).
		Joins("JOIN billing_accounts ON subscriptions.account_id = billing_accounts.id").
		Joins("JOIN users ON billing_accounts.user_id = users.id").
		Preload("Account").
		Preload("Account.User").
		Preload("Plan")

	// Add the search clause if we're supposed to.
	if params != nil && params.Search != "" {
		search := strings.ReplaceAll(params.Search, "%", "\\%")
		search = strings.ReplaceAll(search, "_", "\\_")
		baseQuery = baseQuery.Where("users.username LIKE ?", "%"+search+"%")
	}

	// Count the number of items in the result set.
	err := baseQuery.Count(&count).Error

	// Look up the result set.
	if err == nil {
		err = baseQuery.
			Offset(offset).
			Limit(limit).
			Order(orderBy).
			Find(&subscriptions).Error
	}

	return subscriptions, count, err
}
