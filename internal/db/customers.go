package db

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProvisionProfile creates the role-specific profile row for the user if one doesn't exist already. Like billing
// accounts, profiles are provisioned explicitly at registration time.
func ProvisionProfile(ctx context.Context, db *gorm.DB, user *model.User) error {
	wrapMsg := "unable to provision the user profile"
	var err error

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}

	switch user.Role {
	case model.RoleAdmin:
		err = db.WithContext(ctx).Clauses(onConflict).Create(&model.GeneralAdmin{UserID: user.ID}).Error
	case model.RoleGuest:
		err = db.WithContext(ctx).Clauses(onConflict).Create(&model.Guest{UserID: user.ID, Status: model.GuestStatusActive}).Error
	default:
		err = db.WithContext(ctx).Clauses(onConflict).Create(&model.Customer{UserID: user.ID}).Error
	}
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// GetCustomer looks up the customer profile belonging to the given user.
func GetCustomer(ctx context.Context, db *gorm.DB, userID string) (*model.Customer, error) {
	wrapMsg := fmt.Sprintf("unable to look up the customer profile for user ID '%s'", userID)
	var err error

	var customer model.Customer
	err = db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.Wrap(model.ErrNotFound, "customer profile")
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &customer, nil
}

// ListCustomers lists the customer profiles along with their users.
func ListCustomers(ctx context.Context, db *gorm.DB) ([]model.Customer, error) {
	wrapMsg := "unable to list customers"

	var customers []model.Customer
	err := db.WithContext(ctx).Preload("User").Order("created_at desc").Find(&customers).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return customers, nil
}

// ListGuests lists the guest profiles, optionally restricted to the guests invited by a single customer.
func ListGuests(ctx context.Context, db *gorm.DB, customerID string) ([]model.Guest, error) {
	wrapMsg := "unable to list guests"

	query := db.WithContext(ctx).
		Preload("User").
		Preload("Customer").
		Preload("Customer.User").
		Order("created_at desc")
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var guests []model.Guest
	err := query.Find(&guests).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return guests, nil
}

// SetCustomerSuspended sets the suspension flag for a customer. Suspension only gates future mutating operations;
// resources that were already issued are unaffected.
func SetCustomerSuspended(ctx context.Context, db *gorm.DB, customerID string, suspended bool) error {
	wrapMsg := "unable to update the customer suspension flag"

	err := db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("suspended", suspended).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// AddToCustomerSpend adds the given amount to the customer's running total of money spent on the platform.
func AddToCustomerSpend(ctx context.Context, db *gorm.DB, userID string, amount float64) error {
	wrapMsg := "unable to update the customer spend total"

	err := db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_spent", gorm.Expr("total_spent + ?", amount)).
		Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

// GetCustomerStatistics summarizes the customer population.
func GetCustomerStatistics(ctx context.Context, db *gorm.DB) (*model.CustomerStatistics, error) {
	wrapMsg := "unable to gather customer statistics"
	var err error

	var stats model.CustomerStatistics
	err = db.WithContext(ctx).Model(&model.Customer{}).Count(&stats.Total).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	err = db.WithContext(ctx).Model(&model.Customer{}).Where("suspended = ?", true).Count(&stats.Suspended).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	stats.Active = stats.Total - stats.Suspended

	err = db.WithContext(ctx).Model(&model.Guest{}).Count(&stats.Guests).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &stats, nil
}
