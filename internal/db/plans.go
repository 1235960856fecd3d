package db

import (
	"context"
	"fmt"

	"github.com/autovm/autovm/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListRatePlans lists all of the rate plans defined in the database.
func ListRatePlans(ctx context.Context, db *gorm.DB) ([]model.RatePlan, error) {
	wrapMsg := "unable to list rate plans"

	var plans []model.RatePlan
	err := db.WithContext(ctx).Order("price").Find(&plans).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return plans, nil
}

// GetRatePlan looks up the rate plan with the given name.
func GetRatePlan(ctx context.Context, db *gorm.DB, planName string) (*model.RatePlan, error) {
	wrapMsg := fmt.Sprintf("unable to look up plan name '%s'", planName)
	var err error

	var plan model.RatePlan
	err = db.WithContext(ctx).Where("name = ?", planName).First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &plan, nil
}

// GetRatePlanByID looks up the rate plan with the given identifier.
func GetRatePlanByID(ctx context.Context, db *gorm.DB, planID string) (*model.RatePlan, error) {
	wrapMsg := fmt.Sprintf("unable to look up plan ID '%s'", planID)
	var err error

	var plan model.RatePlan
	err = db.WithContext(ctx).Where("id = ?", planID).First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	return &plan, nil
}
