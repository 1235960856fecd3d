package billing

import (
	"testing"

	"github.com/autovm/autovm/internal/model"
	"github.com/stretchr/testify/assert"
)

func plan(name string, price float64, vmLimit, backupLimit int) *model.RatePlan {
	return &model.RatePlan{
		Name:        name,
		Price:       price,
		VMLimit:     vmLimit,
		BackupLimit: backupLimit,
	}
}

func activeSubscription(p *model.RatePlan) *model.Subscription {
	return &model.Subscription{
		Plan:   p,
		Status: model.SubscriptionStatusActive,
	}
}

func TestPurchaseBalance(t *testing.T) {
	bronze := plan(model.PlanNameBronze, 200, 2, 2)
	silver := plan(model.PlanNameSilver, 600, 2, 2)

	// A bronze purchase against a balance of 1000 leaves 800.
	updated, err := PurchaseBalance(1000, bronze)
	assert.NoError(t, err)
	assert.Equal(t, float64(800), updated)

	// An exact balance is accepted and drained to zero.
	updated, err = PurchaseBalance(200, bronze)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), updated)

	// A silver purchase against a balance of 100 is rejected and the balance is unchanged.
	updated, err = PurchaseBalance(100, silver)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, float64(100), updated)
}

func TestCheckVMCreationAdminBypass(t *testing.T) {
	// Admins create machines with no subscription, while suspended, and over any limit.
	assert.NoError(t, CheckVMCreation(model.RoleAdmin, true, nil, 100))
}

func TestCheckVMCreation(t *testing.T) {
	gold := plan(model.PlanNameGold, 800, 3, 3)
	sub := activeSubscription(gold)

	// A customer with no active subscription is rejected before anything else.
	assert.ErrorIs(t, CheckVMCreation(model.RoleCustomer, false, nil, 0), model.ErrNoActiveSubscription)

	// A suspended customer is rejected even with a valid subscription.
	assert.ErrorIs(t, CheckVMCreation(model.RoleCustomer, true, sub, 0), model.ErrAccountSuspended)

	// Below the limit is allowed.
	assert.NoError(t, CheckVMCreation(model.RoleCustomer, false, sub, 2))

	// At the limit is rejected; the limit is a ceiling, not a target.
	assert.ErrorIs(t, CheckVMCreation(model.RoleCustomer, false, sub, 3), model.ErrVMLimitReached)
	assert.ErrorIs(t, CheckVMCreation(model.RoleCustomer, false, sub, 4), model.ErrVMLimitReached)
}

func TestCheckVMCreationSubscriptionWithoutPlan(t *testing.T) {
	// A subscription whose plan failed to load counts as no subscription.
	sub := &model.Subscription{Status: model.SubscriptionStatusActive}
	assert.ErrorIs(t, CheckVMCreation(model.RoleCustomer, false, sub, 0), model.ErrNoActiveSubscription)
}

func TestCheckBackupCreation(t *testing.T) {
	bronze := plan(model.PlanNameBronze, 200, 2, 2)
	sub := activeSubscription(bronze)

	// Suspension is checked before the subscription.
	assert.ErrorIs(t, CheckBackupCreation(true, nil, 0), model.ErrAccountSuspended)
	assert.ErrorIs(t, CheckBackupCreation(true, sub, 0), model.ErrAccountSuspended)

	// No subscription is rejected next.
	assert.ErrorIs(t, CheckBackupCreation(false, nil, 0), model.ErrNoActiveSubscription)

	// The backup limit applies per machine.
	assert.NoError(t, CheckBackupCreation(false, sub, 1))
	assert.ErrorIs(t, CheckBackupCreation(false, sub, 2), model.ErrBackupLimitReached)
}

func TestCheckAssignment(t *testing.T) {
	platinum := plan(model.PlanNamePlatinum, 1200, 8, 8)
	sub := activeSubscription(platinum)

	// The new owner needs an active subscription.
	assert.ErrorIs(t, CheckAssignment(nil, 0), model.ErrNoActiveSubscription)

	// The new owner needs room under their own plan.
	assert.NoError(t, CheckAssignment(sub, 7))
	assert.ErrorIs(t, CheckAssignment(sub, 8), model.ErrVMLimitReached)
}
