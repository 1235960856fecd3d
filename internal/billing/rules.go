// Package billing implements the quota and billing enforcement rules. The functions in this package are pure: they
// evaluate counts and balances that the caller has already loaded, and they report rejections using the business
// errors defined in the model package. All database access happens in the callers so that the rules can be tested
// in isolation.
package billing

import (
	"github.com/autovm/autovm/internal/model"
)

// PurchaseBalance computes the balance that would remain after purchasing the given plan. The purchase is rejected
// with ErrInsufficientFunds if the balance would go negative; the caller must not mutate any state in that case.
func PurchaseBalance(balance float64, plan *model.RatePlan) (float64, error) {
	updated := balance - plan.Price
	if updated < 0 {
		return balance, model.ErrInsufficientFunds
	}
	return updated, nil
}

// CheckVMCreation determines whether a user may create another virtual machine. Admins bypass all checks. Customers
// need an active subscription, must not be suspended, and must be below the plan's virtual machine limit.
func CheckVMCreation(role model.Role, suspended bool, sub *model.Subscription, vmCount int64) error {
	if role.BypassesQuotas() {
		return nil
	}
	if sub == nil || sub.Plan == nil {
		return model.ErrNoActiveSubscription
	}
	if suspended {
		return model.ErrAccountSuspended
	}
	if vmCount >= int64(sub.Plan.VMLimit) {
		return model.ErrVMLimitReached
	}
	return nil
}

// CheckBackupCreation determines whether another backup may be taken of a virtual machine. The subscription and
// suspension flag belong to the machine's owner; the backup count is for this specific machine.
func CheckBackupCreation(suspended bool, sub *model.Subscription, backupCount int64) error {
	if suspended {
		return model.ErrAccountSuspended
	}
	if sub == nil || sub.Plan == nil {
		return model.ErrNoActiveSubscription
	}
	if backupCount >= int64(sub.Plan.BackupLimit) {
		return model.ErrBackupLimitReached
	}
	return nil
}

// CheckAssignment determines whether a virtual machine may be assigned to a new owner. The subscription and count
// belong to the prospective owner.
func CheckAssignment(sub *model.Subscription, vmCount int64) error {
	if sub == nil || sub.Plan == nil {
		return model.ErrNoActiveSubscription
	}
	if vmCount >= int64(sub.Plan.VMLimit) {
		return model.ErrVMLimitReached
	}
	return nil
}
