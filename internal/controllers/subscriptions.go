package controllers

import (
	"fmt"
	"net/http"

	"github.com/autovm/autovm/internal/billing"
	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/httpmodel"
	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/internal/query"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PurchaseSubscription subscribes the requesting user's account to a rate plan, charging the plan price against the
// account balance. The whole purchase is a single database transaction: if the balance would go negative, or the
// payment can't be recorded, nothing is changed.
//
// swagger:route POST /v1/subscriptions subscriptions purchaseSubscription
//
// # Purchase Subscription
//
// Subscribes the requesting user to the named rate plan.
//
// Responses:
//
//	200: subscriptionResponse
func (s Server) PurchaseSubscription(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "purchase-subscription"})
	context := ctx.Request().Context()

	// Resolve the requesting user.
	user, err := s.RequestingUser(ctx)
	if err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"user": user.Username})

	// Parse and validate the request body.
	var body httpmodel.NewSubscription
	if err = ctx.Bind(&body); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err)
		log.Error(msg)
		return model.Error(ctx, msg, http.StatusBadRequest)
	}
	if err = body.Validate(); err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"plan": body.PlanName})

	// Run the purchase.
	var subscription *model.Subscription
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		var err error

		// Verify that a plan with the given name exists.
		plan, err := db.GetRatePlan(context, tx, body.PlanName)
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("plan name `%s` not found: %w", body.PlanName, model.ErrNotFound)
		}

		// Resolve the user's billing account.
		account, err := db.GetBillingAccount(context, tx, *user.ID)
		if err != nil {
			return err
		}

		// The balance check happens before any mutation. A rejected purchase leaves the account untouched.
		updatedBalance, err := billing.PurchaseBalance(account.Amount, plan)
		if err != nil {
			log.Infof("user %s has insufficient funds for the %s plan", user.Username, plan.Name)
			return err
		}

		// Supersede any currently active subscription and create the new one.
		if err = db.DeactivateSubscriptions(context, tx, *account.ID); err != nil {
			return err
		}
		subscription, err = db.SubscribeAccountToPlan(context, tx, account, plan)
		if err != nil {
			return err
		}

		// Charge the gateway and record the payment.
		details, err := s.Payments.MakePayment(plan.Price, "Payment for subscription")
		if err != nil {
			return err
		}
		if _, err = db.RecordTransaction(context, tx, account, plan.Price, details); err != nil {
			return err
		}

		// Persist the decremented balance and the customer's running spend total.
		if err = db.UpdateAccountBalance(context, tx, *account.ID, updatedBalance); err != nil {
			return err
		}
		if err = db.AddToCustomerSpend(context, tx, *user.ID, plan.Price); err != nil {
			return err
		}

		// Load the subscription details for the response.
		subscription, err = db.GetSubscriptionDetails(context, tx, *subscription.ID)
		return err
	})
	if err != nil {
		log.Error(err)
		return model.BusinessError(ctx, err)
	}

	log.Infof("user %s subscribed to the %s plan", user.Username, body.PlanName)

	return model.Success(ctx, subscription, http.StatusOK)
}

// ListSubscriptions is the handler for the GET /v1/subscriptions endpoint.
//
// swagger:route GET /v1/subscriptions subscriptions listSubscriptions
//
// # List Subscriptions
//
// Lists existing subscriptions.
//
// Responses:
//
//	200: subscriptionListing
func (s Server) ListSubscriptions(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "list-subscriptions"})
	context := ctx.Request().Context()

	// Only admins may list subscriptions across accounts.
	if _, err = s.RequireAdmin(ctx); err != nil {
		return nil
	}

	// Extract the query parameters.
	var offset int32 = 0
	offset, err = query.ValidateIntQueryParam(ctx, "offset", &offset, "gte=0")
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	var limit int32 = 50
	limit, err = query.ValidateIntQueryParam(ctx, "limit", &limit, "gte=0")
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	sortField := "username"
	validSortFields := []string{"username", "created", "plan"}
	sortField, err = query.ValidateEnumQueryParam(ctx, "sort-field", validSortFields, &sortField)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	sortOrder, err := query.ValidateSortOrder(ctx)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	search := ctx.QueryParam("search")

	// Determine the sort field to pass to the database.
	dbSortFieldFor := map[string]string{
		"username": "users.username",
		"created":  "subscriptions.created_at",
		"plan":     "subscriptions.plan_id",
	}
	dbSortField, ok := dbSortFieldFor[sortField]
	if !ok {
		err := fmt.Errorf("sort field name inconsistency detected for %s: please contact support", sortField)
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	// Obtain the subscription listing.
	var subscriptions []*model.Subscription
	var count int64
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		params := &db.SubscriptionListingParams{
			Offset:    int(offset),
			Limit:     int(limit),
			SortField: dbSortField,
			SortDir:   sortOrder,
			Search:    search,
		}
		subscriptions, count, err = db.ListSubscriptions(context, tx, params)
		return err
	})
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	// Build the result.
	return model.Success(
		ctx,
		&model.SubscriptionListing{
			Subscriptions: subscriptions,
			Total:         count,
		},
		http.StatusOK,
	)
}
