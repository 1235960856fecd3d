package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/autovm/autovm/internal/payments"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubPayments stands in for the payment gateway in handler tests.
type stubPayments struct {
	err error
}

func (c stubPayments) MakePayment(amount float64, description string) (*payments.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &payments.Result{
		TransactionNo: "TX12345678",
		ReceiptNo:     "RC12345678",
		PaymentRef:    "PR12345678",
		PaymentMethod: "CARD",
		Status:        "completed",
		Description:   description,
	}, nil
}

// newMockServer builds a Server backed by sqlmock so that handlers can be tested end to end without a database.
func newMockServer(t *testing.T, paymentErr error) (Server, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	gormdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqldb}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	s := Server{
		GORMDB:   gormdb,
		Service:  "autovm",
		Payments: stubPayments{err: paymentErr},
	}
	return s, mock
}

func newJSONContext(t *testing.T, method, target, username, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(RemoteUserHeader, username)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// expectUserLookup queues the query that resolves the requesting user from the remote user header.
func expectUserLookup(mock sqlmock.Sqlmock, username, userID string) {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "name", "role"}).
		AddRow(userID, username, username+"@example.org", "", "customer")
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE username =`).
		WithArgs(username, 1).
		WillReturnRows(rows)
}

const (
	purchaseUserID         = "11111111-1111-1111-1111-111111111111"
	purchaseAccountID      = "22222222-2222-2222-2222-222222222222"
	purchasePlanID         = "33333333-3333-3333-3333-333333333333"
	purchaseSubscriptionID = "44444444-4444-4444-4444-444444444444"
)

func expectPurchaseChecks(mock sqlmock.Sqlmock, planName string, price, balance float64) {
	mock.ExpectQuery(`SELECT (.+) FROM "rate_plans" WHERE name =`).
		WithArgs(planName, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "vm_limit", "backup_limit"}).
			AddRow(purchasePlanID, planName, price, 2, 2))
	mock.ExpectQuery(`SELECT (.+) FROM "billing_accounts" WHERE user_id =`).
		WithArgs(purchaseUserID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount"}).
			AddRow(purchaseAccountID, purchaseUserID, balance))
}

func TestPurchaseSubscription(t *testing.T) {
	s, mock := newMockServer(t, nil)

	expectUserLookup(mock, "sarah", purchaseUserID)

	mock.ExpectBegin()
	expectPurchaseChecks(mock, "bronze", 200.0, 1000.0)

	// Existing active subscriptions are deactivated before the new one is created, keeping at most one
	// subscription per account active. The expectations are ordered, so a create-before-deactivate would fail.
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(purchaseSubscriptionID))

	// Exactly one transaction is recorded and the balance and spend totals are persisted.
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("55555555-5555-5555-5555-555555555555"))
	mock.ExpectExec(`UPDATE "billing_accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The subscription details are reloaded for the response.
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE id =`).
		WithArgs(purchaseSubscriptionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "plan_id", "status"}).
			AddRow(purchaseSubscriptionID, purchaseAccountID, purchasePlanID, "active"))
	mock.ExpectQuery(`SELECT (.+) FROM "billing_accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount"}).
			AddRow(purchaseAccountID, purchaseUserID, 800.0))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(purchaseUserID, "sarah"))
	mock.ExpectQuery(`SELECT (.+) FROM "rate_plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "vm_limit", "backup_limit"}).
			AddRow(purchasePlanID, "bronze", 200.0, 2, 2))
	mock.ExpectCommit()

	ctx, rec := newJSONContext(t, http.MethodPost, "/v1/subscriptions", "sarah", `{"plan_name":"bronze"}`)
	require.NoError(t, s.PurchaseSubscription(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"active"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseSubscriptionInsufficientFunds(t *testing.T) {
	s, mock := newMockServer(t, nil)

	expectUserLookup(mock, "sarah", purchaseUserID)

	// The balance check rejects the purchase before anything is mutated: the transaction rolls back with no
	// subscription updates, no inserts, and no balance change.
	mock.ExpectBegin()
	expectPurchaseChecks(mock, "silver", 600.0, 100.0)
	mock.ExpectRollback()

	ctx, rec := newJSONContext(t, http.MethodPost, "/v1/subscriptions", "sarah", `{"plan_name":"silver"}`)
	require.NoError(t, s.PurchaseSubscription(ctx))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseSubscriptionPaymentFailureRollsBack(t *testing.T) {
	s, mock := newMockServer(t, fmt.Errorf("the payment gateway is unreachable"))

	expectUserLookup(mock, "sarah", purchaseUserID)

	// The gateway call fails after the new subscription row is created; the whole purchase rolls back, leaving
	// the previous subscriptions and the balance untouched.
	mock.ExpectBegin()
	expectPurchaseChecks(mock, "bronze", 200.0, 1000.0)
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(purchaseSubscriptionID))
	mock.ExpectRollback()

	ctx, rec := newJSONContext(t, http.MethodPost, "/v1/subscriptions", "sarah", `{"plan_name":"bronze"}`)
	require.NoError(t, s.PurchaseSubscription(ctx))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
