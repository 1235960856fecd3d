package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/autovm/autovm/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB builds a gorm connection backed by sqlmock so that the query helpers can be tested without a database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	gormdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqldb}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	return gormdb, mock
}

func TestGetRatePlan(t *testing.T) {
	gormdb, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "vm_limit", "backup_limit"}).
		AddRow("0193b4a2-0000-0000-0000-000000000001", "bronze", 200.0, 2, 2)
	mock.ExpectQuery(`SELECT (.+) FROM "rate_plans" WHERE name =`).
		WithArgs("bronze", 1).
		WillReturnRows(rows)

	plan, err := GetRatePlan(context.Background(), gormdb, "bronze")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "bronze", plan.Name)
	assert.Equal(t, float64(200), plan.Price)
	assert.Equal(t, 2, plan.VMLimit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRatePlanNotFound(t *testing.T) {
	gormdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "rate_plans" WHERE name =`).
		WithArgs("diamond", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "vm_limit", "backup_limit"}))

	// A missing plan is not an error; the caller decides how to report it.
	plan, err := GetRatePlan(context.Background(), gormdb, "diamond")
	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBillingAccountNotFound(t *testing.T) {
	gormdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "billing_accounts" WHERE user_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount"}))

	_, err := GetBillingAccount(context.Background(), gormdb, "0193b4a2-0000-0000-0000-000000000002")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountVMsForUser(t *testing.T) {
	gormdb, mock := newMockDB(t)

	userID := "0193b4a2-0000-0000-0000-000000000003"
	mock.ExpectQuery(`SELECT count\(\*\) FROM "virtual_machines" WHERE user_id =`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	count, err := CountVMsForUser(context.Background(), gormdb, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVMsActiveFilter(t *testing.T) {
	gormdb, mock := newMockDB(t)

	userID := "0193b4a2-0000-0000-0000-000000000008"
	mock.ExpectQuery(`SELECT (.+) FROM "virtual_machines" WHERE user_id = (.+) AND is_active =`).
		WithArgs(userID, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "disk_size", "is_active"}))

	isActive := true
	vms, err := ListVMs(context.Background(), gormdb, userID, &isActive)
	require.NoError(t, err)
	assert.Empty(t, vms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGuestsForCustomer(t *testing.T) {
	gormdb, mock := newMockDB(t)

	customerID := "0193b4a2-0000-0000-0000-000000000009"
	mock.ExpectQuery(`SELECT (.+) FROM "guests" WHERE customer_id =`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "customer_id", "status"}))

	guests, err := ListGuests(context.Background(), gormdb, customerID)
	require.NoError(t, err)
	assert.Empty(t, guests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountBackupsForVM(t *testing.T) {
	gormdb, mock := newMockDB(t)

	vmID := "0193b4a2-0000-0000-0000-000000000004"
	mock.ExpectQuery(`SELECT count\(\*\) FROM "backups" WHERE vm_id =`).
		WithArgs(vmID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	count, err := CountBackupsForVM(context.Background(), gormdb, vmID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationRead(t *testing.T) {
	gormdb, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := MarkNotificationRead(
		context.Background(),
		gormdb,
		"0193b4a2-0000-0000-0000-000000000005",
		"0193b4a2-0000-0000-0000-000000000006",
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationReadWrongUser(t *testing.T) {
	gormdb, mock := newMockDB(t)

	// Updating a notification that belongs to another user touches no rows and is reported as not found.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := MarkNotificationRead(
		context.Background(),
		gormdb,
		"0193b4a2-0000-0000-0000-000000000005",
		"0193b4a2-0000-0000-0000-000000000007",
	)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
