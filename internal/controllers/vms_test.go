package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignVMTargetWithoutAccount(t *testing.T) {
	s, mock := newMockServer(t, nil)

	ownerID := "11111111-1111-1111-1111-111111111111"
	vmID := "66666666-6666-6666-6666-666666666666"
	targetID := "77777777-7777-7777-7777-777777777777"

	expectUserLookup(mock, "sarah", ownerID)

	// The machine is loaded along with its owner.
	mock.ExpectQuery(`SELECT (.+) FROM "virtual_machines" WHERE id =`).
		WithArgs(vmID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "disk_size", "is_active"}).
			AddRow(vmID, "VMC12ABCD", ownerID, 200, true))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow(ownerID, "sarah", "customer"))

	// The target is a guest who was never provisioned with a billing account. The missing account is reported
	// as a missing subscription, not as a lookup failure.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE id =`).
		WithArgs(targetID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow(targetID, "visitor", "guest"))
	mock.ExpectQuery(`SELECT (.+) FROM "billing_accounts" WHERE user_id =`).
		WithArgs(targetID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount"}))
	mock.ExpectRollback()

	ctx, rec := newJSONContext(
		t,
		http.MethodPost,
		"/v1/vms/"+vmID+"/assign",
		"sarah",
		fmt.Sprintf(`{"user_id":"%s"}`, targetID),
	)
	ctx.SetParamNames("vm_id")
	ctx.SetParamValues(vmID)
	require.NoError(t, s.AssignVM(ctx))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "no active subscription")
	assert.NoError(t, mock.ExpectationsWereMet())
}
