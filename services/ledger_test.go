package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambuildf/oraville-backend/models"
)

func TestTotalPointsMatchesSumOfTransactions(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	user := createUser(t, db, "Ada")

	deltas := []int{10, 25, -5, 50, 5}
	want := 0
	for _, d := range deltas {
		_, err := ledger.Append(TransactionParams{
			UserID:      user.ID,
			Points:      d,
			Type:        models.TxTaskCompletion,
			Description: "test delta",
		})
		require.NoError(t, err)
		want += d
	}

	total, err := ledger.TotalPoints(user.ID)
	require.NoError(t, err)
	assert.Equal(t, want, total)

	// Recompute independently from the raw rows
	var raw []models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&raw).Error)
	sum := 0
	for _, tx := range raw {
		sum += tx.Points
	}
	assert.Equal(t, sum, total)
}

func TestTotalPointsZeroForUnknownUser(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)

	total, err := ledger.TotalPoints(9999)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestAppendStoresMetadata(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	user := createUser(t, db, "Bea")

	record, err := ledger.Append(TransactionParams{
		UserID:      user.ID,
		Points:      20,
		Type:        models.TxTaskCompletion,
		Description: "Completed: Face Scan Verification",
		Metadata:    map[string]interface{}{"task_action": "FACE_SCAN"},
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.JSONEq(t, `{"task_action":"FACE_SCAN"}`, record.Metadata)
}

func TestListTransactionsPagination(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	user := createUser(t, db, "Cal")

	for i := 1; i <= 45; i++ {
		_, err := ledger.Append(TransactionParams{
			UserID:      user.ID,
			Points:      i,
			Type:        models.TxTaskCompletion,
			Description: fmt.Sprintf("tx-%d", i),
		})
		require.NoError(t, err)
	}

	items, pagination, err := ledger.ListTransactions(user.ID, 2, 20)
	require.NoError(t, err)
	assert.Len(t, items, 20)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, int64(45), pagination.TotalItems)

	// Newest first: page 2 of 20 starts at the 25th most recent insert
	assert.Equal(t, "tx-25", items[0].Description)
	assert.Equal(t, "tx-6", items[19].Description)

	// Last page holds the remainder
	items, pagination, err = ledger.ListTransactions(user.ID, 3, 20)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestListTransactionsEmpty(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	user := createUser(t, db, "Dee")

	items, pagination, err := ledger.ListTransactions(user.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), pagination.TotalItems)
	assert.Equal(t, 0, pagination.TotalPages)
}

func TestLatestTransaction(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	user := createUser(t, db, "Eve")

	latest, err := ledger.LatestTransaction(user.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 1; i <= 3; i++ {
		_, err := ledger.Append(TransactionParams{
			UserID:      user.ID,
			Points:      i,
			Type:        models.TxTaskCompletion,
			Description: fmt.Sprintf("tx-%d", i),
		})
		require.NoError(t, err)
	}

	latest, err = ledger.LatestTransaction(user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "tx-3", latest.Description)
}
