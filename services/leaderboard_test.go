package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

func TestAmbassadorsRankedByLedgerSum(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewLeaderboardService(db)

	scores := map[string]int{"Ana": 30, "Ben": 90, "Cyd": 60}
	for name, points := range scores {
		user := createUser(t, db, name)
		for _, d := range []int{points / 3, points / 3, points / 3} {
			_, err := ledger.Append(TransactionParams{
				UserID:      user.ID,
				Points:      d,
				Type:        models.TxTaskCompletion,
				Description: "test",
			})
			require.NoError(t, err)
		}
	}

	entries, err := svc.Ambassadors(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Ben", entries[0].Name)
	assert.Equal(t, 90, entries[0].TotalPoints)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Cyd", entries[1].Name)
	assert.Equal(t, "Ana", entries[2].Name)
}

func TestWeeklyReferralsRankedByCount(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	users := NewUserService(db, ledger)
	svc := NewLeaderboardService(db)

	alpha := createUser(t, db, "Alpha")
	beta := createUser(t, db, "Beta")

	tg := int64(556000)
	for i := 0; i < 3; i++ {
		tg++
		_, _, err := users.FindOrCreateTelegramUser(&utils.TelegramUser{ID: tg, FirstName: "Ref"}, alpha.ReferralCode)
		require.NoError(t, err)
	}
	tg++
	_, _, err := users.FindOrCreateTelegramUser(&utils.TelegramUser{ID: tg, FirstName: "Ref"}, beta.ReferralCode)
	require.NoError(t, err)

	entries, err := svc.WeeklyReferrals(5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alpha", entries[0].Name)
	assert.Equal(t, int64(3), entries[0].Referrals)
	assert.Equal(t, "Beta", entries[1].Name)

	top, err := svc.TopWeeklyReferrer()
	require.NoError(t, err)
	require.NotNil(t, top)
	assert.Equal(t, "Alpha", top.Name)
}

func TestTopWeeklyReferrerEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	top, err := svc.TopWeeklyReferrer()
	require.NoError(t, err)
	assert.Nil(t, top)
}
