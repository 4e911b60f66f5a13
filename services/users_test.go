package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

func TestSignupWithValidReferralCode(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewUserService(db, ledger)
	referrer := createUser(t, db, "Bella")

	newcomer, created, err := svc.FindOrCreateTelegramUser(&utils.TelegramUser{
		ID:        555001,
		FirstName: "Alice",
		LastName:  "Moore",
		Username:  "alice",
	}, referrer.ReferralCode)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, newcomer.ReferredByID)
	assert.Equal(t, referrer.ID, *newcomer.ReferredByID)
	assert.NotEmpty(t, newcomer.ReferralCode)
	assert.NotEqual(t, referrer.ReferralCode, newcomer.ReferralCode)

	// Exactly two transactions: signup bonus for A, referral bonus for B
	var signup []models.Transaction
	require.NoError(t, db.Where("user_id = ?", newcomer.ID).Find(&signup).Error)
	require.Len(t, signup, 1)
	assert.Equal(t, models.TxReferralSignup, signup[0].Type)
	assert.Equal(t, 25, signup[0].Points)

	var bonus []models.Transaction
	require.NoError(t, db.Where("user_id = ?", referrer.ID).Find(&bonus).Error)
	require.Len(t, bonus, 1)
	assert.Equal(t, models.TxReferralBonus, bonus[0].Type)
	assert.Equal(t, 50, bonus[0].Points)
	assert.Contains(t, bonus[0].Description, "Alice")

	var total int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestSignupWithUnknownReferralCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewLedger(db))

	newcomer, created, err := svc.FindOrCreateTelegramUser(&utils.TelegramUser{
		ID:        555002,
		FirstName: "Bob",
	}, "NOPE9999")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, newcomer.ReferredByID)

	// Signup bonus still lands; nothing else does
	var all []models.Transaction
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, models.TxReferralSignup, all[0].Type)
	assert.Equal(t, newcomer.ID, all[0].UserID)
}

func TestFindOrCreateIsIdempotentPerTelegramID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewLedger(db))

	first, created, err := svc.FindOrCreateTelegramUser(&utils.TelegramUser{ID: 555003, FirstName: "Cara"}, "")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.FindOrCreateTelegramUser(&utils.TelegramUser{ID: 555003, FirstName: "Cara"}, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	// No second welcome bonus
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", first.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewLedger(db))
	user := createUser(t, db, "Dana")

	last := "Silva"
	country := "Brazil"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{LastName: &last, Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Dana", updated.FirstName)
	assert.Equal(t, "Silva", updated.LastName)
	assert.Equal(t, "Brazil", updated.Country)

	_, err = svc.UpdateProfile(987654, ProfileUpdate{Country: &country})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetReferralStats(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewUserService(db, ledger)
	user := createUser(t, db, "Elena")

	for _, tg := range []int64{555010, 555011, 555012} {
		_, _, err := svc.FindOrCreateTelegramUser(&utils.TelegramUser{ID: tg, FirstName: "Friend"}, user.ReferralCode)
		require.NoError(t, err)
	}

	stats, err := svc.GetReferralStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReferrals)
	assert.Equal(t, 150, stats.TotalReferralPoints)
	assert.Contains(t, stats.ReferralLink, user.ReferralCode)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", DisplayName("Ada", "Lovelace"))
	assert.Equal(t, "Ada", DisplayName("Ada", ""))
}
