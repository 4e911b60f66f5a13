package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

// referralCodeAttempts bounds retries when a freshly generated code collides.
const referralCodeAttempts = 5

// UserService manages account creation and profile state. Signup bonuses go
// through the ledger inside the same transaction that creates the user, so a
// failed bonus write rolls the account back too.
type UserService struct {
	db     *gorm.DB
	ledger *Ledger
}

// NewUserService creates a UserService sharing the ledger for bonus awards.
func NewUserService(db *gorm.DB, ledger *Ledger) *UserService {
	return &UserService{db: db, ledger: ledger}
}

// FindOrCreateTelegramUser resolves a verified Telegram identity to a local
// account, creating one on first sight. New accounts get a unique referral
// code, a welcome bonus, and, when the supplied referral code matches an
// existing user, a referral edge plus a bonus for the referrer. An unknown
// referral code is ignored; signup still succeeds.
func (s *UserService) FindOrCreateTelegramUser(tg *utils.TelegramUser, referralCode string) (*models.User, bool, error) {
	var user models.User
	err := s.db.Where("telegram_id = ?", tg.ID).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cfg := config.Get()

	var referrer *models.User
	if code := strings.TrimSpace(referralCode); code != "" {
		var found models.User
		if err := s.db.Where("referral_code = ?", code).First(&found).Error; err == nil {
			referrer = &found
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	created := models.User{
		TelegramID: tg.ID,
		FirstName:  tg.FirstName,
		LastName:   tg.LastName,
		Username:   tg.Username,
	}
	if referrer != nil {
		created.ReferredByID = &referrer.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var createErr error
		for attempt := 0; attempt < referralCodeAttempts; attempt++ {
			created.ReferralCode = utils.NewReferralCode()
			createErr = tx.Create(&created).Error
			if createErr == nil {
				break
			}
			if !isUniqueViolation(createErr) {
				return createErr
			}
			// Possibly a duplicate telegram_id from a concurrent signup
			var existing models.User
			if err := tx.Where("telegram_id = ?", tg.ID).First(&existing).Error; err == nil {
				created = existing
				return errConcurrentSignup
			}
		}
		if createErr != nil {
			return createErr
		}

		if _, err := s.ledger.AppendIn(tx, TransactionParams{
			UserID:      created.ID,
			Points:      cfg.ReferralSignupBonus,
			Type:        models.TxReferralSignup,
			Description: "Welcome bonus!",
		}); err != nil {
			return err
		}

		if referrer != nil {
			if _, err := s.ledger.AppendIn(tx, TransactionParams{
				UserID:      referrer.ID,
				Points:      cfg.ReferralReferrerBonus,
				Type:        models.TxReferralBonus,
				Description: "Referral Bonus from " + created.FirstName,
				Metadata:    map[string]interface{}{"referred_user_id": created.ID},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errConcurrentSignup) {
		return &created, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

var errConcurrentSignup = errors.New("user created concurrently")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// GetUser loads a user by id.
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries optional profile field changes; nil means unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Country   *string
}

// UpdateProfile applies the provided fields and returns the fresh user row.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	changes := map[string]interface{}{}
	if update.FirstName != nil {
		changes["first_name"] = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		changes["last_name"] = strings.TrimSpace(*update.LastName)
	}
	if update.Country != nil {
		changes["country"] = strings.TrimSpace(*update.Country)
	}

	if len(changes) > 0 {
		res := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return s.GetUser(userID)
}

// SetAvatar persists the public avatar URL after a confirmed upload.
func (s *UserService) SetAvatar(userID uint, avatarURL string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", avatarURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ReferralStats summarizes a user's referral performance.
type ReferralStats struct {
	ReferralLink        string `json:"referral_link"`
	TotalReferrals      int64  `json:"total_referrals"`
	TotalReferralPoints int    `json:"total_referral_points"`
}

// GetReferralStats builds the shareable link, total referred users, and the
// points earned from REFERRAL_BONUS transactions.
func (s *UserService) GetReferralStats(userID uint) (*ReferralStats, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Model(&models.User{}).Where("referred_by_id = ?", userID).Count(&count).Error
	if err != nil {
		return nil, err
	}

	var bonusPoints int64
	err = s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TxReferralBonus).
		Select("COALESCE(SUM(points), 0)").
		Scan(&bonusPoints).Error
	if err != nil {
		return nil, err
	}

	cfg := config.Get()
	return &ReferralStats{
		ReferralLink:        cfg.ReferralBaseURL + "?startapp=" + user.ReferralCode,
		TotalReferrals:      count,
		TotalReferralPoints: int(bonusPoints),
	}, nil
}

// DisplayName renders "First Last", dropping an empty last name.
func DisplayName(firstName, lastName string) string {
	if lastName == "" {
		return firstName
	}
	return firstName + " " + lastName
}
