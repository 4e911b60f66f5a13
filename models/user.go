package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an app member bound to a Telegram account. Points are never stored
// on the user row; a balance is always the sum of the user's Transaction rows.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TelegramID   int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FirstName    string    `gorm:"size:64;not null" json:"first_name"`
	LastName     string    `gorm:"size:64" json:"last_name"`
	Username     string    `gorm:"size:64" json:"username"`
	Country      string    `gorm:"size:100" json:"country"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	ReferralCode string    `gorm:"size:16;uniqueIndex;not null" json:"referral_code"`
	ReferredByID *uint     `gorm:"index" json:"referred_by_id"`
	ReferredBy   *User     `gorm:"foreignKey:ReferredByID" json:"-"`
	Referrals    []User    `gorm:"foreignKey:ReferredByID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
