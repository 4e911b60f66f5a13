package models

import "time"

// Transaction types. The column is free-form so future point sources can be
// added without a migration.
const (
	TxTaskCompletion = "TASK_COMPLETION"
	TxReferralSignup = "REFERRAL_SIGNUP"
	TxReferralBonus  = "REFERRAL_BONUS"
)

// Transaction is one immutable point delta in the ledger. Rows are only ever
// inserted; balances are computed by SUM(points), never cached.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Points      int       `gorm:"not null" json:"points"`
	Type        string    `gorm:"size:32;not null;index" json:"type"`
	Description string    `gorm:"size:255" json:"description"`
	Metadata    string    `gorm:"type:json" json:"metadata"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
