package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/teambuildf/oraville-backend/models"
)

// Ledger owns the append-only transaction table. Every point a user ever
// gains or loses goes through Append; balances exist only as SUM(points)
// over this table.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a Ledger on top of the given database handle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// TransactionParams describes one point delta to record. Points carry their
// sign; the ledger does not second-guess the caller's amount.
type TransactionParams struct {
	UserID      uint
	Points      int
	Type        string
	Description string
	Metadata    map[string]interface{}
}

// Append inserts one immutable transaction record.
func (l *Ledger) Append(params TransactionParams) (*models.Transaction, error) {
	return l.AppendIn(l.db, params)
}

// AppendIn inserts a transaction through the given handle, which may be a
// running gorm transaction. Callers that pair the append with other writes
// (task completion, signup bonuses) pass their tx so both commit atomically.
func (l *Ledger) AppendIn(tx *gorm.DB, params TransactionParams) (*models.Transaction, error) {
	meta := params.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	record := models.Transaction{
		UserID:      params.UserID,
		Points:      params.Points,
		Type:        params.Type,
		Description: params.Description,
		Metadata:    string(raw),
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// TotalPoints returns the sum of all point deltas for a user. Always computed
// by aggregation so the answer cannot drift from the transaction history.
func (l *Ledger) TotalPoints(userID uint) (int, error) {
	var total int64
	err := l.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// TransactionItem is one row of a user's wallet history.
type TransactionItem struct {
	Description string    `json:"description"`
	Points      int       `json:"points"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Pagination carries offset-pagination metadata.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
}

// LatestTransaction returns the user's most recent ledger entry, or nil when
// the user has no transactions.
func (l *Ledger) LatestTransaction(userID uint) (*TransactionItem, error) {
	var item TransactionItem
	err := l.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Select("description", "points", "type", "created_at").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListTransactions returns one page of a user's history, newest first, plus
// pagination metadata. The total count runs concurrently with the page fetch.
func (l *Ledger) ListTransactions(userID uint, page, pageSize int) ([]TransactionItem, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	countCh := make(chan error, 1)
	var total int64
	go func() {
		countCh <- l.db.Model(&models.Transaction{}).
			Where("user_id = ?", userID).
			Count(&total).Error
	}()

	var items []TransactionItem
	err := l.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Select("description", "points", "type", "created_at").
		Find(&items).Error
	if cErr := <-countCh; err == nil {
		err = cErr
	}
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return items, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
	}, nil
}
