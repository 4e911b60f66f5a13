package services

import (
	"gorm.io/gorm"

	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

// LeaderboardService answers ranking queries. Both boards are pure
// aggregations: referrals over the user table's referral edges, points over
// the ledger.
type LeaderboardService struct {
	db *gorm.DB
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// ReferralEntry is one row of the weekly referral board.
type ReferralEntry struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Referrals int64  `json:"referrals"`
	AvatarURL string `json:"avatar_url"`
}

// AmbassadorEntry is one row of the all-time points board.
type AmbassadorEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	AvatarURL   string `json:"avatar_url"`
}

type referralCount struct {
	ReferredByID uint
	Total        int64
}

// WeeklyReferrals ranks users by referrals signed up during the current
// Sunday-to-Saturday week.
func (s *LeaderboardService) WeeklyReferrals(limit int) ([]ReferralEntry, error) {
	weekStart, weekEnd := utils.CurrentWeekBounds()

	var counts []referralCount
	err := s.db.Model(&models.User{}).
		Where("referred_by_id IS NOT NULL AND created_at BETWEEN ? AND ?", weekStart, weekEnd).
		Select("referred_by_id, COUNT(*) AS total").
		Group("referred_by_id").
		Order("total DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	users, err := s.usersByID(referrerIDs(counts))
	if err != nil {
		return nil, err
	}

	entries := make([]ReferralEntry, 0, len(counts))
	for i, c := range counts {
		entry := ReferralEntry{Rank: i + 1, Name: "Unknown", Referrals: c.Total}
		if user, ok := users[c.ReferredByID]; ok {
			entry.Name = DisplayName(user.FirstName, user.LastName)
			entry.AvatarURL = user.AvatarURL
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type pointsSum struct {
	UserID uint
	Total  int64
}

// Ambassadors ranks users by their all-time point balance, computed as the
// group-by sum over the ledger.
func (s *LeaderboardService) Ambassadors(limit int) ([]AmbassadorEntry, error) {
	var sums []pointsSum
	err := s.db.Model(&models.Transaction{}).
		Select("user_id, COALESCE(SUM(points), 0) AS total").
		Group("user_id").
		Order("total DESC").
		Limit(limit).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(sums))
	for _, s := range sums {
		ids = append(ids, s.UserID)
	}
	users, err := s.usersByID(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]AmbassadorEntry, 0, len(sums))
	for i, sum := range sums {
		entry := AmbassadorEntry{Rank: i + 1, Name: "Unknown", TotalPoints: int(sum.Total)}
		if user, ok := users[sum.UserID]; ok {
			entry.Name = DisplayName(user.FirstName, user.LastName)
			entry.AvatarURL = user.AvatarURL
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// TopWeeklyReferrer returns this week's leading referrer, or nil when nobody
// referred anyone yet.
func (s *LeaderboardService) TopWeeklyReferrer() (*ReferralEntry, error) {
	entries, err := s.WeeklyReferrals(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (s *LeaderboardService) usersByID(ids []uint) (map[uint]models.User, error) {
	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func referrerIDs(counts []referralCount) []uint {
	ids := make([]uint, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.ReferredByID)
	}
	return ids
}
