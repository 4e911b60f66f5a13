package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

const (
	weeklyReferralsCacheKey = "leaderboard:weekly_referrals"
	ambassadorsCacheKey     = "leaderboard:ambassadors"
	leaderboardCacheTTL     = 5 * time.Minute

	weeklyReferralsLimit = 5
	ambassadorsLimit     = 10
)

// LeaderboardController serves the public ranking endpoints. Responses are
// cached in Redis; the database remains the source of truth.
type LeaderboardController struct {
	leaderboard *services.LeaderboardService
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(leaderboard *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard}
}

// GetWeeklyReferrals returns the top referrers of the current week.
func (l *LeaderboardController) GetWeeklyReferrals(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(weeklyReferralsCacheKey); ok {
		utils.Success(ctx, json.RawMessage(b))
		return
	}

	entries, err := l.leaderboard.WeeklyReferrals(weeklyReferralsLimit)
	if err != nil {
		utils.Sugar.Errorf("weekly referral leaderboard failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to fetch leaderboard")
		return
	}

	utils.CacheSetJSON(weeklyReferralsCacheKey, entries, leaderboardCacheTTL)
	utils.Success(ctx, entries)
}

// GetAmbassadors returns the top users by all-time points.
func (l *LeaderboardController) GetAmbassadors(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(ambassadorsCacheKey); ok {
		utils.Success(ctx, json.RawMessage(b))
		return
	}

	entries, err := l.leaderboard.Ambassadors(ambassadorsLimit)
	if err != nil {
		utils.Sugar.Errorf("ambassadors leaderboard failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to fetch leaderboard")
		return
	}

	utils.CacheSetJSON(ambassadorsCacheKey, entries, leaderboardCacheTTL)
	utils.Success(ctx, entries)
}
