package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/middleware"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// DashboardController aggregates the home screen payload.
type DashboardController struct {
	users       *services.UserService
	ledger      *services.Ledger
	leaderboard *services.LeaderboardService
}

// NewDashboardController creates a new controller instance.
func NewDashboardController(users *services.UserService, ledger *services.Ledger, leaderboard *services.LeaderboardService) *DashboardController {
	return &DashboardController{users: users, ledger: ledger, leaderboard: leaderboard}
}

// GetDashboard returns greeting, point balance, last activity, and the top
// weekly referrer in one payload.
func (d *DashboardController) GetDashboard(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := d.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "user not found")
			return
		}
		utils.Sugar.Errorf("dashboard user load failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to fetch dashboard data")
		return
	}

	total, err := d.ledger.TotalPoints(userID)
	if err != nil {
		utils.Sugar.Errorf("dashboard points failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to fetch dashboard data")
		return
	}

	last, err := d.ledger.LatestTransaction(userID)
	if err != nil {
		utils.Sugar.Errorf("dashboard activity failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to fetch dashboard data")
		return
	}

	var lastActivity gin.H
	if last != nil {
		lastActivity = gin.H{
			"description": last.Description,
			"points":      last.Points,
			"timestamp":   last.CreatedAt,
		}
	}

	// Best effort; the dashboard renders without it
	var topReferrer gin.H
	if top, err := d.leaderboard.TopWeeklyReferrer(); err != nil {
		utils.Sugar.Warnf("top weekly referrer lookup failed: %v", err)
	} else if top != nil {
		topReferrer = gin.H{"name": abbreviatedName(top.Name)}
	}

	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"greeting": utils.Greeting(user.FirstName),
		"user": gin.H{
			"first_name": user.FirstName,
			"avatar_url": user.AvatarURL,
		},
		"glow_points": gin.H{
			"total":                 total,
			"next_reward_threshold": cfg.NextRewardThreshold,
		},
		"last_activity":       lastActivity,
		"top_referrer_weekly": topReferrer,
	})
}

// abbreviatedName reduces "First Last" to "First L." for public display.
func abbreviatedName(full string) string {
	for i := 0; i < len(full); i++ {
		if full[i] == ' ' && i+1 < len(full) {
			return full[:i+2] + "."
		}
	}
	return full
}
