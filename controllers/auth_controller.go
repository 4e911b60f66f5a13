package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// AuthController handles Telegram mini app authentication.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates a new controller instance.
func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type telegramAuthRequest struct {
	InitData     string `json:"initData" binding:"required"`
	ReferralCode string `json:"referralCode"`
}

// TelegramAuth verifies mini app init data, finds or creates the user, and
// issues a bearer token. No user row is created when verification fails.
func (a *AuthController) TelegramAuth(ctx *gin.Context) {
	var req telegramAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "initData is required")
		return
	}

	cfg := config.Get()
	if err := utils.VerifyTelegramInitData(req.InitData, cfg.TelegramBotToken); err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid telegram data")
		return
	}

	tgUser, err := utils.ParseTelegramUser(req.InitData)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "could not parse user data")
		return
	}

	user, created, err := a.users.FindOrCreateTelegramUser(tgUser, req.ReferralCode)
	if err != nil {
		utils.Sugar.Errorf("telegram auth failed for telegram_id=%d: %v", tgUser.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "authentication failed")
		return
	}
	if created {
		utils.Sugar.Infof("new user id=%d telegram_id=%d referred_by=%v", user.ID, user.TelegramID, user.ReferredByID)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token})
}
