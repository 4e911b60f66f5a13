package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/middleware"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// WalletController exposes transaction history and referral statistics.
type WalletController struct {
	ledger *services.Ledger
	users  *services.UserService
}

// NewWalletController creates a new controller instance.
func NewWalletController(ledger *services.Ledger, users *services.UserService) *WalletController {
	return &WalletController{ledger: ledger, users: users}
}

// GetTransactions returns a page of the user's ledger history.
func (w *WalletController) GetTransactions(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	items, pagination, err := w.ledger.ListTransactions(userID, page, limit)
	if err != nil {
		utils.Sugar.Errorf("transaction list failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to fetch transactions")
		return
	}

	utils.Success(ctx, gin.H{
		"transactions": items,
		"pagination":   pagination,
	})
}

// GetReferrals returns the user's shareable link and referral earnings.
func (w *WalletController) GetReferrals(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := w.users.GetReferralStats(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "user not found")
			return
		}
		utils.Sugar.Errorf("referral stats failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to fetch referral data")
		return
	}
	utils.Success(ctx, stats)
}
