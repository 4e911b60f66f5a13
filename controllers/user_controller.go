package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/middleware"
	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// UserController handles profile and avatar endpoints.
type UserController struct {
	users  *services.UserService
	ledger *services.Ledger
}

// NewUserController creates a new controller instance.
func NewUserController(users *services.UserService, ledger *services.Ledger) *UserController {
	return &UserController{users: users, ledger: ledger}
}

type profileResponse struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Username        string `json:"username"`
	Country         string `json:"country"`
	AvatarURL       string `json:"avatar_url"`
	GlowPointsTotal int    `json:"glow_points_total"`
}

// GetProfile returns the authenticated user's profile with aggregated points.
func (u *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := u.users.GetUser(userID)
	if err != nil {
		u.respondUserError(ctx, userID, err, 50030)
		return
	}

	total, err := u.ledger.TotalPoints(userID)
	if err != nil {
		utils.Sugar.Errorf("total points failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to fetch profile")
		return
	}

	utils.Success(ctx, buildProfile(user, total))
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	Country   *string `json:"country" binding:"omitempty,min=2,max=100"`
}

// UpdateProfile applies partial profile changes and returns the new profile.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid profile fields")
		return
	}

	user, err := u.users.UpdateProfile(userID, services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
	})
	if err != nil {
		u.respondUserError(ctx, userID, err, 50031)
		return
	}

	total, err := u.ledger.TotalPoints(userID)
	if err != nil {
		utils.Sugar.Errorf("total points failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update profile")
		return
	}

	utils.Success(ctx, buildProfile(user, total))
}

// GetAvatarUploadURL issues a presigned direct-upload target for an avatar.
func (u *UserController) GetAvatarUploadURL(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	contentType := ctx.DefaultQuery("contentType", "image/jpeg")
	uploadURL, key, err := utils.PresignAvatarUpload(ctx.Request.Context(), userID, contentType)
	if err != nil {
		if errors.Is(err, utils.ErrContentTypeNotAllowed) {
			utils.Error(ctx, http.StatusBadRequest, 40031, "invalid content type")
			return
		}
		utils.Sugar.Errorf("presign avatar failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to generate upload url")
		return
	}

	utils.Success(ctx, gin.H{
		"upload_url": uploadURL,
		"key":        key,
	})
}

type confirmAvatarRequest struct {
	Key string `json:"key" binding:"required"`
}

// ConfirmAvatar persists the public URL of an uploaded avatar object.
func (u *UserController) ConfirmAvatar(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req confirmAvatarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "key is required")
		return
	}
	if !utils.OwnsAvatarKey(req.Key, userID) {
		utils.Error(ctx, http.StatusBadRequest, 40033, "key does not belong to user")
		return
	}

	if err := u.users.SetAvatar(userID, utils.PublicObjectURL(req.Key)); err != nil {
		u.respondUserError(ctx, userID, err, 50033)
		return
	}
	utils.Success(ctx, gin.H{"message": "Avatar updated successfully"})
}

func buildProfile(user *models.User, total int) profileResponse {
	return profileResponse{
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Username:        user.Username,
		Country:         user.Country,
		AvatarURL:       user.AvatarURL,
		GlowPointsTotal: total,
	}
}

func (u *UserController) respondUserError(ctx *gin.Context, userID uint, err error, code int) {
	if errors.Is(err, services.ErrUserNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
		return
	}
	utils.Sugar.Errorf("user operation failed user=%d: %v", userID, err)
	utils.Error(ctx, http.StatusInternalServerError, code, "operation failed")
}
