package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teambuildf/oraville-backend/middleware"
	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// TaskController handles daily task endpoints.
type TaskController struct {
	tasks *services.TaskService
}

// NewTaskController creates a new controller instance.
func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// GetDailyTasks returns today's task list with completion status and progress.
func (t *TaskController) GetDailyTasks(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	result, err := t.tasks.GetUserDailyTasks(userID, time.Now().UTC())
	if err != nil {
		utils.Sugar.Errorf("daily tasks query failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to fetch tasks")
		return
	}
	utils.Success(ctx, result)
}

// CompleteTask marks a task done for today and awards its points.
func (t *TaskController) CompleteTask(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("taskId"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid task id")
		return
	}

	points, err := t.tasks.CompleteTask(userID, uint(taskID))
	if err != nil {
		t.respondCompletionError(ctx, userID, err)
		return
	}

	utils.Success(ctx, gin.H{
		"message":        "Task completed",
		"points_awarded": points,
	})
}

// VerifyFaceScan completes the face scan task resolved by its action. The
// scan itself is honor system for now.
func (t *TaskController) VerifyFaceScan(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	points, err := t.tasks.CompleteTaskByAction(userID, models.ActionFaceScan)
	if err != nil {
		t.respondCompletionError(ctx, userID, err)
		return
	}

	utils.Success(ctx, gin.H{
		"message":        "Face scan verified",
		"points_awarded": points,
	})
}

// GetCurrentStreak returns the user's consecutive-day completion count.
func (t *TaskController) GetCurrentStreak(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	streak, err := t.tasks.CalculateStreak(userID)
	if err != nil {
		utils.Sugar.Errorf("streak calculation failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to calculate streak")
		return
	}
	utils.Success(ctx, gin.H{"streak_in_days": streak})
}

func (t *TaskController) respondCompletionError(ctx *gin.Context, userID uint, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "task not found")
	case errors.Is(err, services.ErrTaskInactive):
		utils.Error(ctx, http.StatusBadRequest, 40011, "task is not active")
	case errors.Is(err, services.ErrTaskAlreadyCompleted):
		utils.Error(ctx, http.StatusConflict, 40910, "task already completed today")
	default:
		utils.Sugar.Errorf("task completion failed user=%d: %v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to complete task")
	}
}
