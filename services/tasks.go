package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

// Days are partitioned by UTC calendar date; the streak walk stops after a
// year regardless of data.
const maxStreakDays = 365

// TaskService drives the per-user-per-day task state machine and the streak
// calculation over its records.
type TaskService struct {
	db     *gorm.DB
	ledger *Ledger
}

// NewTaskService creates a TaskService sharing the ledger for point awards.
func NewTaskService(db *gorm.DB, ledger *Ledger) *TaskService {
	return &TaskService{db: db, ledger: ledger}
}

// CompleteTask flips today's (user, task) record from PENDING to COMPLETED and
// awards the task's points, both inside one database transaction. The flip is
// a conditional UPDATE on status=PENDING, so of any number of concurrent
// attempts exactly one commits an award; the rest see AlreadyCompleted.
// Returns the awarded point amount.
func (s *TaskService) CompleteTask(userID, taskID uint) (int, error) {
	today := utils.FormatDateOnly(utils.TodayUTC())

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, err
	}
	if !task.IsActive {
		return 0, ErrTaskInactive
	}

	now := time.Now().UTC()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Materialize the row if the reset job has not run yet; losing the
		// conflict to an existing row (PENDING or COMPLETED) is fine.
		placeholder := models.UserTask{
			UserID: userID,
			TaskID: taskID,
			Date:   today,
			Status: models.UserTaskPending,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&placeholder).Error; err != nil {
			return err
		}

		res := tx.Model(&models.UserTask{}).
			Where("user_id = ? AND task_id = ? AND date = ? AND status = ?",
				userID, taskID, today, models.UserTaskPending).
			Updates(map[string]interface{}{
				"status":       models.UserTaskCompleted,
				"completed_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskAlreadyCompleted
		}

		_, err := s.ledger.AppendIn(tx, TransactionParams{
			UserID:      userID,
			Points:      task.Points,
			Type:        models.TxTaskCompletion,
			Description: "Completed: " + task.Title,
			Metadata: map[string]interface{}{
				"task_id":     task.ID,
				"task_action": task.Action,
			},
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return task.Points, nil
}

// CompleteTaskByAction resolves a task by its unique action identifier and
// completes it for the user.
func (s *TaskService) CompleteTaskByAction(userID uint, action string) (int, error) {
	var task models.Task
	if err := s.db.Where("action = ?", action).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, err
	}
	return s.CompleteTask(userID, task.ID)
}

// DailyTaskView is one task joined with the user's record for the day.
type DailyTaskView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int        `json:"points"`
	Action      string     `json:"action"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
}

// DailyProgress aggregates a day's completion state.
type DailyProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// DailyTasksResult is the full daily dashboard for one user and date.
type DailyTasksResult struct {
	Tasks    []DailyTaskView `json:"tasks"`
	Progress DailyProgress   `json:"progress"`
}

// GetUserDailyTasks lists every active daily task with the user's status for
// the given date, highest point value first. Tasks without a record default
// to PENDING.
func (s *TaskService) GetUserDailyTasks(userID uint, date time.Time) (*DailyTasksResult, error) {
	dateStr := utils.FormatDateOnly(date)

	var tasks []models.Task
	err := s.db.Where("type = ? AND is_active = ?", models.TaskTypeDaily, true).
		Order("points DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	var records []models.UserTask
	err = s.db.Where("user_id = ? AND date = ?", userID, dateStr).Find(&records).Error
	if err != nil {
		return nil, err
	}
	byTask := make(map[uint]models.UserTask, len(records))
	for _, r := range records {
		byTask[r.TaskID] = r
	}

	views := make([]DailyTaskView, 0, len(tasks))
	completed := 0
	for _, task := range tasks {
		view := DailyTaskView{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Points:      task.Points,
			Action:      task.Action,
			Status:      models.UserTaskPending,
		}
		if record, ok := byTask[task.ID]; ok {
			view.Status = record.Status
			view.CompletedAt = record.CompletedAt
		}
		if view.Status == models.UserTaskCompleted {
			completed++
		}
		views = append(views, view)
	}

	total := len(views)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &DailyTasksResult{
		Tasks: views,
		Progress: DailyProgress{
			Completed:  completed,
			Total:      total,
			Percentage: percentage,
		},
	}, nil
}

// CalculateStreak walks backward from today counting consecutive UTC days
// with at least one completed task. A day with zero completions ends the
// walk, so a user with no completions today scores 0.
func (s *TaskService) CalculateStreak(userID uint) (int, error) {
	streak := 0
	day := utils.TodayUTC()

	for streak < maxStreakDays {
		var count int64
		err := s.db.Model(&models.UserTask{}).
			Where("user_id = ? AND date = ? AND status = ?",
				userID, utils.FormatDateOnly(day), models.UserTaskCompleted).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count == 0 {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// MaterializeDailyTasks creates PENDING records for every (user, active daily
// task) pair for the given date. Conflicting rows are skipped, which makes the
// job idempotent under re-runs and safe against concurrent completions that
// created their rows first. Returns the number of rows actually inserted.
func (s *TaskService) MaterializeDailyTasks(date time.Time) (int64, error) {
	dateStr := utils.FormatDateOnly(date)

	var tasks []models.Task
	err := s.db.Where("type = ? AND is_active = ?", models.TaskTypeDaily, true).Find(&tasks).Error
	if err != nil {
		return 0, err
	}

	var userIDs []uint
	if err := s.db.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}
	if len(tasks) == 0 || len(userIDs) == 0 {
		return 0, nil
	}

	rows := make([]models.UserTask, 0, len(tasks)*len(userIDs))
	for _, userID := range userIDs {
		for _, task := range tasks {
			rows = append(rows, models.UserTask{
				UserID: userID,
				TaskID: task.ID,
				Date:   dateStr,
				Status: models.UserTaskPending,
			})
		}
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}, {Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(rows, 500)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
