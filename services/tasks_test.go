package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/utils"
)

func seedTask(t *testing.T, db *gorm.DB, title, action string, points int, active bool) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:    title,
		Points:   points,
		Type:     models.TaskTypeDaily,
		Action:   action,
		IsActive: active,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func completedOn(t *testing.T, db *gorm.DB, userID, taskID uint, date time.Time) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.UserTask{
		UserID:      userID,
		TaskID:      taskID,
		Date:        utils.FormatDateOnly(date),
		Status:      models.UserTaskCompleted,
		CompletedAt: &now,
	}).Error)
}

func TestCompleteTaskAwardsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewTaskService(db, ledger)
	user := createUser(t, db, "Ada")
	task := seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 10, true)

	points, err := svc.CompleteTask(user.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, points)

	_, err = svc.CompleteTask(user.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskAlreadyCompleted)

	var txCount int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TxTaskCompletion).
		Count(&txCount).Error)
	assert.Equal(t, int64(1), txCount)

	total, err := ledger.TotalPoints(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	var record models.UserTask
	require.NoError(t, db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&record).Error)
	assert.Equal(t, models.UserTaskCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)
}

func TestCompleteTaskUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Bea")

	_, err := svc.CompleteTask(user.ID, 424242)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestInactiveFlagSurvivesInsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Ann")
	task := seedTask(t, db, "Paused Task", "PAUSED", 10, false)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	require.False(t, stored.IsActive)

	_, err := svc.CompleteTask(user.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskInactive)
}

func TestSeedUpsertAppliesActivation(t *testing.T) {
	db := newTestDB(t)

	// A stale row from an earlier release: wrong points, deactivated
	seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 1, false)
	require.NoError(t, SeedDefaultTasks(db))

	var task models.Task
	require.NoError(t, db.Where("action = ?", "MORNING_CHECKIN").First(&task).Error)
	assert.Equal(t, 10, task.Points)
	assert.True(t, task.IsActive)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestCompleteTaskInactive(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewTaskService(db, ledger)
	user := createUser(t, db, "Cal")
	task := seedTask(t, db, "Retired Task", "RETIRED", 10, false)

	_, err := svc.CompleteTask(user.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskInactive)

	// Rejected before any state mutation
	var recordCount int64
	require.NoError(t, db.Model(&models.UserTask{}).Where("user_id = ?", user.ID).Count(&recordCount).Error)
	assert.Equal(t, int64(0), recordCount)
}

func TestCompleteTaskByAction(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Dee")
	seedTask(t, db, "Face Scan Verification", models.ActionFaceScan, 20, true)

	points, err := svc.CompleteTaskByAction(user.ID, models.ActionFaceScan)
	require.NoError(t, err)
	assert.Equal(t, 20, points)

	_, err = svc.CompleteTaskByAction(user.ID, "NO_SUCH_ACTION")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestGetUserDailyTasksProgress(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	svc := NewTaskService(db, ledger)
	require.NoError(t, SeedDefaultTasks(db))
	user := createUser(t, db, "Eve")

	var checkin, tip models.Task
	require.NoError(t, db.Where("action = ?", "MORNING_CHECKIN").First(&checkin).Error)
	require.NoError(t, db.Where("action = ?", "READ_TIP").First(&tip).Error)

	_, err := svc.CompleteTask(user.ID, checkin.ID)
	require.NoError(t, err)
	_, err = svc.CompleteTask(user.ID, tip.ID)
	require.NoError(t, err)

	result, err := svc.GetUserDailyTasks(user.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Progress.Completed)
	assert.Equal(t, 5, result.Progress.Total)
	assert.Equal(t, 40, result.Progress.Percentage)

	// Ordered by descending point value
	require.Len(t, result.Tasks, 5)
	assert.Equal(t, "Invite a Friend", result.Tasks[0].Title)
	for i := 1; i < len(result.Tasks); i++ {
		assert.GreaterOrEqual(t, result.Tasks[i-1].Points, result.Tasks[i].Points)
	}

	total, err := ledger.TotalPoints(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
}

func TestGetUserDailyTasksDefaultsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	require.NoError(t, SeedDefaultTasks(db))
	user := createUser(t, db, "Fay")

	result, err := svc.GetUserDailyTasks(user.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Progress.Completed)
	assert.Equal(t, 0, result.Progress.Percentage)
	for _, task := range result.Tasks {
		assert.Equal(t, models.UserTaskPending, task.Status)
		assert.Nil(t, task.CompletedAt)
	}
}

func TestCalculateStreakZeroWithoutCompletions(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Gil")

	streak, err := svc.CalculateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCalculateStreakConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Hal")
	task := seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 10, true)

	today := utils.TodayUTC()
	// Three consecutive days ending today, then a gap, then one stale day
	for i := 0; i < 3; i++ {
		completedOn(t, db, user.ID, task.ID, today.AddDate(0, 0, -i))
	}
	completedOn(t, db, user.ID, task.ID, today.AddDate(0, 0, -5))

	streak, err := svc.CalculateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestCalculateStreakEndsAtGapToday(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Ivy")
	task := seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 10, true)

	// History on previous days only; nothing today
	today := utils.TodayUTC()
	completedOn(t, db, user.ID, task.ID, today.AddDate(0, 0, -1))
	completedOn(t, db, user.ID, task.ID, today.AddDate(0, 0, -2))

	streak, err := svc.CalculateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestCalculateStreakCapsAtOneYear(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Joy")
	task := seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 10, true)

	today := utils.TodayUTC()
	rows := make([]models.UserTask, 0, 400)
	now := time.Now().UTC()
	for i := 0; i < 400; i++ {
		rows = append(rows, models.UserTask{
			UserID:      user.ID,
			TaskID:      task.ID,
			Date:        utils.FormatDateOnly(today.AddDate(0, 0, -i)),
			Status:      models.UserTaskCompleted,
			CompletedAt: &now,
		})
	}
	require.NoError(t, db.CreateInBatches(rows, 100).Error)

	streak, err := svc.CalculateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 365, streak)
}

func TestMaterializeDailyTasksIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	require.NoError(t, SeedDefaultTasks(db))
	createUser(t, db, "Kim")
	createUser(t, db, "Lou")

	created, err := svc.MaterializeDailyTasks(utils.TodayUTC())
	require.NoError(t, err)
	assert.Equal(t, int64(10), created) // 2 users x 5 active tasks

	created, err = svc.MaterializeDailyTasks(utils.TodayUTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), created)

	var rows int64
	require.NoError(t, db.Model(&models.UserTask{}).Count(&rows).Error)
	assert.Equal(t, int64(10), rows)
}

func TestMaterializeSkipsInactiveTasks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	seedTask(t, db, "Active", "ACTIVE", 10, true)
	seedTask(t, db, "Inactive", "INACTIVE", 10, false)
	createUser(t, db, "Mia")

	created, err := svc.MaterializeDailyTasks(utils.TodayUTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
}

func TestMaterializeDoesNotRegressCompletedTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, NewLedger(db))
	user := createUser(t, db, "Ned")
	task := seedTask(t, db, "Morning Check-In", "MORNING_CHECKIN", 10, true)

	// User completes before the reset job runs for the day
	_, err := svc.CompleteTask(user.ID, task.ID)
	require.NoError(t, err)

	_, err = svc.MaterializeDailyTasks(utils.TodayUTC())
	require.NoError(t, err)

	var record models.UserTask
	require.NoError(t, db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&record).Error)
	assert.Equal(t, models.UserTaskCompleted, record.Status)
}
