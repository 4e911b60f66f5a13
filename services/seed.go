package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teambuildf/oraville-backend/models"
)

// defaultTasks are the earnable daily actions shipped with the app. Upserted
// by unique action so point values and activation can be tuned between
// releases.
var defaultTasks = []models.Task{
	{
		Title:       "Morning Check-In",
		Description: "Start your day with a positive mindset",
		Points:      10,
		Type:        models.TaskTypeDaily,
		Action:      "MORNING_CHECKIN",
		IsActive:    true,
	},
	{
		Title:       "Face Scan Verification",
		Description: "Verify your presence with a quick face scan",
		Points:      20,
		Type:        models.TaskTypeDaily,
		Action:      models.ActionFaceScan,
		IsActive:    true,
	},
	{
		Title:       "Invite a Friend",
		Description: "Share the glow and invite someone to join",
		Points:      25,
		Type:        models.TaskTypeDaily,
		Action:      "INVITE_FRIEND",
		IsActive:    true,
	},
	{
		Title:       "Read Wellness Tip",
		Description: "Learn something new about wellness today",
		Points:      5,
		Type:        models.TaskTypeDaily,
		Action:      "READ_TIP",
		IsActive:    true,
	},
	{
		Title:       "Evening Reflection",
		Description: "Reflect on your day and set intentions",
		Points:      5,
		Type:        models.TaskTypeDaily,
		Action:      "EVENING_REFLECTION",
		IsActive:    true,
	},
}

// SeedDefaultTasks upserts the built-in task catalog keyed by action.
func SeedDefaultTasks(db *gorm.DB) error {
	for _, task := range defaultTasks {
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "action"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "points", "type", "is_active",
			}),
		}).Create(&task).Error
		if err != nil {
			return err
		}
	}
	return nil
}
