package main

import (
	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/jobs"
	"github.com/teambuildf/oraville-backend/models"
	"github.com/teambuildf/oraville-backend/routes"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Task{}, &models.UserTask{}, &models.Transaction{})

	if err := services.SeedDefaultTasks(db); err != nil {
		utils.Sugar.Fatalf("seeding default tasks failed: %v", err)
	}

	r := routes.SetupRouter(db)

	ledger := services.NewLedger(db)
	taskService := services.NewTaskService(db, ledger)
	resetJob, err := jobs.StartDailyReset(taskService)
	if err != nil {
		utils.Sugar.Fatalf("scheduling daily reset failed: %v", err)
	}
	defer resetJob.Stop()

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
