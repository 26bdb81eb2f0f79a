package main

import (
	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/models"
	"github.com/aeroforge/aerobbs/routes"
	"github.com/aeroforge/aerobbs/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Thread{},
		&models.Comment{},
		&models.Vote{},
		&models.Attachment{},
		&models.AccessKey{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
