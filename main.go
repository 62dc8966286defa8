package main

import (
	"time"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/routes"
	"github.com/sldmxm/yatube-final/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.PageView{},
		&models.UploadedFile{},
	)

	redisClient := utils.NewRedisClient(cfg)
	cache := utils.NewRedisPageCache(redisClient, "cache:page:", time.Duration(cfg.FeedCacheTTLSeconds)*time.Second)
	blacklist := utils.NewTokenBlacklist(redisClient)

	r := routes.SetupRouter(db, cache, blacklist)

	// Background sweep for expired post images (best-effort)
	utils.StartUploadCleaner(db, 5*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
