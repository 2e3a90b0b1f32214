package main

import (
	"log"

	"github.com/jengzang/saferoute-backend-go/internal/api"
	"github.com/jengzang/saferoute-backend-go/internal/config"
	"github.com/jengzang/saferoute-backend-go/internal/database"
	"github.com/jengzang/saferoute-backend-go/internal/graph"
	"github.com/jengzang/saferoute-backend-go/internal/repository"
	"github.com/jengzang/saferoute-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化危险区存储
	var store repository.HazardStore
	switch cfg.HazardStore {
	case "sqlite":
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		store = repository.NewSQLiteHazardStore(db)
	default:
		store = repository.NewMemoryHazardStore()
	}

	if cfg.SeedHazards && store.Count() == 0 {
		if err := repository.Seed(store, repository.DefaultHazards()); err != nil {
			log.Fatal("Failed to seed hazards:", err)
		}
		log.Printf("Initialized with %d default hazard zones", store.Count())
	}

	// 初始化地图数据源
	var source graph.MapSource
	if cfg.MapFile != "" {
		source = graph.NewFileSource(cfg.MapFile)
	} else {
		source = graph.NewOverpassSource(cfg.OverpassURL, cfg.FetchTimeout)
	}

	provider := graph.NewProvider(source, cfg.GraphTTL, cfg.RegionMarginM)
	routing := service.NewRoutingService(provider, store, cfg)
	hazards := service.NewHazardService(store)

	// 初始化路由
	router := api.SetupRouter(cfg, routing, hazards)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
