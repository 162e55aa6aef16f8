package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mealmaker/internal/api"
	"mealmaker/internal/platform/gemini"
	"mealmaker/internal/platform/pexels"
	"mealmaker/internal/recipe"
)

// Config represents the application configuration.
type Config struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	PexelsAPIKey string `json:"pexels_api_key"`
	DatabasePath string `json:"database_path"`
	ListenAddr   string `json:"listen_addr"`
}

func main() {
	ctx := context.Background()

	// Read configuration from config.json
	configData, err := os.ReadFile("config.json")
	if err != nil {
		panic(fmt.Errorf("failed to read config.json: %w", err))
	}

	var config Config
	if err := json.Unmarshal(configData, &config); err != nil {
		panic(fmt.Errorf("failed to unmarshal config.json: %w", err))
	}
	if config.DatabasePath == "" {
		config.DatabasePath = "mealmaker.db"
	}
	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	geminiClient := gemini.NewClient(config.GeminiAPIKey)
	pexelsClient := pexels.NewClient(config.PexelsAPIKey)

	store, err := recipe.NewSQLiteStore(config.DatabasePath)
	if err != nil {
		panic(fmt.Errorf("error creating sqlite store: %w", err))
	}

	// One-time migration: drop unsaved recipes an earlier schema mixed
	// into the bookmark collection.
	if err := store.CleanupOldRecipes(ctx); err != nil {
		panic(fmt.Errorf("error cleaning up old recipes: %w", err))
	}

	handler := api.NewHandler(geminiClient, geminiClient, pexelsClient, store)

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/scan", handler.Scan)
	r.GET("/ingredients", handler.GetIngredients)
	r.PUT("/ingredients", handler.SaveIngredients)
	r.POST("/generate", handler.Generate)
	r.GET("/recipes/recent", handler.GetRecentRecipes)
	r.GET("/recipes/saved", handler.GetSavedRecipes)
	r.POST("/recipes/saved", handler.SaveRecipe)
	r.DELETE("/recipes/saved/:id", handler.UnsaveRecipe)
	r.Run(config.ListenAddr)
}
