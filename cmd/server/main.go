package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gitomatikus/signail/internal/config"
	"github.com/gitomatikus/signail/internal/game"
	"github.com/gitomatikus/signail/internal/handlers"
	"github.com/gitomatikus/signail/internal/ws"

	_ "github.com/gitomatikus/signail/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Signail Relay API
// @version         1.0
// @description     Session coordinator for the shared quiz board: presence, question claims, answer times and scores
// @host            localhost:8000
// @BasePath        /

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	state := game.NewState(clockwork.NewRealClock(), cfg.PreserveScoreOnRelogin)
	coordinator := ws.NewCoordinator(state)
	go coordinator.Run(context.Background())

	wsHandler := handlers.NewWSHandler(coordinator)
	userHandler := handlers.NewUserHandler(coordinator)
	questionHandler := handlers.NewQuestionHandler(coordinator)
	packHandler := handlers.NewPackHandler(cfg.PackPath)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", wsHandler.HandleWebSocket)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.MessageResponse{Message: "quiz relay server is running"})
	})

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("/online", userHandler.GetOnlineUsers)
			users.POST("/:id/score", userHandler.UpdateScore)
		}

		questions := api.Group("/questions")
		{
			questions.GET("/:id/times", questionHandler.GetQuestionTimes)
			questions.DELETE("/:id/times", questionHandler.ClearQuestionTimes)
		}

		api.GET("/pack", packHandler.GetPack)
		api.POST("/pack", packHandler.UploadPack)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
