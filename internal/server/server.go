package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shinyyama/blockguess-backend/internal/ai"
	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/config"
	"github.com/shinyyama/blockguess-backend/internal/handler"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/metrics"
	appmw "github.com/shinyyama/blockguess-backend/internal/middleware"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"github.com/shinyyama/blockguess-backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e      *echo.Echo
	rounds service.RoundService
}

// New wires repositories, services and routes. Admin routes are only mounted when auth
// is non-nil.
func New(db *gorm.DB, cfg *config.Config, clk clock.Clock, auth *appmw.AuthMiddleware) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(cfg.CORSOriginSuffixes),
	}))

	metrics.Register()

	eventRepo := repository.NewEventLogRepository(db)
	auditSvc := service.NewEventLogService(eventRepo, clk)
	eventHandler := handler.NewEventLogHandler(auditSvc)

	tx := repository.NewTransactor(db)
	prizeRepo := repository.NewPrizeConfigRepository(db)
	prizeSvc := service.NewPrizeConfigService(prizeRepo, auditSvc, clk)
	prizeHandler := handler.NewPrizeConfigHandler(prizeSvc)

	roundSvc := service.NewRoundService(
		tx,
		repository.NewRoundRepository(db),
		repository.NewGuessRepository(db),
		prizeRepo,
		auditSvc,
		clk,
	)
	roundHandler := handler.NewRoundHandler(roundSvc)

	checkInSvc := service.NewCheckInService(
		tx,
		repository.NewUserStatRepository(db),
		repository.NewCheckInRepository(db),
		auditSvc,
		clk,
	)
	checkInHandler := handler.NewCheckInHandler(checkInSvc)

	chatSvc := service.NewChatService(repository.NewChatRepository(db), auditSvc, clk)
	chatHandler := handler.NewChatHandler(chatSvc)

	var polisher service.Polisher
	if cfg.AnnounceWithAI {
		polisher = ai.NewRoundAnnouncer(cfg.GeminiAnnounceModel, cfg.AnnounceTone)
	}
	announceHandler := handler.NewAnnouncementHandler(service.NewAnnouncementService(roundSvc, chatSvc, polisher))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    cfg.GitSHA,
			"build_time": cfg.BuildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/rounds", roundHandler.List)
	api.GET("/rounds/active", roundHandler.Active)
	api.GET("/rounds/:id", roundHandler.Get)
	api.GET("/rounds/:id/guesses", roundHandler.ListGuesses)
	api.POST("/rounds/:id/guesses", roundHandler.SubmitGuess)
	api.GET("/rounds/:id/leaderboard", roundHandler.Leaderboard)

	api.POST("/checkins", checkInHandler.CheckIn)
	api.GET("/checkins/leaderboard", checkInHandler.Leaderboard)
	api.GET("/checkins/leaderboard/weekly", checkInHandler.WeeklyLeaderboard)
	api.GET("/checkins/:user/stats", checkInHandler.Stats)
	api.GET("/checkins/:user/history", checkInHandler.History)

	api.GET("/prize-config", prizeHandler.Get)

	api.GET("/chat/:room/messages", chatHandler.List)
	api.POST("/chat/:room/messages", chatHandler.Send)

	if auth != nil {
		admin := api.Group("/admin", auth.RequireAdmin)
		admin.POST("/rounds", roundHandler.Create)
		admin.POST("/rounds/auto-close", roundHandler.AutoClose)
		admin.POST("/rounds/:id/close", roundHandler.Close)
		admin.POST("/rounds/:id/finalize", roundHandler.Finalize)
		admin.GET("/rounds/:id/announcement", announceHandler.Draft)
		admin.POST("/rounds/:id/announcement", announceHandler.Post)
		admin.PUT("/prize-config", prizeHandler.Save)
		admin.GET("/logs", eventHandler.List)
	} else {
		logger.Warn("admin routes disabled: no auth middleware configured")
	}

	return &Server{e: e, rounds: roundSvc}
}

func allowOrigin(suffixes []string) func(origin string) (bool, error) {
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		host := u.Hostname()
		for _, s := range suffixes {
			if s != "" && strings.HasSuffix(host, s) {
				return true, nil
			}
		}
		return false, nil
	}
}

// Rounds exposes the round service for the auto-close scheduler.
func (s *Server) Rounds() service.RoundService {
	return s.rounds
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
