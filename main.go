package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/quiterx/selfrealization-bot/internal/admin"
	"github.com/quiterx/selfrealization-bot/internal/config"
	"github.com/quiterx/selfrealization-bot/internal/content"
	"github.com/quiterx/selfrealization-bot/internal/handlers"
	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/notes"
	"github.com/quiterx/selfrealization-bot/internal/scheduler"
	"github.com/quiterx/selfrealization-bot/internal/stats"
	"github.com/quiterx/selfrealization-bot/internal/storage"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
	"github.com/quiterx/selfrealization-bot/internal/utils"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	utils.Must(logger.Init(logger.Config{Dir: cfg.LogDir, Level: cfg.LogLevel, Debug: cfg.Debug}))
	utils.Must(cfg.LoadToken())
	loc, err := cfg.Location()
	utils.Must(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(cfg.DB)
	utils.Must(err)

	cal := tracker.NewCalendar(loc)
	library := content.New(db, cal.Clock)
	utils.Must(library.Seed(ctx))

	agg := stats.New(db, 0)
	water := tracker.NewWater(db, agg, cal)

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	utils.Must(err)
	bot := handlers.NewBot(api, cfg.SendRate)

	sched, err := scheduler.New(scheduler.Config{
		WaterEvery:      cfg.WaterEvery,
		MotivationEvery: cfg.MotivationEvery,
		WaterThreshold:  cfg.WaterThreshold,
	}, cal.Clock, water, library, bot, db)
	utils.Must(err)
	sched.Run()
	if n, err := sched.Restore(ctx); err != nil {
		logger.Warn("some reminders were not restored", "restored", n, "err", err)
	} else if n > 0 {
		logger.Info("reminders restored", "accounts", n)
	}

	ctrl := handlers.New(handlers.Deps{
		Store:     db,
		Calories:  tracker.NewCalories(db, agg, cal),
		Water:     water,
		Activity:  tracker.NewActivity(db, agg, cal),
		Weight:    tracker.NewWeight(db, cal),
		Notes:     notes.New(db, cal),
		Content:   library,
		Reminders: sched,
		Sender:    bot,
		Calendar:  cal,
	})

	var adminSrv *admin.Server
	if cfg.AdminAddr != "" {
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		adminSrv = admin.NewServer(cfg.AdminAddr, admin.NewHandler(db, sched, cal))
		go func() {
			logger.Info("admin api listening", "addr", cfg.AdminAddr)
			if err := adminSrv.ListenAndServe(); err != nil {
				logger.Error("admin api stopped", "err", err)
			}
		}()
	}

	logger.Info("bot started", "username", api.Self.UserName, "tz", loc.String())
	bot.Listen(ctx, ctrl)

	// === shutdown ===
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if adminSrv != nil {
		if err := adminSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("admin shutdown", "err", err)
		}
	}
	if err := sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "err", err)
	}
	agg.Close()
	if err := db.Close(); err != nil {
		logger.Warn("close db", "err", err)
	}
}
