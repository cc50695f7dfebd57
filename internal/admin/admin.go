// Package admin exposes a small HTTP API for operators: health, statistics
// rollups, reminder state and data removal. It is meant to listen on
// localhost only.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/storage"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

type Store interface {
	PingContext(ctx context.Context) error
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	StatsByDay(ctx context.Context, accountID int64, fromDay string) (map[string]models.DayStats, error)
	DeleteNote(ctx context.Context, id int64) error
	ClearData(ctx context.Context, accountID int64) error
}

type Reminders interface {
	Running() []int64
	Stop(ctx context.Context, accountID int64) error
}

type Handler struct {
	store     Store
	reminders Reminders
	cal       tracker.Calendar
	log       *log.Logger
}

func NewHandler(store Store, reminders Reminders, cal tracker.Calendar) *Handler {
	return &Handler{
		store:     store,
		reminders: reminders,
		cal:       cal,
		log:       logger.With("component", "admin"),
	}
}

// Router wires the routes on a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog)

	r.GET("/healthz", h.Health)
	r.GET("/reminders", h.Reminders)

	accounts := r.Group("/accounts/:id")
	accounts.GET("", h.GetAccount)
	accounts.GET("/statistics", h.Statistics)
	accounts.DELETE("/data", h.ClearData)

	r.DELETE("/notes/:id", h.DeleteNote)
	return r
}

func (h *Handler) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Debug("request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"took", time.Since(start))
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Reminders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": h.reminders.Running()})
}

// account resolves the :id path parameter to an existing account.
func (h *Handler) account(c *gin.Context) (*models.Account, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return nil, false
	}
	a, err := h.store.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get account", "account", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch account"})
		return nil, false
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return nil, false
	}
	return a, true
}

func (h *Handler) GetAccount(c *gin.Context) {
	a, ok := h.account(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, a)
}

// Statistics returns the aggregate rows of the last 7 or 14 days, newest
// first; days without a row are zero.
func (h *Handler) Statistics(c *gin.Context) {
	a, ok := h.account(c)
	if !ok {
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || (days != 7 && days != 14) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be 7 or 14"})
		return
	}

	keys := h.cal.LastDays(days)
	rows, err := h.store.StatsByDay(c.Request.Context(), a.ID, keys[len(keys)-1])
	if err != nil {
		h.log.Error("statistics", "account", a.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch statistics"})
		return
	}
	res := make([]models.DayStats, len(keys))
	for i, day := range keys {
		res[i] = rows[day]
		res[i].Day = day
	}
	c.JSON(http.StatusOK, gin.H{"account_id": a.ID, "days": res})
}

// ClearData wipes every tracked entry of the account and stops its
// reminders. The account row itself stays.
func (h *Handler) ClearData(c *gin.Context) {
	a, ok := h.account(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.reminders.Stop(ctx, a.ID); err != nil {
		h.log.Warn("stop reminders", "account", a.ID, "err", err)
	}
	if err := h.store.ClearData(ctx, a.ID); err != nil {
		h.log.Error("clear data", "account", a.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear data"})
		return
	}
	h.log.Info("account data cleared", "account", a.ID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}
	err = h.store.DeleteNote(c.Request.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
	case err != nil:
		h.log.Error("delete note", "note", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete note"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// Server runs the admin API until Shutdown.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// ListenAndServe blocks; it returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
