package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/storage"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

type reminders struct {
	running []int64
	stopped []int64
}

func (r *reminders) Running() []int64 { return r.running }

func (r *reminders) Stop(_ context.Context, id int64) error {
	r.stopped = append(r.stopped, id)
	return nil
}

func newTestServer(t *testing.T) (*gin.Engine, *storage.DB, *reminders) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.New(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateAccount(context.Background(), &models.Account{ID: 1, Username: "u", CreatedAt: 1}))

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	rem := &reminders{running: []int64{1}}
	h := NewHandler(db, rem, tracker.Calendar{Clock: clock, Location: time.UTC})
	return h.Router(), db, rem
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReminders(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := do(r, http.MethodGet, "/reminders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accounts":[1]}`, w.Body.String())
}

func TestGetAccount(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(r, http.MethodGet, "/accounts/1")
	assert.Equal(t, http.StatusOK, w.Code)
	var a models.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, 2000, a.CalorieLimit)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/accounts/2").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/accounts/abc").Code)
}

func TestStatistics(t *testing.T) {
	r, db, _ := newTestServer(t)
	five := 500
	require.NoError(t, db.ApplyStats(context.Background(), models.StatsDelta{AccountID: 1, Day: "2024-05-09", CaloriesConsumed: &five}))

	w := do(r, http.MethodGet, "/accounts/1/statistics?days=14")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccountID int64             `json:"account_id"`
		Days      []models.DayStats `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Days, 14)
	assert.Equal(t, "2024-05-10", body.Days[0].Day)
	assert.Equal(t, models.DayStats{Day: "2024-05-09", CaloriesConsumed: 500}, body.Days[1])

	w = do(r, http.MethodGet, "/accounts/1/statistics")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Days, 7)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/accounts/1/statistics?days=30").Code)
}

func TestDeleteNote(t *testing.T) {
	r, db, _ := newTestServer(t)
	id, err := db.InsertNote(context.Background(), &models.Note{AccountID: 1, Day: "2024-05-10", Kind: models.NotePlan, Text: "x", CreatedAt: 1})
	require.NoError(t, err)

	path := "/notes/" + jsonID(id)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, path).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, path).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/notes/x").Code)
}

func TestClearData(t *testing.T) {
	r, db, rem := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, db.AddSteps(ctx, 1, "2024-05-10", 100))

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/accounts/1/data").Code)
	assert.Equal(t, []int64{1}, rem.stopped)

	s, err := db.GetActivity(ctx, 1, "2024-05-10")
	require.NoError(t, err)
	assert.Zero(t, s.Steps)

	a, err := db.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
