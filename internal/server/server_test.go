package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/reminder"
	"github.com/upperspacecase/habitspace/internal/storage"
)

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, habit.Notification) error { return nil }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "solo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := habit.NewService(db, nil)
	sender := reminder.NewSender(svc, nopNotifier{}, zap.NewNop())
	srv := New(svc, sender, "cron-secret", zap.NewNop())
	srv.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestCreateAndFetchUser(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/users", map[string]string{
		"email":      "New@Example.com",
		"templateId": "meditate",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	require.Equal(t, "new@example.com", created["email"])
	require.NotNil(t, created["activeHabit"])

	resp, err := http.Get(ts.URL + "/api/users?email=new@example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode(t, resp)
	require.Equal(t, created["id"], fetched["id"])
}

func TestCreateUserConflictReturnsExisting(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/users", map[string]string{"email": "dup@example.com", "templateId": "read"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/users", map[string]string{"email": "dup@example.com", "templateId": "read"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "already_exists", body["error"])
	require.NotNil(t, body["user"])
}

func TestGetUserInvalidEmail(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users?email=not-an-email")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "Valid email is required", body["error"])
}

func TestGetUserNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users?email=ghost@example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckinFlow(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/users", map[string]string{"email": "c@example.com", "templateId": "hydrate"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/checkin", map[string]string{"email": "c@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, true, body["checkedIn"])
	require.Equal(t, float64(1), body["streak"])
	require.Empty(t, body["events"])

	// same day again: idempotency conflict
	resp = postJSON(t, ts.URL+"/api/checkin", map[string]string{"email": "c@example.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decode(t, resp)
	require.Equal(t, "already_checked_in", body["error"])
	require.Equal(t, "You already checked in today. See you tomorrow!", body["message"])
}

func TestCheckinWithoutActiveHabit(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/users", map[string]string{"email": "done@example.com", "templateId": "journal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// fast-forward through all five levels by checking in day after day
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	for {
		res, err := srv.svc.RecordCheckin(ctx, "done@example.com", day)
		require.NoError(t, err)
		day = day.AddDate(0, 0, 1)
		if _, ok := res.Event.(habit.Graduated); ok {
			break
		}
	}

	srv.now = func() time.Time { return day }
	resp = postJSON(t, ts.URL+"/api/checkin", map[string]string{"email": "done@example.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, "No active habit. Pick a new one!", body["error"])
}

func TestTemplatesEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/templates")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var templates []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&templates))
	require.Len(t, templates, 8)
}

func TestIdeasWall(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/ideas", map[string]string{"text": "Cold showers every morning"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	idea := decode(t, resp)
	require.Equal(t, "Anonymous", idea["author"])

	id := idea["id"].(string)
	resp = postJSON(t, ts.URL+"/api/ideas/"+id+"/vote", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	voted := decode(t, resp)
	require.Equal(t, float64(1), voted["votes"])

	resp = postJSON(t, ts.URL+"/api/ideas/nope/vote", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/ideas")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
}

func TestSubmitIdeaRejectsLongText(t *testing.T) {
	_, ts := newTestServer(t)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	resp := postJSON(t, ts.URL+"/api/ideas", map[string]string{"text": string(long)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSendRemindersRequiresKey(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/send-reminders", map[string]any{"apiKey": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/send-reminders", map[string]any{"apiKey": "cron-secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	require.Equal(t, float64(0), body["sent"])
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
