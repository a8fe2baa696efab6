// Package server exposes the progression engine over a small JSON API,
// plus the cron-driven reminder endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/reminder"
)

type Server struct {
	svc     *habit.Service
	sender  *reminder.Sender
	cronKey string
	log     *zap.Logger

	// overridable in tests
	now func() time.Time
}

func New(svc *habit.Service, sender *reminder.Sender, cronKey string, log *zap.Logger) *Server {
	return &Server{
		svc:     svc,
		sender:  sender,
		cronKey: cronKey,
		log:     log,
		now:     time.Now,
	}
}

// Handler builds the route table. Exposed separately so tests can drive
// the API through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/users", s.handleGetUser)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("POST /api/users/start-next", s.handleStartNext)
	mux.HandleFunc("POST /api/checkin", s.handleCheckin)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("GET /api/ideas", s.handleListIdeas)
	mux.HandleFunc("POST /api/ideas", s.handleSubmitIdea)
	mux.HandleFunc("POST /api/ideas/{id}/vote", s.handleVoteIdea)
	mux.HandleFunc("POST /api/send-reminders", s.handleSendReminders)
	return s.logRequests(mux)
}

// ListenAndServe runs the API until ctx is canceled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("api listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	user, err := s.svc.GetUser(r.Context(), email)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type startRequest struct {
	Email           string `json:"email"`
	TemplateID      string `json:"templateId"`
	CustomHabitName string `json:"customHabitName"`
	ReminderTime    string `json:"reminderTime"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.svc.CreateUser(r.Context(), habit.StartInput{
		Email:        req.Email,
		TemplateID:   req.TemplateID,
		CustomName:   req.CustomHabitName,
		ReminderTime: req.ReminderTime,
	}, s.now())
	if errors.Is(err, habit.ErrUserExists) {
		existing, gerr := s.svc.GetUser(r.Context(), req.Email)
		if gerr != nil {
			s.writeDomainError(w, gerr)
			return
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "already_exists",
			"user":  existing,
		})
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleStartNext(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.svc.StartNextHabit(r.Context(), habit.StartInput{
		Email:      req.Email,
		TemplateID: req.TemplateID,
		CustomName: req.CustomHabitName,
	}, s.now())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type checkinEvent struct {
	Type      string `json:"type"`
	NewLevel  int    `json:"newLevel,omitempty"`
	NewTask   string `json:"newTask,omitempty"`
	HabitName string `json:"habitName,omitempty"`
	TotalDays int    `json:"totalDays,omitempty"`
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	res, err := s.svc.RecordCheckin(r.Context(), req.Email, s.now())
	if errors.Is(err, habit.ErrAlreadyCheckedIn) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":   "already_checked_in",
			"message": "You already checked in today. See you tomorrow!",
		})
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	events := []checkinEvent{}
	switch ev := res.Event.(type) {
	case habit.LevelUp:
		events = append(events, checkinEvent{Type: "level_up", NewLevel: ev.NewLevel, NewTask: ev.NewTask})
	case habit.Graduated:
		events = append(events, checkinEvent{Type: "graduated", HabitName: ev.HabitName, TotalDays: ev.TotalDays})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":      res.User,
		"streak":    res.Streak,
		"events":    events,
		"checkedIn": true,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, habit.Templates())
}

type ideaJSON struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Votes     int    `json:"votes"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.svc.ListIdeas(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := make([]ideaJSON, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, ideaJSON{i.ID, i.Text, i.Author, i.Votes, i.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmitIdea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	idea, err := s.svc.SubmitIdea(r.Context(), req.Text, s.now())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ideaJSON{idea.ID, idea.Text, idea.Author, idea.Votes, idea.CreatedAt})
}

func (s *Server) handleVoteIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := s.svc.VoteIdea(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideaJSON{idea.ID, idea.Text, idea.Author, idea.Votes, idea.CreatedAt})
}

func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hour   *int   `json:"hour"`
		APIKey string `json:"apiKey"`
	}
	// An empty body means no hour filter.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if s.cronKey != "" && req.APIKey != s.cronKey {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	hour := reminder.AllHours
	if req.Hour != nil {
		hour = *req.Hour
	}
	sent, err := s.sender.Run(r.Context(), s.now(), hour)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

// writeDomainError maps engine errors onto HTTP statuses. Conflicts that
// carry their own payloads (duplicate check-in, existing user) are handled
// at the call sites.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, habit.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Valid email is required")
	case errors.Is(err, habit.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, habit.ErrNoActiveHabit):
		writeError(w, http.StatusBadRequest, "No active habit. Pick a new one!")
	case errors.Is(err, habit.ErrHabitAlreadyActive):
		writeError(w, http.StatusBadRequest, "You already have an active habit. Finish it first!")
	case errors.Is(err, habit.ErrTemplateNotFound):
		writeError(w, http.StatusBadRequest, "Invalid template")
	case errors.Is(err, habit.ErrIdeaNotFound):
		writeError(w, http.StatusNotFound, "Idea not found")
	default:
		var stErr *habit.StorageError
		if errors.As(err, &stErr) {
			s.log.Error("storage failure", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong. Please retry.")
			return
		}
		// validation errors from the engine
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
