package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"mood-booster/internal/service"
)

type saveTokenRequest struct {
	Token      string  `json:"token"`
	UserID     string  `json:"userId"`
	DeviceName *string `json:"deviceName"`
}

type scheduleRequest struct {
	TaskID       string            `json:"taskId"`
	Title        string            `json:"title"`
	ScheduleTime string            `json:"scheduleTime"`
	UserID       string            `json:"userId"`
	Body         string            `json:"body"`
	Data         map[string]string `json:"data"`
	Token        string            `json:"token"`
}

type sendRequest struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type dispatchRequest struct {
	Limit int `json:"limit"`
}

func (s *Server) saveToken(w http.ResponseWriter, r *http.Request) {
	var req saveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	userID := s.resolveUserID(req.UserID)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required (no default user configured)")
		return
	}

	if err := s.reminders.SaveToken(r.Context(), userID, req.Token, req.DeviceName, time.Now()); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Token saved successfully",
	})
}

func (s *Server) scheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := s.resolveUserID(req.UserID)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required (no default user configured)")
		return
	}

	var scheduleTime time.Time
	if req.ScheduleTime != "" {
		parsed, err := parseScheduleTime(req.ScheduleTime)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid scheduleTime: "+err.Error())
			return
		}
		scheduleTime = parsed
	}

	reminder, err := s.reminders.Schedule(r.Context(), service.ScheduleInput{
		TaskID:       req.TaskID,
		UserID:       userID,
		Title:        req.Title,
		Body:         req.Body,
		Data:         req.Data,
		Token:        req.Token,
		ScheduleTime: scheduleTime,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Notification scheduled",
		"scheduledFor": reminder.ScheduledAt.Format(time.RFC3339),
		"id":           reminder.ID,
		"hasToken":     reminder.Token != nil,
	})
}

func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(r.URL.Query().Get("userId"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required (no default user configured)")
		return
	}

	reminders, err := s.reminders.List(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": reminders,
	})
}

func (s *Server) sendNow(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	messageID, err := s.dispatch.SendDirect(r.Context(), req.Token, req.Title, req.Body, req.Data)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"messageId": messageID,
	})
}

// dispatchWithAuth gates the GET trigger behind the cron bearer secret when
// one is configured. External schedulers hit this route.
func (s *Server) dispatchWithAuth(w http.ResponseWriter, r *http.Request) {
	if s.cfg.CronSecret != "" {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.cfg.CronSecret {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}
	s.sweep(w, r, 0)
}

func (s *Server) runDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	// An empty or malformed body falls back to the default limit.
	json.NewDecoder(r.Body).Decode(&req)
	s.sweep(w, r, req.Limit)
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request, limit int) {
	result, err := s.dispatch.Sweep(r.Context(), limit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": result.Processed,
		"results":   result.Results,
	})
}

// parseScheduleTime accepts RFC 3339 timestamps, with or without an explicit
// zone offset.
func parseScheduleTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
}
