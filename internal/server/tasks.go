package server

import (
	"encoding/json"
	"net/http"
	"time"

	"mood-booster/internal/service"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	DueType     string     `json:"dueType"`
	Time        *string    `json:"time"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	UserID      string     `json:"userId"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := s.resolveUserID(req.UserID)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required (no default user configured)")
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), service.TaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		DueType:     req.DueType,
		Time:        req.Time,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var update service.TaskUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), id, update)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
