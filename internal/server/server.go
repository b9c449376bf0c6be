// Package server exposes the HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"mood-booster/internal/config"
	"mood-booster/internal/service"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	tasks     *service.TaskService
	courses   *service.CourseService
	reminders *service.ReminderService
	dispatch  *service.DispatchService
	boost     *service.BoostService
	cfg       config.Config
	logger    *log.Logger
}

func New(
	tasks *service.TaskService,
	courses *service.CourseService,
	reminders *service.ReminderService,
	dispatch *service.DispatchService,
	boost *service.BoostService,
	cfg config.Config,
	logger *log.Logger,
) *Server {
	return &Server{
		tasks:     tasks,
		courses:   courses,
		reminders: reminders,
		dispatch:  dispatch,
		boost:     boost,
		cfg:       cfg,
		logger:    logger,
	}
}

// Handler builds the route table with CORS applied to every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.createTask)
	mux.HandleFunc("PATCH /tasks/{id}", s.updateTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.deleteTask)

	mux.HandleFunc("GET /courses", s.listCourses)
	mux.HandleFunc("POST /courses", s.createCourse)
	mux.HandleFunc("DELETE /courses/{id}", s.deleteCourse)

	mux.HandleFunc("POST /notifications/token", s.saveToken)
	mux.HandleFunc("POST /notifications/schedule", s.scheduleReminder)
	mux.HandleFunc("GET /notifications/schedule", s.listReminders)
	mux.HandleFunc("POST /notifications/send", s.sendNow)
	mux.HandleFunc("GET /notifications/dispatch", s.dispatchWithAuth)
	mux.HandleFunc("POST /notifications/dispatch", s.runDispatch)

	mux.HandleFunc("GET /daily-boost", s.dailyBoost)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service-layer errors onto the HTTP taxonomy:
// validation 400, not found 404, missing push credentials 500 with the list of
// absent keys, everything else 500 with the error's message.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var notConfigured *service.NotConfiguredError
	switch {
	case errors.Is(err, service.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &notConfigured):
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":      notConfigured.Error(),
			"missingEnv": notConfigured.MissingEnv,
			"hint":       "Set FIREBASE_PROJECT_ID, FIREBASE_CLIENT_EMAIL, FIREBASE_PRIVATE_KEY in the server environment",
		})
	default:
		s.logger.Error("request failed", "err", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// resolveUserID picks the caller-supplied identity, falling back to the
// configured default. "" means no identity is available.
func (s *Server) resolveUserID(requested string) string {
	if requested != "" {
		return requested
	}
	return s.cfg.DefaultUserID
}
