package server

import (
	"encoding/json"
	"net/http"

	"mood-booster/internal/service"
)

type createCourseRequest struct {
	Name      string `json:"name"`
	Lecturer  string `json:"lecturer"`
	Room      string `json:"room"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	UserID    string `json:"userId"`
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.courses.ListCourses(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, courses)
}

func (s *Server) createCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := s.resolveUserID(req.UserID)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required (no default user configured)")
		return
	}

	course, err := s.courses.CreateCourse(r.Context(), service.CourseInput{
		UserID:    userID,
		Name:      req.Name,
		Lecturer:  req.Lecturer,
		Room:      req.Room,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, course)
}

func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.courses.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
