package server

import (
	"net/http"
	"time"
)

func (s *Server) dailyBoost(w http.ResponseWriter, r *http.Request) {
	boost, err := s.boost.Boost(r.Context(), time.Now())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, boost)
}
