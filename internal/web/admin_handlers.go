package web

import "net/http"

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.cfg.Stats.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, st, http.StatusOK)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.cfg.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, users, http.StatusOK)
}
