package web

import "net/http"

func (s *Server) handleListDevelopers(w http.ResponseWriter, r *http.Request) {
	devs, err := s.cfg.Catalog.ListDevelopers(r.Context(), r.URL.Query().Get("featured") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, devs, http.StatusOK)
}

func (s *Server) handleGetDeveloper(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := s.cfg.Catalog.GetDeveloper(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, d, http.StatusOK)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.cfg.Catalog.ListLocations(r.Context(), r.URL.Query().Get("featured") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, locs, http.StatusOK)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := s.cfg.Catalog.GetLocation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, l, http.StatusOK)
}
