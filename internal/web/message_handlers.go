package web

import (
	"net/http"
	"strconv"

	"github.com/evcraddock/realty-site/internal/message"
)

// handleContact stores a message from the public contact form.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var m message.Message
	if !decodeJSON(w, r, &m) {
		return
	}
	saved, err := s.cfg.Messages.Submit(r.Context(), &m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.notify(func() error { return s.cfg.Notifier.MessageReceived(saved) }, "message")
	apiJSON(w, saved, http.StatusCreated)
}

func (s *Server) handleAdminListMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f message.Filter
	if v := q.Get("status"); v != "" {
		st, err := message.ParseStatus(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		f.Status = st
	}
	for key, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				apiError(w, key+" must be a non-negative integer", http.StatusBadRequest)
				return
			}
			*dst = n
		}
	}
	if v := q.Get("property"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "property must be an integer", http.StatusBadRequest)
			return
		}
		f.PropertyID = n
	}

	msgs, err := s.cfg.Messages.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, msgs, http.StatusOK)
}

func (s *Server) handleAdminGetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := s.cfg.Messages.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, m, http.StatusOK)
}

// handleAdminUpdateMessage changes a message's status. Body: {"status": "read"}.
func (s *Server) handleAdminUpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.cfg.Messages.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, m, http.StatusOK)
}

func (s *Server) handleAdminDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.cfg.Messages.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
