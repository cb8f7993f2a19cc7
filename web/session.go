package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/spektr-org/bugdash/engine"
)

const (
	sessionName     = "bugdash"
	sessionIDKey    = "id"
	sessionSelKey   = "selection"
	sessionLogField = "session"
)

// session wraps the gorilla session holding one browser's filter selection.
// The selection lives only in the signed cookie; nothing is written server side.
type session struct {
	raw *sessions.Session
}

func (h *Handlers) session(r *http.Request) *session {
	raw, err := h.sessions.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie yields a fresh session.
		h.logger.Debug("discarding invalid session cookie", "error", err)
	}
	if _, ok := raw.Values[sessionIDKey].(string); !ok {
		raw.Values[sessionIDKey] = uuid.NewString()
	}
	return &session{raw: raw}
}

func (s *session) id() string {
	id, _ := s.raw.Values[sessionIDKey].(string)
	return id
}

// selection returns the stored selection, or ok=false when none is stored.
func (s *session) selection() (sel engine.Selection, ok bool) {
	data, isString := s.raw.Values[sessionSelKey].(string)
	if !isString {
		return engine.Selection{}, false
	}
	if err := json.Unmarshal([]byte(data), &sel); err != nil {
		return engine.Selection{}, false
	}
	if sel.Severities == nil {
		sel.Severities = []string{}
	}
	if sel.Domains == nil {
		sel.Domains = []string{}
	}
	return sel, true
}

func (s *session) setSelection(sel engine.Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	s.raw.Values[sessionSelKey] = string(data)
	return nil
}

func (s *session) clearSelection() {
	delete(s.raw.Values, sessionSelKey)
}

// save writes the cookie. It must run before the response body starts.
func (s *session) save(w http.ResponseWriter, r *http.Request) error {
	return s.raw.Save(r, w)
}
