package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"ForecastBoard/internal/dashboard"
	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

type addForm struct {
	Ticker string `validate:"required,max=32"`
}

type pageData struct {
	View  *dashboard.View
	Chart *Chart
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, release := s.Sessions.Acquire(w, r)
	view := s.Controller.Render(r.Context(), sess, requestedTicker(r))
	release()

	data := pageData{View: view}
	if view.HasChart() {
		data.Chart = buildChart(view.Series)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logger.Log.Error("render page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleAdd runs the add action and redirects back to the page, which re-renders
// from a fresh ticker list.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := addForm{Ticker: string(model.NormalizeTicker(r.PostForm.Get("ticker")))}

	sess, release := s.Sessions.Acquire(w, r)
	if err := validate.Struct(form); err != nil {
		// An empty field is a no-op; anything else cannot be a ticker.
		if form.Ticker != "" {
			sess.Flash = append(sess.Flash, model.Message{Level: model.LevelError, Text: "Invalid ticker: " + form.Ticker})
		}
	} else {
		s.Controller.Add(r.Context(), sess, form.Ticker)
	}
	release()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, release := s.Sessions.Acquire(w, r)
	view := s.Controller.Render(r.Context(), sess, requestedTicker(r))
	release()

	writeJSON(w, http.StatusOK, view)
}

// requestedTicker is the selector value as sent. It is matched against the backend list,
// which owns the spelling, so it is not upper-cased.
func requestedTicker(r *http.Request) model.Ticker {
	return model.Ticker(strings.TrimSpace(r.URL.Query().Get("ticker")))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("encode response", zap.Error(err))
	}
}
