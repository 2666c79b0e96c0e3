package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Error("internal server error",
		zap.String("method", r.Method),
		zap.String("uri", r.URL.RequestURI()),
		zap.Stack("stack"),
		zap.Error(err),
	)
	app.clientError(w, http.StatusInternalServerError, "Server error")
}

func (app *application) clientError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn("health check: database unreachable", zap.Error(err))
		app.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
