package http

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"propcalc/render"
)

func writeHTML(w http.ResponseWriter, logger *zap.Logger, status int, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("writing page", zap.Error(err))
	}
}

// renderStatus renders the error page, falling back to plain text when the
// template itself fails.
func renderStatus(w http.ResponseWriter, renderer *render.Renderer, logger *zap.Logger, status int, msg string) {
	var buf bytes.Buffer
	if err := renderer.Error(&buf, status, msg); err != nil {
		logger.Error("rendering error page", zap.Error(err))
		http.Error(w, msg, status)
		return
	}
	writeHTML(w, logger, status, &buf)
}
