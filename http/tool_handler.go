package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"propcalc/domain"
	"propcalc/service"
)

const maxToolBody = 32 << 10

type ToolHandler struct {
	service *service.AIService
	logger  *zap.Logger
}

func NewToolHandler(svc *service.AIService, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{service: svc, logger: logger}
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"enabled": h.service.Enabled(),
		"tools":   h.service.Tools(),
	})
}

// Run proxies one tool request to the model and always answers with a
// ToolResponse envelope.
func (h *ToolHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool")

	var input domain.ToolInput
	if r.ContentLength == 0 {
		input = domain.ToolInput{}
	} else if err := decodeJSON(w, r, maxToolBody, &input); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, domain.ToolResponse{
			Error: "request body must be a JSON object of string fields",
		})
		return
	}

	data, err := h.service.Run(r.Context(), name, input)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			h.logger.Error("tool request failed", zap.String("tool", name), zap.Int("status", status), zap.Error(err))
		}
		writeJSON(w, h.logger, status, domain.ToolResponse{
			Error:   publicMessage(err, status),
			Details: validationDetails(err),
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, domain.ToolResponse{Success: true, Data: data})
}
