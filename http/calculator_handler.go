package http

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"propcalc/calculator"
	"propcalc/domain"
	"propcalc/render"
	"propcalc/service"
)

const maxCalculatorBody = 64 << 10

type CalculatorHandler struct {
	service  *service.CalculatorService
	renderer *render.Renderer
	logger   *zap.Logger
}

func NewCalculatorHandler(svc *service.CalculatorService, renderer *render.Renderer, logger *zap.Logger) *CalculatorHandler {
	return &CalculatorHandler{service: svc, renderer: renderer, logger: logger}
}

type calculatorSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type calculatorDetail struct {
	calculatorSummary
	Article string              `json:"article,omitempty"`
	Fields  []domain.FieldSpec  `json:"fields"`
	Results []domain.ResultSpec `json:"results"`
}

type evaluationResponse struct {
	Slug     string               `json:"slug"`
	Values   domain.Values        `json:"values"`
	Results  []domain.Result      `json:"results"`
	Warnings []calculator.Warning `json:"warnings"`
}

func summarize(c domain.Content) calculatorSummary {
	return calculatorSummary{Slug: c.Slug, Title: c.Title, Description: c.Description, Category: c.Category}
}

// Index renders the home page listing every calculator.
func (h *CalculatorHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.renderer.Index(&buf, h.service.List("")); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	writeHTML(w, h.logger, http.StatusOK, &buf)
}

// Page renders a calculator. GET reads values from the query string, POST
// from the submitted form.
func (h *CalculatorHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c, err := h.service.Get(slug)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	submitted := r.Method == http.MethodPost
	form := r.URL.Query()
	if submitted {
		r.Body = http.MaxBytesReader(w, r.Body, maxCalculatorBody)
		if err := r.ParseForm(); err != nil {
			h.renderStatus(w, http.StatusBadRequest, "The form could not be read.")
			return
		}
		form = r.PostForm
	}

	eval, err := h.service.Evaluate(slug, calculator.FormValues(c.Calculator.Fields, form, submitted))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Calculator(&buf, eval.Content, eval.Values, eval.Results, eval.Warnings); err != nil {
		h.renderFailure(w, r, err)
		return
	}
	writeHTML(w, h.logger, http.StatusOK, &buf)
}

func (h *CalculatorHandler) List(w http.ResponseWriter, r *http.Request) {
	contents := h.service.List(r.URL.Query().Get("category"))
	out := make([]calculatorSummary, len(contents))
	for i, c := range contents {
		out[i] = summarize(c)
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"calculators": out,
		"categories":  h.service.Categories(),
	})
}

func (h *CalculatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, calculatorDetail{
		calculatorSummary: summarize(c),
		Article:           c.Article,
		Fields:            c.Calculator.Fields,
		Results:           c.Calculator.Results,
	})
}

// Evaluate runs a calculator on a JSON object of raw field values.
func (h *CalculatorHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, err := h.service.Get(slug); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	raw := map[string]any{}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, maxCalculatorBody, &raw); err != nil {
			badRequest(w, h.logger, "request body must be a JSON object of field values")
			return
		}
	}

	eval, err := h.service.Evaluate(slug, raw)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	warnings := eval.Warnings
	if warnings == nil {
		warnings = []calculator.Warning{}
	}
	writeJSON(w, h.logger, http.StatusOK, evaluationResponse{
		Slug:     slug,
		Values:   eval.Values,
		Results:  eval.Results,
		Warnings: warnings,
	})
}

func (h *CalculatorHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		h.renderStatus(w, status, "That calculator does not exist.")
		return
	}
	h.renderFailure(w, r, err)
}

func (h *CalculatorHandler) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("rendering page", zap.String("path", r.URL.Path), zap.Error(err))
	h.renderStatus(w, http.StatusInternalServerError, "Something went wrong.")
}

func (h *CalculatorHandler) renderStatus(w http.ResponseWriter, status int, msg string) {
	renderStatus(w, h.renderer, h.logger, status, msg)
}
