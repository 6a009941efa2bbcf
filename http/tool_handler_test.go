package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcalc/domain"
)

func fakeLLM(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream broke", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

const offerBody = `{"buyerName":"Sam","propertyAddress":"12 Main St","offerPrice":"$410,000"}`

func TestToolHandler_List(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[struct {
		Enabled bool              `json:"enabled"`
		Tools   []domain.ToolInfo `json:"tools"`
	}](t, w)
	assert.False(t, resp.Enabled)
	assert.Len(t, resp.Tools, 5)
}

func TestToolHandler_Success(t *testing.T) {
	llm := fakeLLM(t, http.StatusOK, "Dear seller, ...")
	env := newTestEnv(t, withAI(llm.URL, "key"))

	w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[domain.ToolResponse](t, w)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"text":"Dear seller, ..."}`, string(resp.Data))
	assert.Empty(t, resp.Error)
}

func TestToolHandler_NotConfigured(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	resp := decodeBody[domain.ToolResponse](t, w)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "OPENAI_API_KEY")
}

func TestToolHandler_UnknownTool(t *testing.T) {
	env := newTestEnv(t, withAI("http://127.0.0.1:0", "key"))

	w := env.do(t, http.MethodPost, "/api/tools/astrology", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decodeBody[domain.ToolResponse](t, w).Success)
}

func TestToolHandler_Validation(t *testing.T) {
	env := newTestEnv(t, withAI("http://127.0.0.1:0", "key"))

	w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(`{"buyerName":"Sam"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeBody[domain.ToolResponse](t, w)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Details, "propertyAddress")
	assert.Contains(t, resp.Details, "offerPrice")

	w = env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(`{"buyerName": 5}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolHandler_UpstreamFailure(t *testing.T) {
	llm := fakeLLM(t, http.StatusTooManyRequests, "")
	env := newTestEnv(t, withAI(llm.URL, "key"))

	w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	resp := decodeBody[domain.ToolResponse](t, w)
	assert.NotContains(t, resp.Error, "upstream broke")
}

func TestToolHandler_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	env := newTestEnv(t, withLimiter(limiter))

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	w = env.do(t, http.MethodPost, "/api/tools/offer-letter", strings.NewReader(offerBody), "X-Real-IP", "203.0.113.9")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodGet, "/api/tools", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
