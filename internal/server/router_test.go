package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"mth-wallet/docs"
	"mth-wallet/internal/handler"
	"mth-wallet/internal/service/wallet"
	"mth-wallet/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m, err := wallet.NewManager(storage.NewFileStore(t.TempDir()), wallet.Options{
		Password:      "pw",
		KDFIterations: 1000,
	})
	require.NoError(t, err)
	r, err := NewHTTPRouter(handler.NewWalletHandler(m))
	require.NoError(t, err)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouterBaseRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path     string
		contains string
	}{
		{"/health", `"status":"UP"`},
		{"/api/v1/ping", `"pong":true`},
		{"/api/v1/wallets", `"code":0`},
		{"/swagger/doc.json", `"/api/v1/sign"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(r, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRouterMetrics(t *testing.T) {
	r := newTestRouter(t)

	// 先产生一次业务请求
	require.Equal(t, http.StatusOK, get(r, "/api/v1/wallets").Code)

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "http_requests_total"), "http metrics exported")
	assert.Contains(t, body, "wallet_commands_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/nope").Code)
}

func TestSwaggerDocMatchesRoutes(t *testing.T) {
	r := newTestRouter(t)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	param := regexp.MustCompile(`:(\w+)`)
	documented := 0
	for _, route := range r.Routes() {
		if route.Path != "/health" && !strings.HasPrefix(route.Path, "/api/v1/") {
			continue
		}
		if route.Path == "/api/v1/ping" {
			continue
		}
		path := param.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "undocumented path %s", path) {
			_, ok = ops[strings.ToLower(route.Method)]
			assert.True(t, ok, "undocumented %s %s", route.Method, path)
		}
		documented++
	}

	total := 0
	for _, ops := range doc.Paths {
		total += len(ops)
	}
	assert.Equal(t, total, documented, "doc lists routes the router does not serve")
}
