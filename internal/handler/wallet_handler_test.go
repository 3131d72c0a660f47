package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mth-wallet/internal/service/wallet"
	"mth-wallet/internal/storage"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Init())

	m, err := wallet.NewManager(storage.NewFileStore(t.TempDir()), wallet.Options{
		Password:      "test-password",
		KDFIterations: 1000,
	})
	require.NoError(t, err)
	h := NewWalletHandler(m)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/wallets", h.ListWallets)
	api.POST("/wallets", h.CreateWallet)
	api.POST("/wallets/import", h.ImportWallet)
	api.POST("/wallets/:name/load", h.LoadWallet)
	api.DELETE("/wallets/:name", h.DeleteWallet)
	api.GET("/wallet", h.GetWalletInfo)
	api.GET("/accounts", h.ListAccounts)
	api.POST("/accounts", h.AddAccount)
	api.POST("/accounts/import", h.ImportPrivateKey)
	api.GET("/accounts/selected", h.GetSelectedAccount)
	api.PUT("/accounts/selected", h.SelectAccount)
	api.DELETE("/accounts/:index", h.RemoveAccount)
	api.POST("/sign", h.SignTransaction)
	api.POST("/verify", h.VerifySignature)
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWalletHandlerFlow(t *testing.T) {
	r := newTestEngine(t)

	env := do(t, r, http.MethodGet, "/api/v1/accounts", nil)
	assert.Equal(t, errno.ErrNoWalletLoaded.Code, env.Code)

	env = do(t, r, http.MethodPost, "/api/v1/wallets/import", gin.H{"name": "main", "mnemonic": testMnemonic})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	var imported wallet.ImportWalletResult
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.Equal(t, "0x587bec2e2ea2354eade8a49c74df81b368b27e32", imported.Address)
	assert.Equal(t, 1, imported.TotalAccounts)

	env = do(t, r, http.MethodPost, "/api/v1/wallets/import", gin.H{"name": "main", "mnemonic": testMnemonic})
	assert.Equal(t, errno.ErrWalletExists.Code, env.Code)

	env = do(t, r, http.MethodPost, "/api/v1/accounts", gin.H{"mnemonic": testMnemonic})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	var added wallet.AccountInfo
	require.NoError(t, json.Unmarshal(env.Data, &added))
	assert.Equal(t, 1, added.Index)
	assert.False(t, added.IsSelected)
	assert.Equal(t, "m/44'/55555'/0'/0/1", added.DerivationPath)

	env = do(t, r, http.MethodPut, "/api/v1/accounts/selected", gin.H{"index": 1})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)

	env = do(t, r, http.MethodGet, "/api/v1/accounts/selected", nil)
	var selected wallet.AccountInfo
	require.NoError(t, json.Unmarshal(env.Data, &selected))
	assert.Equal(t, "0x77945c2a933bf64d6bb0f03ce3d21392af8dd499", selected.Address)

	env = do(t, r, http.MethodPost, "/api/v1/sign", gin.H{"data": "0xdeadbeef"})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	var signed wallet.SignResult
	require.NoError(t, json.Unmarshal(env.Data, &signed))
	assert.Equal(t, selected.PublicKey, signed.PublicKey)

	env = do(t, r, http.MethodPost, "/api/v1/verify", gin.H{"data": "0xdeadbeef", "signature": signed.Signature})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	assert.JSONEq(t, `{"valid":true}`, string(env.Data))

	env = do(t, r, http.MethodPost, "/api/v1/verify", gin.H{"data": "0xdeadbeee", "signature": signed.Signature, "public_key": signed.PublicKey})
	assert.JSONEq(t, `{"valid":false}`, string(env.Data))

	env = do(t, r, http.MethodDelete, "/api/v1/accounts/0", nil)
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	env = do(t, r, http.MethodDelete, "/api/v1/accounts/0", nil)
	assert.Equal(t, errno.ErrInvariant.Code, env.Code, "last account cannot be removed")

	env = do(t, r, http.MethodGet, "/api/v1/wallet", nil)
	var info wallet.WalletInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, "main", info.Name)
	assert.Equal(t, 1, info.TotalAccounts)
	assert.Equal(t, "bip44", info.Derivation)

	env = do(t, r, http.MethodGet, "/api/v1/wallets", nil)
	assert.JSONEq(t, `["main"]`, string(env.Data))
}

func TestWalletHandlerValidation(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"missing name", http.MethodPost, "/api/v1/wallets", gin.H{}, errno.ErrValidation.Code},
		{"path traversal name", http.MethodPost, "/api/v1/wallets", gin.H{"name": "../evil"}, errno.ErrValidation.Code},
		{"bad mnemonic", http.MethodPost, "/api/v1/wallets/import", gin.H{"name": "w", "mnemonic": "not a mnemonic"}, errno.ErrValidation.Code},
		{"odd hex", http.MethodPost, "/api/v1/sign", gin.H{"data": "0xabc"}, errno.ErrValidation.Code},
		{"missing index", http.MethodPut, "/api/v1/accounts/selected", gin.H{}, errno.ErrValidation.Code},
		{"negative index", http.MethodPut, "/api/v1/accounts/selected", gin.H{"index": -1}, errno.ErrValidation.Code},
		{"bad path index", http.MethodDelete, "/api/v1/accounts/abc", nil, errno.ErrValidation.Code},
		{"sign without wallet", http.MethodPost, "/api/v1/sign", gin.H{"data": "0x00"}, errno.ErrNoWalletLoaded.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, env.Code, env.Message)
		})
	}
}

func TestLoadWalletMissing(t *testing.T) {
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/api/v1/wallets/nope/load", nil)
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	assert.JSONEq(t, `{"loaded":false}`, string(env.Data))
}

func TestCreateWalletReturnsMnemonicOnce(t *testing.T) {
	r := newTestEngine(t)

	env := do(t, r, http.MethodPost, "/api/v1/wallets", gin.H{"name": "fresh"})
	require.Equal(t, errno.OK.Code, env.Code, env.Message)
	var created wallet.CreateWalletResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, bytes.Fields([]byte(created.Mnemonic)), 24)

	env = do(t, r, http.MethodGet, "/api/v1/wallet", nil)
	assert.NotContains(t, string(env.Data), created.Mnemonic)
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthCheck)

	env := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, errno.OK.Code, env.Code)
}

