package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory_api/internal/app/service"
	"inventory_api/internal/common/security"
	"inventory_api/internal/domain/model"
	"inventory_api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T, emitTokenOnRegister bool) http.Handler {
	t.Helper()
	security.InitJWT([]byte(testSecret), time.Hour)

	itemRepo := repository.NewMemoryItemRepository()
	cache := repository.NewNoopCategoryCache()
	return NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.NewAuthService(repository.NewMemoryUserRepository(), emitTokenOnRegister),
		service.NewItemService(itemRepo, cache),
		service.NewCategoryService(itemRepo, cache),
	)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func registerAndLogin(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[map[string]any](t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, false)
	rec := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRegister_ResponseShape(t *testing.T) {
	h := newTestRouter(t, false)

	rec := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "User created", body["message"])
	assert.NotContains(t, body, "token")
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "hashed_password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestRegister_EmitsToken(t *testing.T) {
	h := newTestRouter(t, true)

	rec := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := decode[map[string]any](t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = do(t, h, http.MethodGet, "/items", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_Errors(t *testing.T) {
	h := newTestRouter(t, false)

	rec := do(t, h, http.MethodPost, "/auth/register", "", map[string]string{"email": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])

	creds := map[string]string{"name": "A", "email": "dup@example.com", "password": "pw"}
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", "", creds).Code)
	rec = do(t, h, http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	h := newTestRouter(t, false)
	registerAndLogin(t, h)

	wrongPw := do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	unknown := do(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestAuth_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, false)

	for _, path := range []string{"/auth/login", "/auth/register"} {
		rec := do(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, "Method not allowed", decode[map[string]string](t, rec)["error"])
	}

	rec := do(t, h, http.MethodPost, "/categories", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestItems_RequireToken(t *testing.T) {
	h := newTestRouter(t, false)
	id := uuid.NewString()
	item := map[string]any{"name": "n", "description": "d", "quantity": 1, "category": "c"}

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/items", nil},
		{http.MethodPost, "/items", item},
		{http.MethodPut, "/items/" + id, item},
		{http.MethodDelete, "/items/" + id, nil},
	}
	for _, tc := range cases {
		rec := do(t, h, tc.method, tc.path, "", tc.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])

		rec = do(t, h, tc.method, tc.path, "garbage.token.value", tc.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with bad token", tc.method, tc.path)
	}
}

func TestItems_TokenFromOtherSecretRejected(t *testing.T) {
	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)

	security.InitJWT([]byte("another-secret"), time.Hour)
	forged, err := security.GenerateToken("someone")
	require.NoError(t, err)
	security.InitJWT([]byte(testSecret), time.Hour)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/items", forged, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/items", token, nil).Code)
}

func TestItems_CRUDAndFilters(t *testing.T) {
	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)

	rec := do(t, h, http.MethodGet, "/items", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/items", token, map[string]any{
		"name": "Hammer", "description": "Claw hammer", "quantity": 5, "category": "tools",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hammer := decode[model.Item](t, rec)
	assert.Equal(t, 5, hammer.Quantity)

	rec = do(t, h, http.MethodPost, "/items", token, map[string]any{
		"name": "Rake", "description": "Leaf rake", "quantity": "0", "category": "garden",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rake := decode[model.Item](t, rec)

	ids := func(path string) []string {
		rec := do(t, h, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		out := []string{}
		for _, it := range decode[[]model.Item](t, rec) {
			out = append(out, it.ID)
		}
		return out
	}

	assert.Equal(t, []string{hammer.ID, rake.ID}, ids("/items"))
	assert.Equal(t, []string{hammer.ID}, ids("/items?inStock=true"))
	assert.Equal(t, []string{rake.ID}, ids("/items?inStock=false"))
	assert.Equal(t, []string{hammer.ID}, ids("/items?category=tools"))
	assert.Equal(t, []string{}, ids("/items?category=other"))
	assert.Equal(t, []string{}, ids("/items?category=tools&inStock=false"))

	rec = do(t, h, http.MethodPut, "/items/"+rake.ID, token, map[string]any{
		"name": "Rake", "description": "Leaf rake", "quantity": 3, "category": "garden",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[model.Item](t, rec).Quantity)
	assert.Equal(t, []string{hammer.ID, rake.ID}, ids("/items?inStock=true"))

	rec = do(t, h, http.MethodDelete, "/items/"+hammer.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []string{rake.ID}, ids("/items"))

	rec = do(t, h, http.MethodDelete, "/items/"+hammer.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItems_ValidationAndNotFound(t *testing.T) {
	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)

	for _, body := range []map[string]any{
		{"name": "n", "description": "d", "quantity": "abc", "category": "c"},
		{"name": "n", "description": "d", "quantity": -1, "category": "c"},
		{"name": "n", "description": "d", "quantity": 1.5, "category": "c"},
		{"name": "n", "description": "d", "quantity": 3000000000, "category": "c"},
		{"name": "n", "description": "d", "category": "c"},
		{"description": "d", "quantity": 1, "category": "c"},
	} {
		rec := do(t, h, http.MethodPost, "/items", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
	}

	valid := map[string]any{"name": "n", "description": "d", "quantity": 1, "category": "c"}
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/items/"+uuid.NewString(), token, valid).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/items/42", token, valid).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/items/42", token, nil).Code)
}

func TestCategories_PublicAndDistinct(t *testing.T) {
	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)

	rec := do(t, h, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, c := range []string{"tools", "garden", "tools", "tools"} {
		rec := do(t, h, http.MethodPost, "/items", token, map[string]any{
			"name": "x", "description": "y", "quantity": 1, "category": c,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"garden", "tools"}, decode[[]string](t, rec))
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, false)
	rec := do(t, h, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[map[string]string](t, rec)["error"])
}

func TestMalformedBody_DoesNotLeakDecoderText(t *testing.T) {
	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)

	cases := []struct {
		method, path, token string
	}{
		{http.MethodPost, "/auth/register", ""},
		{http.MethodPost, "/auth/login", ""},
		{http.MethodPost, "/items", token},
		{http.MethodPut, "/items/" + uuid.NewString(), token},
	}
	for _, tc := range cases {
		rec := do(t, h, tc.method, tc.path, tc.token, json.RawMessage(`{"name":5,"email":[]}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Equal(t, "Invalid request payload", decode[map[string]string](t, rec)["error"], tc.path)
		assert.NotContains(t, rec.Body.String(), "Go struct", tc.path)
	}
}

func TestItems_WritesAreLoggedWithUser(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := newTestRouter(t, false)
	token := registerAndLogin(t, h)
	userID, err := security.VerifyRequest(authRequest(token))
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/items", token, map[string]any{
		"name": "Hammer", "description": "Claw", "quantity": 1, "category": "tools",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[model.Item](t, rec)

	assert.Contains(t, logs.String(), `"msg":"item created"`)
	assert.Contains(t, logs.String(), `"item_id":"`+item.ID+`"`)
	assert.Contains(t, logs.String(), `"user_id":"`+userID+`"`)
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
