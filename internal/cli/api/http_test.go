package api

import (
	fsrepo "VitoriaDiaria/internal/cli/repo/fs"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: перенастройка конфиг‑каталога в temp
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestPostJSON_SendsToken_And_ParsesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "tok123", c.Value)
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var m map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, float64(1), m["x"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("  {\"ok\":true}\n"))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestGetJSON_NoToken_NoCookieAndNoBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Cookie"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	resp, body, err := GetJSON(context.Background(), ts.URL, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
}

func TestPatchJSON_Method(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	resp, _, err := PatchJSON(context.Background(), ts.URL, map[string]bool{"visible": true}, "t")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestDo_Errors(t *testing.T) {
	ctx := context.Background()
	// chan в payload вызовет ошибку json.Marshal
	_, _, err := PostJSON(ctx, "http://example.invalid", map[string]any{"c": make(chan int)}, "")
	assert.Error(t, err)

	_, _, err = PostJSON(ctx, "http://[::1", map[string]any{"a": 1}, "")
	assert.Error(t, err, "invalid URL")

	_, _, err = GetJSON(ctx, "http://127.0.0.1:1", "")
	assert.Error(t, err, "unreachable address")
}

func TestEndpoint_And_ErrorMessage(t *testing.T) {
	assert.Equal(t, "http://h:1/api/user/me", Endpoint("http://h:1/", "/api/user/me"))
	assert.Equal(t, "http://h:1/api/goals", Endpoint("http://h:1", "api/goals"))

	assert.Equal(t, "login already in use", ErrorMessage([]byte(`{"error":"login already in use"}`)))
	assert.Equal(t, "boom", ErrorMessage([]byte("boom")))
}

func TestPersistAuthFromResponse(t *testing.T) {
	setTempCfg(t)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: "other", Value: "abc"}).String())
	resp.Header.Add("Set-Cookie", (&http.Cookie{Name: CookieName, Value: "tok-abc"}).String())
	require.NoError(t, PersistAuthFromResponse(resp))

	tok, err := (fsrepo.AuthFSStore{}).Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	empty := &http.Response{Header: http.Header{}}
	empty.Header.Add("Set-Cookie", (&http.Cookie{Name: CookieName, Value: ""}).String())
	assert.ErrorIs(t, PersistAuthFromResponse(empty), ErrNoAuthCookie)
	assert.ErrorIs(t, PersistAuthFromResponse(&http.Response{Header: http.Header{}}), ErrNoAuthCookie)
}
