package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Register(t *testing.T) {
	env := newTestEnv(t)

	t.Run("ok", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/register",
			`{"login":"john@example.com","password":"p@ssw0rd","name":"John","username":"john"}`, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		hasCookie := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" {
				hasCookie = true
			}
		}
		assert.True(t, hasCookie, "Set-Cookie auth_token expected")
		body := decode(t, rr)
		assert.Equal(t, "john", body["username"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "login")
	})

	t.Run("conflict", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/register",
			`{"login":"john@example.com","password":"p@ssw0rd","name":"John","username":"john2"}`, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("validation", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/register", `{"login":"nope","password":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/register", `{`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUser_LoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.register("alice")

	t.Run("ok", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/login", `{"login":"alice@example.com","password":"secret1"}`, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		me := env.do(http.MethodGet, "/api/user/me", "", rr.Result().Cookies())
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, id, decode(t, me)["id"])
	})

	t.Run("unauthorized", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/user/login", `{"login":"alice@example.com","password":"bad"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("me anonymous", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/api/user/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUser_Profile(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.register("maria")

	shown := env.do(http.MethodPost, "/api/goals", `{"name":"Read","icon":"book","goal_days":10}`, cookies)
	require.Equal(t, http.StatusCreated, shown.Code)
	hidden := env.do(http.MethodPost, "/api/goals", `{"name":"Secret","goal_days":10}`, cookies)
	require.Equal(t, http.StatusCreated, hidden.Code)
	hiddenID := decode(t, hidden)["id"].(string)
	rr := env.do(http.MethodPatch, "/api/goals/"+hiddenID+"/visibility", `{"visible":false}`, cookies)
	require.Equal(t, http.StatusOK, rr.Code)

	profile := env.do(http.MethodGet, "/api/profiles/maria", "", nil)
	require.Equal(t, http.StatusOK, profile.Code)
	body := decode(t, profile)
	goals := body["goals"].([]any)
	require.Len(t, goals, 1)
	assert.Equal(t, "Read", goals[0].(map[string]any)["name"])
	assert.Empty(t, body["addictions"])
	assert.Empty(t, body["supports"])

	missing := env.do(http.MethodGet, "/api/profiles/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
