package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sldmxm/yatube-final/models"
	"github.com/sldmxm/yatube-final/utils"
)

func TestSignupCreatesAccountAndSignsIn(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	w := doForm(r, http.MethodPost, "/auth/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	code, data := decodeEnvelope(t, w)
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, data["token"])

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "secret1"))

	// the session cookie is set alongside the token payload
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == utils.AuthCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSignupRejectsTakenUsername(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	createUser(t, db, "alice", "secret1")
	w := doForm(r, http.MethodPost, "/auth/signup", url.Values{
		"username": {"alice"},
		"password": {"secret2"},
		"confirm":  {"secret2"},
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	_, data := decodeEnvelope(t, w)
	errs := data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "username")
}

func TestSignupRejectsMismatchedPasswords(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	w := doForm(r, http.MethodPost, "/auth/signup", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
		"confirm":  {"different"},
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	_, data := decodeEnvelope(t, w)
	errs := data["errors"].(map[string]interface{})
	assert.Contains(t, errs, "confirm")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLoginWithValidCredentials(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	createUser(t, db, "alice", "secret1")
	w := doForm(r, http.MethodPost, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	code, data := decodeEnvelope(t, w)
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, data["token"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	createUser(t, db, "alice", "secret1")

	w := doForm(r, http.MethodPost, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doForm(r, http.MethodPost, "/auth/login", url.Values{
		"username": {"ghost"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRedirectsToNext(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	createUser(t, db, "alice", "secret1")
	w := doForm(r, http.MethodPost, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
		"next":     {"/create"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create", w.Header().Get("Location"))

	var sessionSet bool
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.AuthCookieName && c.Value != "" {
			sessionSet = true
		}
	}
	assert.True(t, sessionSet)
}

func TestLoginPageEchoesNext(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	w := doGET(r, "/auth/login?next=%2Fcreate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w)
	assert.Equal(t, "/create", data["next"])
}

func TestLogoutRevokesSession(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	alice := createUser(t, db, "alice", "secret1")
	cookie := sessionCookie(t, alice)

	w := doGET(r, "/auth/me", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doForm(r, http.MethodPost, "/auth/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// the same token no longer authenticates
	w = doGET(r, "/auth/me", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestMeReturnsCaller(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	alice := createUser(t, db, "alice", "secret1")
	w := doGET(r, "/auth/me", sessionCookie(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	// the password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")
}
