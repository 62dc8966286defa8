package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sldmxm/yatube-final/models"
)

func TestFollowAndUnfollowRedirectToProfile(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	reader := createUser(t, db, "reader", "secret1")
	createUser(t, db, "author", "secret1")

	w := doGET(r, "/profile/author/follow", sessionCookie(t, reader))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author", w.Header().Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// a second follow keeps a single edge
	w = doGET(r, "/profile/author/follow", sessionCookie(t, reader))
	require.Equal(t, http.StatusFound, w.Code)
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = doGET(r, "/profile/author/unfollow", sessionCookie(t, reader))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author", w.Header().Get("Location"))
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// unfollowing again is still a redirect, not an error
	w = doGET(r, "/profile/author/unfollow", sessionCookie(t, reader))
	require.Equal(t, http.StatusFound, w.Code)
}

func TestSelfFollowIsNoOp(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	alice := createUser(t, db, "alice", "secret1")

	w := doGET(r, "/profile/alice/follow", sessionCookie(t, alice))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/alice", w.Header().Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	reader := createUser(t, db, "reader", "secret1")
	w := doGET(r, "/profile/ghost/follow", sessionCookie(t, reader))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowRequiresLogin(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db, nil)

	createUser(t, db, "author", "secret1")
	w := doGET(r, "/profile/author/follow", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?next=%2Fprofile%2Fauthor%2Ffollow", w.Header().Get("Location"))
}
