package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sldmxm/yatube-final/models"
)

func TestFindBySlugReturnsNilWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	group, err := repo.FindBySlug("nope")
	require.NoError(t, err)
	assert.Nil(t, group)

	created := createGroup(t, db, "Cats", "cats")
	group, err = repo.FindBySlug("cats")
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, created.ID, group.ID)
}

func TestListOrdersByTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	createGroup(t, db, "Zebras", "zebras")
	createGroup(t, db, "Ants", "ants")

	groups, err := repo.List()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ants", groups[0].Title)
	assert.Equal(t, "Zebras", groups[1].Title)
}

func TestDeleteDetachesPosts(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)

	alice := createUser(t, db, "alice")
	cats := createGroup(t, db, "Cats", "cats")
	post := createPost(t, db, alice, &cats, "a cat post", time.Now())

	require.NoError(t, groups.Delete(cats.ID))

	gone, err := groups.FindBySlug("cats")
	require.NoError(t, err)
	assert.Nil(t, gone)

	// the post survives with its group reference cleared
	reloaded, err := posts.FindByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Nil(t, reloaded.GroupID)
	assert.Equal(t, "a cat post", reloaded.Text)
}

func TestDuplicateSlugRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewGroupRepository(db)

	createGroup(t, db, "Cats", "cats")
	err := repo.Create(&models.Group{Title: "Other cats", Slug: "cats"})
	assert.Error(t, err)
}
