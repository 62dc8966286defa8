package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/models"
)

func createComment(t *testing.T, db *gorm.DB, post models.Post, author models.User, text string, created time.Time) models.Comment {
	t.Helper()
	comment := models.Comment{PostID: post.ID, UserID: author.ID, Text: text, Created: created}
	require.NoError(t, db.Create(&comment).Error)
	return comment
}

func TestListForPostOldestFirstWithAuthors(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, nil, "a post", time.Now())

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createComment(t, db, post, bob, "first", base)
	createComment(t, db, post, alice, "second", base.Add(time.Minute))
	createComment(t, db, post, bob, "third", base.Add(2*time.Minute))

	comments, err := repo.ListForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "third", comments[2].Text)
	assert.Equal(t, "bob", comments[0].Author.Username)
	assert.Equal(t, "alice", comments[1].Author.Username)
}

func TestListForPostScopedToOnePost(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	alice := createUser(t, db, "alice")
	first := createPost(t, db, alice, nil, "first post", time.Now())
	second := createPost(t, db, alice, nil, "second post", time.Now())

	createComment(t, db, first, alice, "on first", time.Now())
	createComment(t, db, second, alice, "on second", time.Now())

	comments, err := repo.ListForPost(first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "on first", comments[0].Text)

	count, err := repo.CountForPost(second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListForPostEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice, nil, "quiet post", time.Now())

	comments, err := repo.ListForPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
