package comment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/apperr"
	"github.com/inkpress/core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	testutil.CreatePost(t, db, alice, "post")
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice.ID, "post", "   ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, alice.ID, "post", strings.Repeat("é", MaxContentLength+1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, alice.ID, "missing", "hello")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	c, err := svc.Create(ctx, alice.ID, "post", strings.Repeat("é", MaxContentLength))
	require.NoError(t, err)
	require.NotNil(t, c.User)
	assert.Equal(t, "Alice", c.User.DisplayName())
}

func TestListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	p := testutil.CreatePost(t, db, alice, "post")
	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, db.Create(&models.CommentModel{
			Base:    models.Base{CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			Content: text, PostID: p.ID, UserID: alice.ID,
		}).Error)
	}

	comments, err := NewService(db).List(context.Background(), "post")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "newest", comments[0].Content)
	assert.Equal(t, "oldest", comments[2].Content)
	assert.Equal(t, alice.ID, comments[0].User.ID)
}

func TestDeleteStrictOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	testutil.CreatePost(t, db, alice, "post")
	svc := NewService(db)
	ctx := context.Background()

	c, err := svc.Create(ctx, alice.ID, "post", "mine")
	require.NoError(t, err)

	err = svc.Delete(ctx, admin.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	comments, err := svc.List(ctx, "post")
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	require.NoError(t, svc.Delete(ctx, alice.ID, c.ID))
	err = svc.Delete(ctx, alice.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestToggleLikeCountMatchesSet(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	testutil.CreatePost(t, db, alice, "post")
	svc := NewService(db)
	ctx := context.Background()

	c, err := svc.Create(ctx, alice.ID, "post", "like me")
	require.NoError(t, err)

	steps := []struct {
		user  string
		liked bool
	}{
		{alice.ID, true},
		{bob.ID, true},
		{alice.ID, false},
		{bob.ID, false},
		{bob.ID, true},
	}
	for _, step := range steps {
		status, err := svc.ToggleLike(ctx, step.user, c.ID)
		require.NoError(t, err)
		assert.Equal(t, step.liked, status.IsLiked)

		var stored models.CommentModel
		require.NoError(t, db.First(&stored, "id = ?", c.ID).Error)
		assert.Equal(t, len(stored.Likes), status.Likes)
	}

	_, err = svc.ToggleLike(ctx, bob.ID, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
