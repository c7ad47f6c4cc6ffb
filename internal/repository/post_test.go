package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelfeed/internal/model"
)

func postRows(posts ...model.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "media_url", "media_caption",
		"created_at", "updated_at",
	})
	for _, p := range posts {
		rows.AddRow(p.ID, p.UserID, p.Title, p.Content, p.MediaURL, p.MediaCaption, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestPostRepository_ListPublic_JoinsAuthorOrderedNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	now := time.Now()
	alice := "alice"
	ext := "ext_1"
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "media_url", "media_caption",
		"created_at", "updated_at", "author_username", "author_external_id",
	}).
		AddRow(2, 1, nil, "newer", nil, nil, now, now, alice, ext).
		AddRow(1, 1, nil, "older", nil, nil, now.Add(-time.Hour), now.Add(-time.Hour), alice, ext)

	mock.ExpectQuery(`SELECT p\.id, .+ FROM posts p\s+JOIN users u ON p\.user_id = u\.id\s+ORDER BY p\.created_at DESC`).
		WillReturnRows(rows)

	posts, err := repo.ListPublic(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Content)
	require.NotNil(t, posts[0].AuthorUsername)
	assert.Equal(t, "alice", *posts[0].AuthorUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByOwner_ScopesToUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(int64(7)).
		WillReturnRows(postRows(model.Post{ID: 1, UserID: 7, Content: "mine"}))

	posts, err := repo.ListByOwner(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(7), posts[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Create_StoresNullOptionals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`INSERT INTO posts \(user_id, title, content, media_url, media_caption, created_at, updated_at\)`).
		WithArgs(int64(7), nil, "hi", nil, nil).
		WillReturnRows(postRows(model.Post{ID: 3, UserID: 7, Content: "hi"}))

	post, err := repo.Create(context.Background(), 7, model.CreatePostRequest{Content: "hi"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), post.ID)
	assert.Nil(t, post.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeleteOwned_Deletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteOwned(context.Background(), 3, 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeleteOwned_WrongOwnerIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	// Zero rows matched: the post is missing or belongs to someone else.
	// Both cases come back identical so callers cannot probe for existence.
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(3), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOwned(context.Background(), 3, 99)

	assert.ErrorIs(t, err, model.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
