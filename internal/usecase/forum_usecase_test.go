package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pratorinaldo/internal/domain/entity"
	"pratorinaldo/internal/infrastructure/realtime"
	"pratorinaldo/pkg/errors"
)

func categoryRoomName(categoryID string) string { return "forum:category:" + categoryID }
func threadRoomName(threadID string) string     { return "forum:thread:" + threadID }

type forumFixture struct {
	uc    *ForumUseCase
	forum *fakeForumRepo
	rt    *recordingRealtime
}

func newForumFixture(t *testing.T) *forumFixture {
	t.Helper()

	userRepo := newFakeUserRepo(
		verifiedUser("alice", "prato"),
		verifiedUser("bob", "prato"),
		adminUser("admin", "prato"),
	)
	pending := verifiedUser("newcomer", "prato")
	pending.VerificationStatus = entity.VerificationPending
	_ = userRepo.Create(context.Background(), pending)

	moderator := verifiedUser("mod", "prato")
	moderator.Role = entity.RoleModerator
	_ = userRepo.Create(context.Background(), moderator)

	forum := newFakeForumRepo()
	forum.categories["cat1"] = &entity.ForumCategory{
		ID: "cat1", TenantID: "prato", Name: "Giardini", CreatedAt: time.Now(),
	}

	rt := newRecordingRealtime()
	return &forumFixture{
		uc:    NewForumUseCase(forum, userRepo, rt, categoryRoomName, threadRoomName),
		forum: forum,
		rt:    rt,
	}
}

func TestCreateThreadPushesCategoryList(t *testing.T) {
	f := newForumFixture(t)

	thread, err := f.uc.CreateThread(context.Background(), "alice", CreateThreadInput{
		CategoryID: "cat1",
		Title:      "Orto condiviso",
		Content:    "Chi vuole partecipare?",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, thread.ReplyCount)

	items, ok := f.rt.replaced["forum:category:cat1"]
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, thread.ID, items[0].ItemID())
}

func TestCreateThreadRequiresVerifiedResident(t *testing.T) {
	f := newForumFixture(t)

	_, err := f.uc.CreateThread(context.Background(), "newcomer", CreateThreadInput{
		CategoryID: "cat1",
		Title:      "Hello",
		Content:    "First post",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestCreatePostPublishesInsertAndReordersList(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	thread, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1",
		Title:      "Orto condiviso",
		Content:    "Chi vuole partecipare?",
	})
	require.NoError(t, err)

	post, err := f.uc.CreatePost(ctx, "bob", thread.ID, CreatePostInput{
		Content: "Io ci sono!",
		TempID:  "tmp-7",
	})
	require.NoError(t, err)

	var insert *publishedEvent
	for i := range f.rt.published {
		if f.rt.published[i].ev.Type == realtime.EventInsert && f.rt.published[i].ev.Table == "forum_posts" {
			insert = &f.rt.published[i]
		}
	}
	require.NotNil(t, insert)
	assert.Equal(t, "forum:thread:"+thread.ID, insert.room)
	assert.Equal(t, "tmp-7", insert.ev.TempID)
	assert.Equal(t, post.ID, insert.ev.Item.ItemID())

	updated, err := f.forum.GetThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ReplyCount)
}

func TestCreatePostOnLockedThread(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	thread, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1",
		Title:      "Orto condiviso",
		Content:    "Chi vuole partecipare?",
	})
	require.NoError(t, err)

	locked := true
	_, err = f.uc.SetThreadFlags(ctx, "mod", thread.ID, nil, &locked)
	require.NoError(t, err)

	_, err = f.uc.CreatePost(ctx, "bob", thread.ID, CreatePostInput{Content: "late reply"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "THREAD_LOCKED"))
}

func TestPinnedThreadsSortFirst(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	older, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1", Title: "Older thread", Content: "first",
	})
	require.NoError(t, err)
	older.LastActivity = time.Now().Add(-time.Hour)

	newer, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1", Title: "Newer thread", Content: "second",
	})
	require.NoError(t, err)

	pinned := true
	_, err = f.uc.SetThreadFlags(ctx, "mod", older.ID, &pinned, nil)
	require.NoError(t, err)

	threads, _, err := f.uc.ListThreads(ctx, "cat1", 10, 0)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, older.ID, threads[0].ID)
	assert.Equal(t, newer.ID, threads[1].ID)

	// The pin also reaches realtime subscribers through a wholesale
	// list replace, in the same order.
	items := f.rt.replaced["forum:category:cat1"]
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ItemID())
}

func TestSetThreadFlagsRequiresModerator(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	thread, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1", Title: "Orto condiviso", Content: "ciao",
	})
	require.NoError(t, err)

	locked := true
	_, err = f.uc.SetThreadFlags(ctx, "alice", thread.ID, nil, &locked)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeletePostAuthorOrModeratorOnly(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	thread, err := f.uc.CreateThread(ctx, "alice", CreateThreadInput{
		CategoryID: "cat1", Title: "Orto condiviso", Content: "ciao",
	})
	require.NoError(t, err)

	post, err := f.uc.CreatePost(ctx, "bob", thread.ID, CreatePostInput{Content: "spam"})
	require.NoError(t, err)

	err = f.uc.DeletePost(ctx, "alice", thread.ID, post.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, f.uc.DeletePost(ctx, "mod", thread.ID, post.ID))

	posts, _, err := f.uc.ListPosts(ctx, thread.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}
