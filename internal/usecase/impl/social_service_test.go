package impl

import (
	"context"
	"testing"

	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type socialFixtures struct {
	service   usecase.SocialUsecase
	store     *fakeStore
	publisher *fakePublisher
}

func createTestSocialService(t *testing.T) socialFixtures {
	t.Helper()

	store := newFakeStore()
	publisher := &fakePublisher{}

	svc := NewSocialService(SocialServiceParams{
		FollowRepo:   &fakeFollowRepo{store: store},
		BookmarkRepo: &fakeBookmarkRepo{store: store},
		PostRepo:     &fakePostRepo{store: store},
		UserRepo:     &fakeUserRepo{store: store},
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	})

	return socialFixtures{service: svc, store: store, publisher: publisher}
}

func seedUser(t *testing.T, store *fakeStore, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Username: email, DisplayName: email}
	require.NoError(t, (&fakeUserRepo{store: store}).Create(context.Background(), user))

	return user
}

func TestSocialService_Follow(t *testing.T) {
	fx := createTestSocialService(t)
	follower := seedUser(t, fx.store, "follower@example.com")
	followee := seedUser(t, fx.store, "followee@example.com")

	require.NoError(t, fx.service.Follow(context.Background(), follower.ID, followee.ID))

	followers, err := fx.service.ListFollowers(context.Background(), followee.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, follower.ID, followers[0].FollowerID)

	following, err := fx.service.ListFollowing(context.Background(), follower.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, following, 1)

	// The followee is notified.
	require.Len(t, fx.publisher.events, 1)
	event := fx.publisher.events[0]
	assert.Equal(t, entity.NotificationNewFollower, event.Type)
	assert.Equal(t, followee.ID.String(), event.RecipientID)
	assert.Equal(t, follower.ID.String(), event.ActorID)
}

func TestSocialService_Follow_SelfRejected(t *testing.T) {
	fx := createTestSocialService(t)
	user := seedUser(t, fx.store, "narcissus@example.com")

	err := fx.service.Follow(context.Background(), user.ID, user.ID)

	assert.ErrorIs(t, err, domainerrors.ErrSelfFollow)
	assert.Empty(t, fx.publisher.events)
}

func TestSocialService_Follow_UnknownFollowee(t *testing.T) {
	fx := createTestSocialService(t)
	follower := seedUser(t, fx.store, "follower@example.com")

	err := fx.service.Follow(context.Background(), follower.ID, uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSocialService_Follow_DuplicateConflict(t *testing.T) {
	fx := createTestSocialService(t)
	follower := seedUser(t, fx.store, "follower@example.com")
	followee := seedUser(t, fx.store, "followee@example.com")

	require.NoError(t, fx.service.Follow(context.Background(), follower.ID, followee.ID))
	err := fx.service.Follow(context.Background(), follower.ID, followee.ID)

	assert.ErrorIs(t, err, domainerrors.ErrAlreadyFollowing)
	// No second notification for the failed attempt.
	assert.Len(t, fx.publisher.events, 1)
}

func TestSocialService_Unfollow_NoOpWhenAbsent(t *testing.T) {
	fx := createTestSocialService(t)
	follower := seedUser(t, fx.store, "follower@example.com")
	followee := seedUser(t, fx.store, "followee@example.com")

	assert.NoError(t, fx.service.Unfollow(context.Background(), follower.ID, followee.ID))

	require.NoError(t, fx.service.Follow(context.Background(), follower.ID, followee.ID))
	require.NoError(t, fx.service.Unfollow(context.Background(), follower.ID, followee.ID))
	assert.NoError(t, fx.service.Unfollow(context.Background(), follower.ID, followee.ID))

	followers, err := fx.service.ListFollowers(context.Background(), followee.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestSocialService_Bookmarks(t *testing.T) {
	fx := createTestSocialService(t)
	user := seedUser(t, fx.store, "reader@example.com")
	post := seedPost(t, fx.store, uuid.New())

	require.NoError(t, fx.service.BookmarkPost(context.Background(), user.ID, post.ID))

	err := fx.service.BookmarkPost(context.Background(), user.ID, post.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyBookmarked)

	bookmarks, err := fx.service.ListBookmarks(context.Background(), user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, post.ID, bookmarks[0].PostID)

	require.NoError(t, fx.service.UnbookmarkPost(context.Background(), user.ID, post.ID))
	assert.NoError(t, fx.service.UnbookmarkPost(context.Background(), user.ID, post.ID))

	bookmarks, err = fx.service.ListBookmarks(context.Background(), user.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestSocialService_Bookmark_UnknownPost(t *testing.T) {
	fx := createTestSocialService(t)
	user := seedUser(t, fx.store, "reader@example.com")

	err := fx.service.BookmarkPost(context.Background(), user.ID, uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}
