package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"plume/internal/domain/entity"
	domainerrors "plume/internal/domain/errors"
	"plume/internal/domain/repository"
	"plume/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory backing store shared by the fake repositories.
// Tests exercise services against it instead of mocking call-by-call
// expectations, which keeps multi-step lifecycle flows readable.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	credentials   map[uuid.UUID]*entity.Credential
	posts         map[uuid.UUID]*entity.Post
	comments      map[uuid.UUID]*entity.Comment
	follows       map[uuid.UUID]*entity.Follow
	bookmarks     map[uuid.UUID]*entity.Bookmark
	notifications map[uuid.UUID]*entity.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]*entity.User),
		credentials:   make(map[uuid.UUID]*entity.Credential),
		posts:         make(map[uuid.UUID]*entity.Post),
		comments:      make(map[uuid.UUID]*entity.Comment),
		follows:       make(map[uuid.UUID]*entity.Follow),
		bookmarks:     make(map[uuid.UUID]*entity.Bookmark),
		notifications: make(map[uuid.UUID]*entity.Notification),
	}
}

// fakeTxManager satisfies TransactionManager by running the callback against
// the shared store. Rollback is not simulated; tests assert on the error
// paths the services take before any write.
type fakeTxManager struct {
	store *fakeStore
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeFactory{store: tm.store})
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{store: f.store} }
func (f *fakeFactory) CredentialRepo() repository.CredentialRepository {
	return &fakeCredentialRepo{store: f.store}
}
func (f *fakeFactory) PostRepo() repository.PostRepository { return &fakePostRepo{store: f.store} }
func (f *fakeFactory) CommentRepo() repository.CommentRepository {
	return &fakeCommentRepo{store: f.store}
}
func (f *fakeFactory) FollowRepo() repository.FollowRepository {
	return &fakeFollowRepo{store: f.store}
}
func (f *fakeFactory) BookmarkRepo() repository.BookmarkRepository {
	return &fakeBookmarkRepo{store: f.store}
}
func (f *fakeFactory) NotificationRepo() repository.NotificationRepository {
	return &fakeNotificationRepo{store: f.store}
}

// --- user repo ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user, ok := r.store.users[id]; ok {
		cloned := *user

		return &cloned, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			cloned := *user

			return &cloned, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Username == username {
			cloned := *user

			return &cloned, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cloned := *user
	r.store.users[user.ID] = &cloned

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	cloned := *user
	r.store.users[user.ID] = &cloned

	return nil
}

// --- credential repo ---

type fakeCredentialRepo struct {
	store *fakeStore
}

func (r *fakeCredentialRepo) Create(_ context.Context, cred *entity.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cred.ID = uuid.New()
	cred.CreatedAt = time.Now()
	cred.UpdatedAt = cred.CreatedAt
	cloned := *cred
	r.store.credentials[cred.ID] = &cloned

	return nil
}

func (r *fakeCredentialRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cred := range r.store.credentials {
		if cred.UserID == userID {
			cloned := *cred

			return &cloned, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeCredentialRepo) FindByVerificationToken(_ context.Context, token string) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cred := range r.store.credentials {
		if cred.VerificationToken != nil && *cred.VerificationToken == token {
			cloned := *cred

			return &cloned, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeCredentialRepo) FindByResetToken(_ context.Context, token string) (*entity.Credential, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, cred := range r.store.credentials {
		if cred.ResetToken != nil && *cred.ResetToken == token {
			cloned := *cred

			return &cloned, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

func (r *fakeCredentialRepo) Update(_ context.Context, cred *entity.Credential) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.credentials[cred.ID]; !ok {
		return repository.ErrCredentialNotFound
	}
	cred.UpdatedAt = time.Now()
	cloned := *cred
	r.store.credentials[cred.ID] = &cloned

	return nil
}

func (r *fakeCredentialRepo) ClearExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var cleared int64
	for _, cred := range r.store.credentials {
		if cred.VerificationExpiresAt != nil && now.After(*cred.VerificationExpiresAt) {
			cred.VerificationToken = nil
			cred.VerificationExpiresAt = nil
			cleared++
		}
		if cred.ResetExpiresAt != nil && now.After(*cred.ResetExpiresAt) {
			cred.ResetToken = nil
			cred.ResetExpiresAt = nil
			cleared++
		}
	}

	return cleared, nil
}

// --- post repo ---

type fakePostRepo struct {
	store *fakeStore
}

func (r *fakePostRepo) Create(_ context.Context, post *entity.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cloned := *post
	r.store.posts[post.ID] = &cloned

	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if post, ok := r.store.posts[id]; ok {
		cloned := *post

		return &cloned, nil
	}

	return nil, repository.ErrPostNotFound
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID uuid.UUID, limit, offset int) ([]*entity.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var posts []*entity.Post
	for _, post := range r.store.posts {
		if post.AuthorID == authorID {
			cloned := *post
			posts = append(posts, &cloned)
		}
	}

	return posts, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *entity.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[post.ID]; !ok {
		return repository.ErrPostNotFound
	}
	post.UpdatedAt = time.Now()
	cloned := *post
	r.store.posts[post.ID] = &cloned

	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.store.posts, id)

	return nil
}

// --- comment repo ---

type fakeCommentRepo struct {
	store *fakeStore
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cloned := *comment
	r.store.comments[comment.ID] = &cloned

	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if comment, ok := r.store.comments[id]; ok {
		cloned := *comment

		return &cloned, nil
	}

	return nil, repository.ErrCommentNotFound
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var comments []*entity.Comment
	for _, comment := range r.store.comments {
		if comment.PostID == postID {
			cloned := *comment
			comments = append(comments, &cloned)
		}
	}

	return comments, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(r.store.comments, id)

	return nil
}

// --- follow repo ---

type fakeFollowRepo struct {
	store *fakeStore
}

func (r *fakeFollowRepo) Create(_ context.Context, follow *entity.Follow) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.follows {
		if existing.FollowerID == follow.FollowerID && existing.FolloweeID == follow.FolloweeID {
			return domainerrors.ErrAlreadyFollowing
		}
	}
	follow.ID = uuid.New()
	follow.CreatedAt = time.Now()
	cloned := *follow
	r.store.follows[follow.ID] = &cloned

	return nil
}

func (r *fakeFollowRepo) Find(_ context.Context, followerID, followeeID uuid.UUID) (*entity.Follow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, follow := range r.store.follows {
		if follow.FollowerID == followerID && follow.FolloweeID == followeeID {
			cloned := *follow

			return &cloned, nil
		}
	}

	return nil, repository.ErrFollowNotFound
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followeeID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, follow := range r.store.follows {
		if follow.FollowerID == followerID && follow.FolloweeID == followeeID {
			delete(r.store.follows, id)

			return nil
		}
	}

	return repository.ErrFollowNotFound
}

func (r *fakeFollowRepo) ListFollowers(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var follows []*entity.Follow
	for _, follow := range r.store.follows {
		if follow.FolloweeID == userID {
			cloned := *follow
			follows = append(follows, &cloned)
		}
	}

	return follows, nil
}

func (r *fakeFollowRepo) ListFollowing(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Follow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var follows []*entity.Follow
	for _, follow := range r.store.follows {
		if follow.FollowerID == userID {
			cloned := *follow
			follows = append(follows, &cloned)
		}
	}

	return follows, nil
}

// --- bookmark repo ---

type fakeBookmarkRepo struct {
	store *fakeStore
}

func (r *fakeBookmarkRepo) Create(_ context.Context, bookmark *entity.Bookmark) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.bookmarks {
		if existing.UserID == bookmark.UserID && existing.PostID == bookmark.PostID {
			return domainerrors.ErrAlreadyBookmarked
		}
	}
	bookmark.ID = uuid.New()
	bookmark.CreatedAt = time.Now()
	cloned := *bookmark
	r.store.bookmarks[bookmark.ID] = &cloned

	return nil
}

func (r *fakeBookmarkRepo) Find(_ context.Context, userID, postID uuid.UUID) (*entity.Bookmark, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, bookmark := range r.store.bookmarks {
		if bookmark.UserID == userID && bookmark.PostID == postID {
			cloned := *bookmark

			return &cloned, nil
		}
	}

	return nil, repository.ErrBookmarkNotFound
}

func (r *fakeBookmarkRepo) Delete(_ context.Context, userID, postID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, bookmark := range r.store.bookmarks {
		if bookmark.UserID == userID && bookmark.PostID == postID {
			delete(r.store.bookmarks, id)

			return nil
		}
	}

	return repository.ErrBookmarkNotFound
}

func (r *fakeBookmarkRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bookmark, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var bookmarks []*entity.Bookmark
	for _, bookmark := range r.store.bookmarks {
		if bookmark.UserID == userID {
			cloned := *bookmark
			bookmarks = append(bookmarks, &cloned)
		}
	}

	return bookmarks, nil
}

// --- notification repo ---

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	cloned := *notification
	r.store.notifications[notification.ID] = &cloned

	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var notifications []*entity.Notification
	for _, notification := range r.store.notifications {
		if notification.RecipientID == recipientID {
			cloned := *notification
			notifications = append(notifications, &cloned)
		}
	}

	return notifications, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, recipientID, notificationID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	notification, ok := r.store.notifications[notificationID]
	if !ok || notification.RecipientID != recipientID {
		return repository.ErrNotificationNotFound
	}
	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
	}

	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, notification := range r.store.notifications {
		if notification.RecipientID == recipientID && notification.ReadAt == nil {
			count++
		}
	}

	return count, nil
}

// --- token codec ---

type fakeTokenInfo struct {
	userID    uuid.UUID
	email     string
	tokenType service.TokenType
	expiresAt time.Time
}

// fakeCodec issues opaque counters instead of signed tokens. Type and expiry
// semantics mirror the real codec: a token presented under the wrong type
// fails as a signature error, a known-but-stale token as expired, and a
// string it never issued as malformed.
type fakeCodec struct {
	mu     sync.Mutex
	seq    int
	now    func() time.Time
	ttls   map[service.TokenType]time.Duration
	issued map[string]fakeTokenInfo
}

func newFakeCodec(now func() time.Time) *fakeCodec {
	return &fakeCodec{
		now: now,
		ttls: map[service.TokenType]time.Duration{
			service.TokenTypeAccess:            15 * time.Minute,
			service.TokenTypeRefresh:           7 * 24 * time.Hour,
			service.TokenTypeEmailVerification: 24 * time.Hour,
			service.TokenTypePasswordReset:     time.Hour,
		},
		issued: make(map[string]fakeTokenInfo),
	}
}

func (c *fakeCodec) Issue(userID uuid.UUID, email string, tokenType service.TokenType) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	token := fmt.Sprintf("tok-%s-%d", tokenType, c.seq)
	c.issued[token] = fakeTokenInfo{
		userID:    userID,
		email:     email,
		tokenType: tokenType,
		expiresAt: c.now().Add(c.ttls[tokenType]),
	}

	return token, nil
}

func (c *fakeCodec) Verify(tokenString string, expectedType service.TokenType) (*service.Claims, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.issued[tokenString]
	if !ok {
		return nil, service.ErrTokenMalformed
	}
	if info.tokenType != expectedType {
		return nil, service.ErrTokenSignature
	}
	if c.now().After(info.expiresAt) {
		return nil, service.ErrTokenExpired
	}

	return &service.Claims{
		UserID: info.userID,
		Email:  info.email,
		Type:   info.tokenType,
	}, nil
}

func (c *fakeCodec) Expiry(tokenString string) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.issued[tokenString]
	if !ok {
		return time.Time{}, service.ErrTokenMalformed
	}

	return info.expiresAt, nil
}

func (c *fakeCodec) TTL(tokenType service.TokenType) time.Duration {
	return c.ttls[tokenType]
}

// expire backdates a token's recorded expiry.
func (c *fakeCodec) expire(tokenString string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if info, ok := c.issued[tokenString]; ok {
		info.expiresAt = c.now().Add(-time.Minute)
		c.issued[tokenString] = info
	}
}

// --- password hasher ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// --- revocation store ---

type fakeRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{entries: make(map[string]time.Time)}
}

func (s *fakeRevocations) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = expiresAt

	return nil
}

func (s *fakeRevocations) IsRevoked(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[token]

	return ok
}

func (s *fakeRevocations) SweepExpired(_ context.Context) int {
	return 0
}

// --- mail dispatcher ---

type sentMail struct {
	kind      string
	recipient string
	actionURL string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(kind, recipient, actionURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: kind, recipient: recipient, actionURL: actionURL})

	return nil
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, recipient, _ string, verifyURL string) error {
	return m.record("verification", recipient, verifyURL)
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, recipient, _ string, resetURL string) error {
	return m.record("password_reset", recipient, resetURL)
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, recipient, _ string) error {
	return m.record("welcome", recipient, "")
}

func (m *fakeMailer) SendPasswordChangedEmail(_ context.Context, recipient, _ string) error {
	return m.record("password_changed", recipient, "")
}

func (m *fakeMailer) sentKinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make([]string, 0, len(m.sent))
	for _, mail := range m.sent {
		kinds = append(kinds, mail.kind)
	}

	return kinds
}

// --- event publisher ---

type fakePublisher struct {
	mu     sync.Mutex
	events []*service.NotificationEvent
	err    error
}

func (p *fakePublisher) PublishNotificationEvent(_ context.Context, event *service.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}
