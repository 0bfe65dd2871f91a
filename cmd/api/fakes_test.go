package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/internal/storage"
	"github.com/streamtube/streamtube/pkg/models"
)

// fakeUserStore is an in-memory userStore for handler tests.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr error
	loginErr  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) add(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	cp := *user
	s.users[user.ID] = &cp
	ret := cp
	return &ret
}

func (s *fakeUserStore) get(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperr.Conflict("user with email or username already exists")
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if u := s.get(id); u != nil {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (s *fakeUserStore) GetUserByLogin(ctx context.Context, identifier string) (*models.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == strings.ToLower(identifier) || strings.EqualFold(u.Email, identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user does not exist")
}

func (s *fakeUserStore) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	cp := *token
	u.RefreshToken = &cp
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.FullName = fullName
	u.Email = email
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) UpdateAvatar(ctx context.Context, userID, url, objectName string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.AvatarURL = url
	u.AvatarID = objectName
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) UpdateCoverImage(ctx context.Context, userID, url, objectName string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.CoverImageURL = url
	u.CoverImageID = objectName
	cp := *u
	return &cp, nil
}

// fakeChannelStore serves canned aggregation results keyed off the fake user
// store and an in-memory subscription set.
type fakeChannelStore struct {
	users *fakeUserStore

	mu            sync.Mutex
	subscriptions map[string]models.Subscription // keyed subscriberID|channelID
	history       map[string][]*models.WatchHistoryEntry
}

func newFakeChannelStore(users *fakeUserStore) *fakeChannelStore {
	return &fakeChannelStore{
		users:         users,
		subscriptions: make(map[string]models.Subscription),
		history:       make(map[string][]*models.WatchHistoryEntry),
	}
}

func subKey(subscriberID, channelID string) string {
	return subscriberID + "|" + channelID
}

func (s *fakeChannelStore) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	s.users.mu.Lock()
	var channel *models.User
	for _, u := range s.users.users {
		if u.Username == username {
			channel = u
			break
		}
	}
	s.users.mu.Unlock()
	if channel == nil {
		return nil, apperr.NotFound("channel does not exist")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var subscribers, subscribedTo int64
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channel.ID {
			subscribers++
		}
		if sub.SubscriberID == channel.ID {
			subscribedTo++
		}
	}
	_, isSubscribed := s.subscriptions[subKey(viewerID, channel.ID)]

	return &models.ChannelProfile{
		ID:                channel.ID,
		FullName:          channel.FullName,
		Username:          channel.Username,
		Email:             channel.Email,
		AvatarURL:         channel.AvatarURL,
		CoverImageURL:     channel.CoverImageURL,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      viewerID != "" && isSubscribed,
	}, nil
}

func (s *fakeChannelStore) GetWatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[userID], nil
}

func (s *fakeChannelStore) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subKey(subscriberID, channelID)
	if _, ok := s.subscriptions[key]; ok {
		delete(s.subscriptions, key)
		return false, nil
	}
	s.subscriptions[key] = models.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}
	return true, nil
}

// fakeMediaStore pretends to be the media host.
type fakeMediaStore struct {
	mu        sync.Mutex
	uploads   int
	uploadErr error
}

func (s *fakeMediaStore) UploadFile(ctx context.Context, localPath string) (*storage.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads++
	objectName := fmt.Sprintf("images/%s", uuid.New().String())
	return &storage.Asset{
		URL:        "http://media.local/media/" + objectName,
		ObjectName: objectName,
	}, nil
}

// fakeCleanupPublisher records queued cleanup tasks.
type fakeCleanupPublisher struct {
	mu         sync.Mutex
	tasks      []*models.CleanupTask
	publishErr error
}

func (p *fakeCleanupPublisher) PublishCleanup(ctx context.Context, task *models.CleanupTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakeCleanupPublisher) objects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.tasks))
	for _, t := range p.tasks {
		names = append(names, t.ObjectName)
	}
	return names
}

// fakeProfileCache is an in-memory profileCache that counts operations.
type fakeProfileCache struct {
	mu            sync.Mutex
	profiles      map[string]*models.ChannelProfile
	hits          int
	sets          int
	invalidations int
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{profiles: make(map[string]*models.ChannelProfile)}
}

func (c *fakeProfileCache) GetChannelProfile(ctx context.Context, username string) (*models.ChannelProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.profiles[username]; ok {
		c.hits++
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (c *fakeProfileCache) SetChannelProfile(ctx context.Context, profile *models.ChannelProfile, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *profile
	c.profiles[profile.Username] = &cp
	c.sets++
	return nil
}

func (c *fakeProfileCache) InvalidateChannelProfile(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, username)
	c.invalidations++
	return nil
}

type fakeHealthChecker struct {
	err error
}

func (h *fakeHealthChecker) Health(ctx context.Context) error {
	return h.err
}
