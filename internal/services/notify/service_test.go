package notifyservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"docflow/internal/models"
	cacherepo "docflow/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, payload interface{}) cacherepo.CacheResponse[int64] {
	args := m.Called(ctx, channel, payload)
	return args.Get(0).(cacherepo.CacheResponse[int64])
}

type mockResponse[T any] struct {
	val T
	err error
}

func (r *mockResponse[T]) Err() error {
	return r.err
}

func (r *mockResponse[T]) Result() (T, error) {
	return r.val, r.err
}

type MockFailureCounter struct {
	mock.Mock
}

func (m *MockFailureCounter) DependencyFailure(component string) {
	m.Called(component)
}

func TestNotify_StoresAndPublishes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	failures := new(MockFailureCounter)
	service := New(slog.Default(), repo, pub, failures)

	repo.On("Insert", ctx, mock.Anything).Return(nil)
	pub.On("Publish", ctx, "notify:u1", mock.Anything).Return(&mockResponse[int64]{val: 1})

	service.Notify(ctx, "u1", models.NotifyDocumentShared, "shared", map[string]string{"document_id": "doc1"})

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
	failures.AssertNotCalled(t, "DependencyFailure", mock.Anything)
}

func TestNotify_StoreFailure_CountedNotPropagated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	failures := new(MockFailureCounter)
	service := New(slog.Default(), repo, pub, failures)

	repo.On("Insert", ctx, mock.Anything).Return(errors.New("db down"))
	failures.On("DependencyFailure", "notification_store")

	service.Notify(ctx, "u1", models.NotifyDocumentSigned, "signed", nil)

	failures.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotify_PushFailure_CountedNotPropagated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	failures := new(MockFailureCounter)
	service := New(slog.Default(), repo, pub, failures)

	repo.On("Insert", ctx, mock.Anything).Return(nil)
	pub.On("Publish", ctx, "notify:u1", mock.Anything).Return(&mockResponse[int64]{err: errors.New("redis down")})
	failures.On("DependencyFailure", "notification_push")

	service.Notify(ctx, "u1", models.NotifySignaturesCollected, "collected", nil)

	repo.AssertExpectations(t)
	failures.AssertExpectations(t)
}

func TestListByUser_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	failures := new(MockFailureCounter)
	service := New(slog.Default(), repo, pub, failures)

	want := []*models.Notification{{ID: "n1", UserID: "u1"}}

	repo.On("ListByUser", ctx, "u1", listLimit).Return(want, nil)

	notifs, err := service.ListByUser(ctx, "u1")

	assert.NoError(t, err)
	assert.Equal(t, want, notifs)
}

func TestListByUser_RepoError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := new(MockNotificationRepository)
	pub := new(MockPublisher)
	failures := new(MockFailureCounter)
	service := New(slog.Default(), repo, pub, failures)

	repo.On("ListByUser", ctx, "u1", listLimit).Return([]*models.Notification(nil), errors.New("db error"))

	notifs, err := service.ListByUser(ctx, "u1")

	assert.ErrorIs(t, err, models.ErrInternal)
	assert.Nil(t, notifs)
}
