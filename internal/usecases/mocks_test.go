package usecases_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/domain/services"
)

// Mock EmailDispatcher
type MockEmailDispatcher struct {
	mock.Mock
}

func (m *MockEmailDispatcher) SendBusinessVerification(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *MockEmailDispatcher) SendRelationVerification(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *MockEmailDispatcher) SendSupportEmail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// Mock DurationPredictor
type MockDurationPredictor struct {
	mock.Mock
}

func (m *MockDurationPredictor) PredictEndTime(ctx context.Context, req services.PredictionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Mock MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) UploadImage(ctx context.Context, upload *entities.MediaUpload, folder string) (string, error) {
	args := m.Called(ctx, upload, folder)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicURL string) error {
	args := m.Called(ctx, publicURL)
	return args.Error(0)
}

type broadcastCall struct {
	BusinessID uuid.UUID
	Event      string
	Payload    any
}

// recordingBroadcaster keeps every event it is asked to fan out
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastCall
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, businessID uuid.UUID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastCall{BusinessID: businessID, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) Events() []broadcastCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]broadcastCall(nil), b.events...)
}

// passLocker runs fn without any lease
type passLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *passLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return fn(ctx)
}
