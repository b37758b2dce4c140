package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// MockProcessingRepository
type MockProcessingRepository struct {
	mock.Mock
}

func (m *MockProcessingRepository) StartAttempt(ctx context.Context, messageID string) (*entity.ProcessingRecord, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProcessingRecord), args.Error(1)
}

func (m *MockProcessingRepository) MarkSuccess(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockProcessingRepository) MarkFailed(ctx context.Context, messageID, detail string) error {
	args := m.Called(ctx, messageID, detail)
	return args.Error(0)
}

func (m *MockProcessingRepository) FilterSucceeded(ctx context.Context, messageIDs []string) ([]string, error) {
	args := m.Called(ctx, messageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProcessingRepository) ListFailedForRetry(ctx context.Context, maxAttempts, limit int) ([]*entity.ProcessingRecord, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ProcessingRecord), args.Error(1)
}

func (m *MockProcessingRepository) ListFailed(ctx context.Context, limit int) ([]*entity.ProcessingRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ProcessingRecord), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkReplySent(ctx context.Context, email string, at time.Time) error {
	args := m.Called(ctx, email, at)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockRecipientRepository
type MockRecipientRepository struct {
	mock.Mock
}

func (m *MockRecipientRepository) SelectNext(ctx context.Context) (*entity.Recipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) ListActive(ctx context.Context) ([]*entity.Recipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Recipient), args.Error(1)
}

// MockMailboxGateway
type MockMailboxGateway struct {
	mock.Mock
}

func (m *MockMailboxGateway) ListCandidates(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMailboxGateway) FetchContent(ctx context.Context, messageID string) (*entity.InboundMessage, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InboundMessage), args.Error(1)
}

func (m *MockMailboxGateway) Acknowledge(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockReplySender
type MockReplySender struct {
	mock.Mock
}

func (m *MockReplySender) SendAssignmentReply(input mail.ReplyInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

// MockMessageProcessor
type MockMessageProcessor struct {
	mock.Mock
}

func (m *MockMessageProcessor) Execute(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// MockLockRepository
type MockLockRepository struct {
	mock.Mock
}

func (m *MockLockRepository) Acquire(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, holderID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLockRepository) Extend(ctx context.Context, name, holderID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, holderID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLockRepository) Release(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// alertRecorder captura alertas publicados em background sem depender do
// timing da goroutine.
type alertRecorder struct {
	mu     sync.Mutex
	alerts []queue.FailureAlert
	seen   chan struct{}
}

func newAlertRecorder() *alertRecorder {
	return &alertRecorder{seen: make(chan struct{}, 16)}
}

func (a *alertRecorder) NotifyFailure(ctx context.Context, alert queue.FailureAlert) error {
	a.mu.Lock()
	a.alerts = append(a.alerts, alert)
	a.mu.Unlock()
	a.seen <- struct{}{}
	return nil
}

func (a *alertRecorder) wait(timeout time.Duration) bool {
	select {
	case <-a.seen:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (a *alertRecorder) all() []queue.FailureAlert {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]queue.FailureAlert, len(a.alerts))
	copy(out, a.alerts)
	return out
}
