package lifecycle_test

import (
	"context"
	"time"

	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) FindComplaints(ctx context.Context, filter storage.Filter) ([]models.Complaint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintIf(ctx context.Context, id string, pre storage.Precondition, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	args := m.Called(ctx, id, pre, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetOfficerForLevel(ctx context.Context, level int) (*models.User, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetDepartmentUsers(ctx context.Context, dept models.Department) ([]models.User, error) {
	args := m.Called(ctx, dept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ReleaseSweepLock(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(ctx context.Context, payload any) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockNotifier records which lifecycle events fired.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ComplaintCreated(ctx context.Context, c *models.Complaint) {
	m.Called(ctx, c)
}

func (m *MockNotifier) ComplaintEscalated(ctx context.Context, c *models.Complaint, auto bool) {
	m.Called(ctx, c, auto)
}

func (m *MockNotifier) ComplaintResolved(ctx context.Context, c *models.Complaint) {
	m.Called(ctx, c)
}

func (m *MockNotifier) DeadlineWarning(ctx context.Context, c *models.Complaint, recipientID string) {
	m.Called(ctx, c, recipientID)
}

func (m *MockNotifier) ComplaintPublished(ctx context.Context, c *models.Complaint) {
	m.Called(ctx, c)
}

type MockSocial struct {
	mock.Mock
}

func (m *MockSocial) Publish(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
