package lifecycle_test

import (
	"context"
	"sync"
	"time"

	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Storage with real conditional-update semantics,
// used where tests care about the precondition behavior rather than call
// expectations.
type fakeStore struct {
	mu         sync.Mutex
	complaints map[string]*models.Complaint
	officers   map[int]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		complaints: make(map[string]*models.Complaint),
		officers:   make(map[int]*models.User),
	}
}

func (f *fakeStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	f.complaints[c.ID] = &clone
	return nil
}

func (f *fakeStore) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeStore) FindComplaints(ctx context.Context, filter storage.Filter) ([]models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Complaint
	for _, c := range f.complaints {
		if matches(filter, c) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func matches(filter storage.Filter, c *models.Complaint) bool {
	in := func(set []models.Status) bool {
		for _, s := range set {
			if c.Status == s {
				return true
			}
		}
		return false
	}
	if len(filter.Statuses) > 0 && !in(filter.Statuses) {
		return false
	}
	if len(filter.ExcludeStatuses) > 0 && in(filter.ExcludeStatuses) {
		return false
	}
	if filter.EscalationLevel != nil && c.EscalationLevel != *filter.EscalationLevel {
		return false
	}
	if filter.LevelBelow != nil && c.EscalationLevel >= *filter.LevelBelow {
		return false
	}
	if filter.DeadlineAfter != nil && c.Deadline.Before(*filter.DeadlineAfter) {
		return false
	}
	if filter.DeadlineBefore != nil && !c.Deadline.Before(*filter.DeadlineBefore) {
		return false
	}
	if filter.Department != nil && c.Department != *filter.Department {
		return false
	}
	if filter.OwnerID != nil && c.UserID != *filter.OwnerID {
		return false
	}
	if filter.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *filter.AssignedTo) {
		return false
	}
	if filter.ClaimableBy != nil {
		assigned := c.AssignedTo != nil && *c.AssignedTo == *filter.ClaimableBy
		claimable := c.AssignedTo == nil && c.Status == models.StatusPending
		if !assigned && !claimable {
			return false
		}
	}
	return true
}

func (f *fakeStore) UpdateComplaintIf(ctx context.Context, id string, pre storage.Precondition, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.complaints[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if pre.Status != nil && current.Status != *pre.Status {
		return nil, storage.ErrConflict
	}
	if pre.EscalationLevel != nil && current.EscalationLevel != *pre.EscalationLevel {
		return nil, storage.ErrConflict
	}

	clone := *current
	if err := mutate(&clone); err != nil {
		return nil, err
	}
	clone.UpdatedAt = time.Now()
	f.complaints[id] = &clone
	result := clone
	return &result, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error { return nil }

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetOfficerForLevel(ctx context.Context, level int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.officers[level], nil
}

func (f *fakeStore) GetDepartmentUsers(ctx context.Context, dept models.Department) ([]models.User, error) {
	return nil, nil
}

func (f *fakeStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeStore) ReleaseSweepLock(ctx context.Context) error { return nil }

func (f *fakeStore) PublishEvent(ctx context.Context, payload any) error { return nil }
