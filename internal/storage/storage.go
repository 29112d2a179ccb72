// Package storage owns the persistence contract for complaints and actors.
// All mutation of complaint state flows through UpdateComplaintIf, whose
// precondition check is what linearizes concurrent transitions.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"civictrack/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrNotFound signals an unknown complaint or user id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict signals a conditional update whose precondition no longer
	// holds. The caller must re-read and re-evaluate.
	ErrConflict = errors.New("conditional update conflict")
)

// Precondition guards a conditional update. Nil fields are not checked.
type Precondition struct {
	Status          *models.Status
	EscalationLevel *int
}

// Filter expresses the read predicates the record store supports. Zero-value
// fields are ignored.
type Filter struct {
	Statuses        []models.Status
	ExcludeStatuses []models.Status
	EscalationLevel *int
	LevelBelow      *int
	DeadlineAfter   *time.Time
	DeadlineBefore  *time.Time
	Department      *models.Department
	OwnerID         *string
	AssignedTo      *string

	// ClaimableBy selects complaints either assigned to the given actor or
	// unassigned and still pending (the department dashboard predicate).
	ClaimableBy *string
}

// EventChannel is the Redis pub/sub channel lifecycle events fan out on.
const EventChannel = "complaint_events"

const sweepLockKey = "sweep:lock"

type Storage interface {
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	FindComplaints(ctx context.Context, filter Filter) ([]models.Complaint, error)
	UpdateComplaintIf(ctx context.Context, id string, pre Precondition, mutate func(*models.Complaint) error) (*models.Complaint, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetOfficerForLevel(ctx context.Context, level int) (*models.User, error)
	GetDepartmentUsers(ctx context.Context, dept models.Department) ([]models.User, error)

	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
	PublishEvent(ctx context.Context, payload any) error
}

// Service is the PostgreSQL/Redis implementation of Storage.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.DB.WithContext(ctx).Create(complaint).Error
}

func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).First(&complaint, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) FindComplaints(ctx context.Context, filter Filter) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).Model(&models.Complaint{})

	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) > 0 {
		q = q.Where("status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.EscalationLevel != nil {
		q = q.Where("escalation_level = ?", *filter.EscalationLevel)
	}
	if filter.LevelBelow != nil {
		q = q.Where("escalation_level < ?", *filter.LevelBelow)
	}
	if filter.DeadlineAfter != nil {
		q = q.Where("deadline >= ?", *filter.DeadlineAfter)
	}
	if filter.DeadlineBefore != nil {
		q = q.Where("deadline < ?", *filter.DeadlineBefore)
	}
	if filter.Department != nil {
		q = q.Where("department = ?", *filter.Department)
	}
	if filter.OwnerID != nil {
		q = q.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.ClaimableBy != nil {
		q = q.Where("assigned_to = ? OR (assigned_to IS NULL AND status = ?)",
			*filter.ClaimableBy, models.StatusPending)
	}

	var complaints []models.Complaint
	if err := q.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// UpdateComplaintIf reads the complaint, applies mutate to the snapshot, and
// writes it back guarded by the precondition. A write that matches no row
// because a concurrent transition got there first returns ErrConflict.
//
// The guard covers status and escalation level only. Concurrent writes that
// change neither field, such as two deadline extensions, both pass it and
// resolve last-write-wins.
func (s *Service) UpdateComplaintIf(ctx context.Context, id string, pre Precondition, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	complaint, err := s.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if pre.Status != nil && complaint.Status != *pre.Status {
		return nil, ErrConflict
	}
	if pre.EscalationLevel != nil && complaint.EscalationLevel != *pre.EscalationLevel {
		return nil, ErrConflict
	}

	if err := mutate(complaint); err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Model(&models.Complaint{}).Where("id = ?", id)
	if pre.Status != nil {
		q = q.Where("status = ?", *pre.Status)
	}
	if pre.EscalationLevel != nil {
		q = q.Where("escalation_level = ?", *pre.EscalationLevel)
	}

	result := q.Select("*").Omit("id", "created_at").Updates(complaint)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or the guard no longer matched.
		if _, err := s.GetComplaintByID(ctx, id); errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	return complaint, nil
}

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOfficerForLevel resolves the designated officer for escalation tier 2 or
// 3. Returns (nil, nil) when no officer is registered for the tier.
func (s *Service) GetOfficerForLevel(ctx context.Context, level int) (*models.User, error) {
	role := models.RoleL2Officer
	if level >= 3 {
		role = models.RoleL3Officer
	}

	var officer models.User
	err := s.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		First(&officer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

func (s *Service) GetDepartmentUsers(ctx context.Context, dept models.Department) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Where("role = ? AND department = ?", models.RoleDepartment, dept).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AcquireSweepLock takes the advisory lock that keeps concurrent instances
// from running the same sweep tick. Best effort: with no Redis configured the
// lock is considered held.
func (s *Service) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}
	return s.Redis.SetNX(ctx, sweepLockKey, "1", ttl).Result()
}

func (s *Service) ReleaseSweepLock(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sweepLockKey).Err()
}

// PublishEvent fans a lifecycle event out on the Redis pub/sub channel for
// dashboard observers. Failures are the caller's to log and ignore.
func (s *Service) PublishEvent(ctx context.Context, payload any) error {
	if s.Redis == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, EventChannel, string(body)).Err()
}
