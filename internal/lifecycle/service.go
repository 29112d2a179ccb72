package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"civictrack/backend/internal/config"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"
)

// Notifier translates lifecycle events into external notifications. Calls are
// best-effort and must never block or fail the transition that produced them.
type Notifier interface {
	ComplaintCreated(ctx context.Context, c *models.Complaint)
	ComplaintEscalated(ctx context.Context, c *models.Complaint, auto bool)
	ComplaintResolved(ctx context.Context, c *models.Complaint)
	DeadlineWarning(ctx context.Context, c *models.Complaint, recipientID string)
	ComplaintPublished(ctx context.Context, c *models.Complaint)
}

// SocialPublisher is the public-pressure side channel used by the terminal
// escalation.
type SocialPublisher interface {
	Publish(ctx context.Context, c *models.Complaint) error
}

// Service drives every complaint transition, citizen-initiated or
// time-triggered, through the state machine and the record store.
type Service struct {
	Store    storage.Storage
	Notifier Notifier
	Social   SocialPublisher

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewService(store storage.Storage, notifier Notifier, social SocialPublisher) *Service {
	return &Service{
		Store:    store,
		Notifier: notifier,
		Social:   social,
		Now:      time.Now,
	}
}

// SubmitInput carries the citizen-supplied fields of a new complaint.
type SubmitInput struct {
	Title         string
	Description   string
	Category      models.Category
	Priority      models.Priority
	DeadlineHours int
	Longitude     float64
	Latitude      float64
	Address       string
	Attachments   []string
}

// Submit files a new complaint for the acting citizen. The deadline is
// clamped to the minimum grant and the department is derived from the
// category.
func (s *Service) Submit(ctx context.Context, actor models.Actor, in SubmitInput) (*models.Complaint, error) {
	if actor.Role != models.RoleCitizen {
		return nil, ErrForbidden
	}
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	department, ok := models.CategoryDepartments[in.Category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}

	hours := in.DeadlineHours
	if hours < config.MinDeadlineHours {
		hours = config.MinDeadlineHours
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := s.Now()
	complaint := &models.Complaint{
		UserID:          actor.ID,
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		Department:      department,
		Priority:        priority,
		Location:        models.Location{Longitude: in.Longitude, Latitude: in.Latitude, Address: in.Address},
		Attachments:     in.Attachments,
		Status:          models.StatusPending,
		EscalationLevel: 1,
		Deadline:        now.Add(time.Duration(hours) * time.Hour),
	}

	if err := s.Store.CreateComplaint(ctx, complaint); err != nil {
		return nil, err
	}

	s.Notifier.ComplaintCreated(ctx, complaint)
	return complaint, nil
}

// Get returns a single complaint if the actor's visibility predicate admits
// it. The owning citizen always sees their complaint regardless of level.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error) {
	complaint, err := s.Store.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, complaint) {
		return nil, ErrForbidden
	}
	return complaint, nil
}

// ListFor returns the complaints visible to the actor.
func (s *Service) ListFor(ctx context.Context, actor models.Actor) ([]models.Complaint, error) {
	return s.Store.FindComplaints(ctx, VisibilityFor(actor))
}

// transition applies a pure mutation under the precondition captured from the
// current snapshot, so a concurrent writer surfaces as ErrConflict.
func (s *Service) transition(ctx context.Context, id string, mutate func(*models.Complaint) error) (*models.Complaint, error) {
	snapshot, err := s.Store.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pre := storage.Precondition{
		Status:          &snapshot.Status,
		EscalationLevel: &snapshot.EscalationLevel,
	}
	return s.Store.UpdateComplaintIf(ctx, id, pre, mutate)
}

// Claim moves a pending complaint into progress for the acting worker.
func (s *Service) Claim(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error) {
	return s.transition(ctx, id, func(c *models.Complaint) error {
		return Claim(c, actor, s.Now())
	})
}

// Resolve submits a resolution for an in-progress complaint.
func (s *Service) Resolve(ctx context.Context, actor models.Actor, id, description string, proof []string) (*models.Complaint, error) {
	complaint, err := s.transition(ctx, id, func(c *models.Complaint) error {
		return Resolve(c, actor, description, proof, s.Now())
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.ComplaintResolved(ctx, complaint)
	return complaint, nil
}

// Consent records the owning citizen's sign-off and verifies the complaint.
func (s *Service) Consent(ctx context.Context, actor models.Actor, id string, in ConsentInput) (*models.Complaint, error) {
	return s.transition(ctx, id, func(c *models.Complaint) error {
		return Consent(c, actor, in, s.Now())
	})
}

// Reject marks a complaint rejected.
func (s *Service) Reject(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error) {
	return s.transition(ctx, id, func(c *models.Complaint) error {
		return Reject(c, actor, s.Now())
	})
}

// Escalate raises the complaint one tier on an actor's request. Citizens may
// escalate only their own complaints.
func (s *Service) Escalate(ctx context.Context, actor models.Actor, id, reason string) (*models.Complaint, error) {
	snapshot, err := s.Store.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleCitizen && snapshot.UserID != actor.ID {
		return nil, ErrForbidden
	}

	officer, err := s.officerForNextLevel(ctx, snapshot.EscalationLevel)
	if err != nil {
		return nil, err
	}

	// The precondition comes from the same snapshot the officer was resolved
	// against: an escalation landing in between fails the guard instead of
	// assigning the stale tier's officer.
	pre := storage.Precondition{
		Status:          &snapshot.Status,
		EscalationLevel: &snapshot.EscalationLevel,
	}
	escalatedBy := actor.ID
	complaint, err := s.Store.UpdateComplaintIf(ctx, id, pre, func(c *models.Complaint) error {
		return Escalate(c, &escalatedBy, reason, officer, s.Now())
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.ComplaintEscalated(ctx, complaint, false)
	return complaint, nil
}

// AutoEscalate applies the time-triggered escalation: nil actor, fixed
// reason. Invoked only by the sweep scheduler.
func (s *Service) AutoEscalate(ctx context.Context, id string) (*models.Complaint, error) {
	snapshot, err := s.Store.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	officer, err := s.officerForNextLevel(ctx, snapshot.EscalationLevel)
	if err != nil {
		return nil, err
	}

	pre := storage.Precondition{
		Status:          &snapshot.Status,
		EscalationLevel: &snapshot.EscalationLevel,
	}
	complaint, err := s.Store.UpdateComplaintIf(ctx, id, pre, func(c *models.Complaint) error {
		return Escalate(c, nil, config.AutoEscalateReason, officer, s.Now())
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.ComplaintEscalated(ctx, complaint, true)
	return complaint, nil
}

// PublicEscalate applies the terminal public-pressure transition and pushes
// the summary out on the social channel. Invoked only by the sweep scheduler.
func (s *Service) PublicEscalate(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.transition(ctx, id, func(c *models.Complaint) error {
		return PublicEscalate(c, s.Now())
	})
	if err != nil {
		return nil, err
	}

	if s.Social != nil {
		if err := s.Social.Publish(ctx, complaint); err != nil {
			log.Printf("lifecycle: social publish for %s: %v", complaint.ID, err)
		}
	}
	s.Notifier.ComplaintPublished(ctx, complaint)
	return complaint, nil
}

// ExtendDeadline grants additional hours to the current deadline. L2/L3 only.
func (s *Service) ExtendDeadline(ctx context.Context, actor models.Actor, id string, hours int) (*models.Complaint, error) {
	return s.transition(ctx, id, func(c *models.Complaint) error {
		return ExtendDeadline(c, actor, hours, s.Now())
	})
}

// SendDeadlineWarning re-checks eligibility against fresh state, appends the
// audit entry and triggers the notification. Invoked only by the sweep
// scheduler.
func (s *Service) SendDeadlineWarning(ctx context.Context, id string) (*models.Complaint, error) {
	var recipient string
	complaint, err := s.transition(ctx, id, func(c *models.Complaint) error {
		if !WarningDue(c, s.Now()) {
			return ErrConflict
		}
		recipient = *c.AssignedTo
		RecordWarning(c, recipient, s.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.DeadlineWarning(ctx, complaint, recipient)
	return complaint, nil
}

func (s *Service) officerForNextLevel(ctx context.Context, currentLevel int) (*models.User, error) {
	if currentLevel >= config.MaxEscalationLevel {
		// Escalate will reject with ErrMaxEscalation; no lookup needed.
		return nil, nil
	}
	return s.Store.GetOfficerForLevel(ctx, currentLevel+1)
}
