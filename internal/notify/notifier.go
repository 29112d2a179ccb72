// Package notify translates lifecycle events into calls against the external
// notification capability. Delivery is best-effort: failures are logged and
// swallowed, never surfaced to the transition that produced the event.
package notify

import (
	"context"
	"log"
	"time"

	"civictrack/backend/internal/models"

	"github.com/avast/retry-go"
)

// Notification templates understood by downstream delivery.
const (
	TemplateComplaintCreated   = "complaint_created"
	TemplateComplaintEscalated = "complaint_escalated"
	TemplateComplaintResolved  = "complaint_resolved"
	TemplateDeadlineWarning    = "deadline_warning"
	TemplateComplaintPublished = "complaint_published"
)

const (
	publishAttempts = 3
	publishDelay    = 1 * time.Second
	publishMaxDelay = 10 * time.Second
)

// Message is the wire payload handed to the notification capability: who to
// notify, which template to render, and the complaint context to render it
// with.
type Message struct {
	Recipient   string    `json:"recipient,omitempty"`
	Template    string    `json:"template"`
	ComplaintID string    `json:"complaint_id"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Level       int       `json:"level"`
	Status      string    `json:"status"`
	Deadline    time.Time `json:"deadline"`
	Automatic   bool      `json:"automatic,omitempty"`
	Timestamp   int64     `json:"timestamp"`
}

// Bus is the outbound message transport (RabbitMQ in production).
type Bus interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// EventSink receives a copy of every lifecycle event for live observers
// (Redis pub/sub in production).
type EventSink interface {
	PublishEvent(ctx context.Context, payload any) error
}

// Directory resolves notification recipients.
type Directory interface {
	GetDepartmentUsers(ctx context.Context, dept models.Department) ([]models.User, error)
}

// Adapter implements lifecycle.Notifier on top of the bus and event sink.
// Nil Bus or Events degrade the corresponding output to a no-op.
type Adapter struct {
	Bus       Bus
	Events    EventSink
	Directory Directory
}

func NewAdapter(bus Bus, events EventSink, directory Directory) *Adapter {
	return &Adapter{Bus: bus, Events: events, Directory: directory}
}

func message(c *models.Complaint, template, recipient string) Message {
	return Message{
		Recipient:   recipient,
		Template:    template,
		ComplaintID: c.ID,
		Title:       c.Title,
		Department:  string(c.Department),
		Level:       c.EscalationLevel,
		Status:      string(c.Status),
		Deadline:    c.Deadline,
		Timestamp:   time.Now().Unix(),
	}
}

// send publishes without holding up the caller. Retries with backoff, then
// gives up with a log line.
func (a *Adapter) send(routingKey string, msg Message) {
	if a.Bus == nil {
		return
	}
	go func() {
		err := retry.Do(
			func() error {
				ctx, cancel := context.WithTimeout(context.Background(), publishMaxDelay)
				defer cancel()
				return a.Bus.Publish(ctx, routingKey, msg)
			},
			retry.Attempts(publishAttempts),
			retry.Delay(publishDelay),
			retry.MaxDelay(publishMaxDelay),
			retry.DelayType(retry.BackOffDelay),
		)
		if err != nil {
			log.Printf("notify: publish %s for %s: %v", routingKey, msg.ComplaintID, err)
		}
	}()
}

func (a *Adapter) emit(ctx context.Context, msg Message) {
	if a.Events == nil {
		return
	}
	if err := a.Events.PublishEvent(ctx, msg); err != nil {
		log.Printf("notify: event for %s: %v", msg.ComplaintID, err)
	}
}

func (a *Adapter) ComplaintCreated(ctx context.Context, c *models.Complaint) {
	recipients := a.departmentRecipients(ctx, c.Department)
	for _, r := range recipients {
		a.send(RoutingKeyCreated, message(c, TemplateComplaintCreated, r))
	}
	a.emit(ctx, message(c, TemplateComplaintCreated, ""))
}

func (a *Adapter) ComplaintEscalated(ctx context.Context, c *models.Complaint, auto bool) {
	msg := message(c, TemplateComplaintEscalated, "")
	msg.Automatic = auto
	if c.AssignedTo != nil {
		msg.Recipient = *c.AssignedTo
	}
	a.send(RoutingKeyEscalated, msg)
	a.emit(ctx, msg)
}

func (a *Adapter) ComplaintResolved(ctx context.Context, c *models.Complaint) {
	// The owning citizen reviews the resolution and gives consent.
	a.send(RoutingKeyResolved, message(c, TemplateComplaintResolved, c.UserID))
	a.emit(ctx, message(c, TemplateComplaintResolved, ""))
}

func (a *Adapter) DeadlineWarning(ctx context.Context, c *models.Complaint, recipientID string) {
	msg := message(c, TemplateDeadlineWarning, recipientID)
	a.send(RoutingKeyWarning, msg)
	a.emit(ctx, msg)
}

func (a *Adapter) ComplaintPublished(ctx context.Context, c *models.Complaint) {
	msg := message(c, TemplateComplaintPublished, c.UserID)
	a.send(RoutingKeyPublished, msg)
	a.emit(ctx, msg)
}

func (a *Adapter) departmentRecipients(ctx context.Context, dept models.Department) []string {
	if a.Directory == nil {
		return nil
	}
	users, err := a.Directory.GetDepartmentUsers(ctx, dept)
	if err != nil {
		log.Printf("notify: department users for %s: %v", dept, err)
		return nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
