package services

import (
	"context"
	"strings"
	"time"

	ierr "procurify-api/errors"
	"procurify-api/logger"
	"procurify-api/models"
	"procurify-api/store"

	"github.com/sourcegraph/conc"
)

// Publisher pushes a payload to a user's live channel.
type Publisher interface {
	Publish(ctx context.Context, userID string, payload any) error
}

// Mailer sends HTML mail.
type Mailer interface {
	Enabled() bool
	SendMail(to []string, subject, html string) error
}

// Notifier creates notifications for users.
type Notifier interface {
	Create(ctx context.Context, params CreateNotificationParams) (*models.Notification, error)
}

type CreateNotificationParams struct {
	UserID        string
	Title         string
	Message       string
	Type          models.NotificationType
	ReferenceID   string
	ReferenceType models.EntityType
	ActionURL     string
}

// NotificationDispatcher persists a notification and then delivers it live
// and by mail. Persisting is the only step whose failure is reported; live
// push and mail are best effort.
type NotificationDispatcher struct {
	notifications store.NotificationRepository
	users         store.UserRepository
	publisher     Publisher
	mailer        Mailer
	log           *logger.Logger
	now           func() time.Time
}

func NewNotificationDispatcher(
	notifications store.NotificationRepository,
	users store.UserRepository,
	publisher Publisher,
	mailer Mailer,
	log *logger.Logger,
) *NotificationDispatcher {
	if log == nil {
		log = logger.L
	}
	return &NotificationDispatcher{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		mailer:        mailer,
		log:           log,
		now:           time.Now,
	}
}

func (d *NotificationDispatcher) Create(ctx context.Context, params CreateNotificationParams) (*models.Notification, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ierr.Validation("Notification recipient is required")
	}
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Message) == "" {
		return nil, ierr.Validation("Notification title and message are required")
	}
	if params.Type == "" {
		params.Type = models.NotificationTypeInfo
	}
	if !params.Type.Valid() {
		return nil, ierr.Validation("Notification type must be INFO, SUCCESS or WARNING")
	}

	n := &models.Notification{
		UserID:    params.UserID,
		Title:     params.Title,
		Message:   params.Message,
		Type:      params.Type,
		Read:      false,
		CreatedAt: d.now(),
	}
	if params.ReferenceID != "" {
		n.ReferenceID = &params.ReferenceID
	}
	if params.ReferenceType != "" {
		refType := params.ReferenceType
		n.ReferenceType = &refType
	}
	if params.ActionURL != "" {
		n.ActionURL = &params.ActionURL
	}

	if err := d.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	d.deliver(persistentContext(ctx), n)
	return n, nil
}

// NotifyMany creates one notification per user. It stops at the first
// persistence failure and returns what was created so far.
func (d *NotificationDispatcher) NotifyMany(ctx context.Context, userIDs []string, params CreateNotificationParams) ([]*models.Notification, error) {
	created := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		params.UserID = userID
		n, err := d.Create(ctx, params)
		if err != nil {
			return created, err
		}
		created = append(created, n)
	}
	return created, nil
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n *models.Notification) {
	var wg conc.WaitGroup
	wg.Go(func() {
		if err := d.push(ctx, n); err != nil {
			d.log.Warnw("live notification push failed",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"error", err,
			)
		}
	})
	wg.Go(func() {
		if err := d.email(ctx, n); err != nil {
			d.log.Warnw("notification email failed",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"error", err,
			)
		}
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		d.log.Errorw("notification delivery panicked",
			"notification_id", n.ID,
			"panic", recovered.String(),
		)
	}
}

func (d *NotificationDispatcher) push(ctx context.Context, n *models.Notification) error {
	if d.publisher == nil {
		return nil
	}
	if err := d.publisher.Publish(ctx, n.UserID, n); err != nil {
		return ierr.Delivery(err, "Live notification delivery failed")
	}
	return nil
}

func (d *NotificationDispatcher) email(ctx context.Context, n *models.Notification) error {
	if d.mailer == nil || !d.mailer.Enabled() || d.users == nil {
		return nil
	}

	user, err := d.users.Get(ctx, n.UserID)
	if err != nil {
		return ierr.Delivery(err, "Notification recipient could not be loaded")
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil
	}

	html := buildNotificationEmailHTML(n.Title, user.Name, n.Message)
	if err := d.mailer.SendMail([]string{user.Email}, n.Title, html); err != nil {
		return ierr.Delivery(err, "Notification email delivery failed")
	}
	return nil
}
