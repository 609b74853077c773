package dispatch

//go:generate mockgen -source=dispatch.go -destination=mocks/mock_dispatch.go -package=mocks

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const (
	ChannelEmail = "email"
	ChannelSms   = "sms"
	ChannelPush  = "push"
)

type EmailSender interface {
	Send(ctx context.Context, address, subject, html string) error
}

type SmsSender interface {
	Send(ctx context.Context, phone, text string) error
}

// Dispatcher fans a notification out to the channels a user enabled. It never
// returns an error: every channel failure is logged where it happens.
type Dispatcher struct {
	iot   *iot.IOT
	email EmailSender
	sms   SmsSender
	brand string

	maxSmsLength int
}

type Option func(*Dispatcher)

func WithEmailSender(sender EmailSender) Option {
	return func(d *Dispatcher) { d.email = sender }
}

func WithSmsSender(sender SmsSender) Option {
	return func(d *Dispatcher) { d.sms = sender }
}

func WithBrand(brand string) Option {
	return func(d *Dispatcher) { d.brand = brand }
}

func WithMaxSmsLength(length int) Option {
	return func(d *Dispatcher) {
		if length > 0 {
			d.maxSmsLength = length
		}
	}
}

func New(iotCore *iot.IOT, opts ...Option) *Dispatcher {
	d := &Dispatcher{iot: iotCore, brand: common.DefaultNotificationBrand, maxSmsLength: DefaultMaxSmsLength}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func logger(category string) *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameDispatch, zap.String(common.LoggerFieldIOTCategory, category))
}

type task struct {
	channel string
	run     func(ctx context.Context) error
}

// Dispatch blocks until every eligible channel finished.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, req *models.NotificationRequest) {
	l := logger(common.LoggerCategoryIOTNotification)

	settings, err := d.iot.Settings.GetSettings(userID)
	if err != nil {
		l.Error("Settings lookup failed, notification not dispatched", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if settings == nil || !settings.NotificationsEnabled {
		l.Debug("Notifications disabled", zap.String("user_id", userID))
		return
	}

	contact, err := d.iot.Contacts.GetContact(userID)
	if errors.Is(err, iot.ErrNotFound) {
		l.Warn("User not found, notification not dispatched", zap.String("user_id", userID))
		return
	}
	if err != nil {
		l.Error("Contact lookup failed, notification not dispatched", zap.String("user_id", userID), zap.Error(err))
		return
	}

	tasks := d.plan(settings, contact, req)
	if len(tasks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runTask(ctx, userID, t)
		}()
	}
	wg.Wait()
}

func (d *Dispatcher) plan(settings *models.NotificationSettings, contact *models.UserContact, req *models.NotificationRequest) []task {
	var tasks []task

	if settings.EmailNotifications && contact.Email != "" && d.email != nil {
		subject, html := RenderEmail(d.brand, req)
		tasks = append(tasks, task{
			channel: ChannelEmail,
			run: func(ctx context.Context) error {
				return d.email.Send(ctx, contact.Email, subject, html)
			},
		})
	}

	if settings.SmsNotifications && req.Severity == models.SeverityCritical && contact.PhoneNumber != "" && d.sms != nil {
		text := FormatSms(d.brand, req, d.maxSmsLength)
		tasks = append(tasks, task{
			channel: ChannelSms,
			run: func(ctx context.Context) error {
				return d.sms.Send(ctx, contact.PhoneNumber, text)
			},
		})
	}

	if settings.PushNotifications {
		tasks = append(tasks, task{
			channel: ChannelPush,
			run: func(ctx context.Context) error {
				logger(ChannelPush).Info("Push notification not implemented", zap.String("user_id", contact.UserID), zap.String("title", req.Title))
				return nil
			},
		})
	}

	return tasks
}

func (d *Dispatcher) runTask(ctx context.Context, userID string, t task) {
	l := logger(t.channel)

	defer func() {
		if r := recover(); r != nil {
			l.Error("Dispatch channel panicked", zap.String("user_id", userID), zap.Any("panic", r))
		}
	}()

	if err := t.run(ctx); err != nil {
		l.Error("Dispatch channel failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	l.Info("Notification sent", zap.String("user_id", userID))
}
