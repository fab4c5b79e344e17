package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"taskhive/internal/metrics"
	"taskhive/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore reads tasks eligible for a reminder
type TaskStore interface {
	UpcomingWithReminders(ctx context.Context, now time.Time) ([]models.Task, error)
}

// NotificationStore checks for and writes reminder notifications
type NotificationStore interface {
	Exists(ctx context.Context, user, message string, groupID primitive.ObjectID) (bool, error)
	Create(ctx context.Context, notification models.Notification) error
}

// ReminderWorker scans tasks on a fixed cadence and writes one notification
// per (assignee, message, group) triple when a task's reminder lead time has
// elapsed. Each tick re-scans everything; the dedup check keeps the scan
// idempotent. Exactly one worker runs per process.
type ReminderWorker struct {
	tasks         TaskStore
	notifications NotificationStore
	email         *EmailService
	interval      time.Duration
}

// NewReminderWorker creates a worker. The email service may be nil, in which
// case reminders are written to the feed only.
func NewReminderWorker(tasks TaskStore, notifications NotificationStore, email *EmailService, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		tasks:         tasks,
		notifications: notifications,
		email:         email,
		interval:      interval,
	}
}

// Start runs the scan loop until the context is cancelled. It blocks, so it
// should be launched in a separate goroutine.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Reminder worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.Scan(ctx, time.Now())
		}
	}
}

// Scan performs one pass over tasks with reminders. Failures are logged and
// never abort the pass; the worker simply continues with the next task.
func (w *ReminderWorker) Scan(ctx context.Context, now time.Time) {
	tasks, err := w.tasks.UpcomingWithReminders(ctx, now)
	if err != nil {
		logrus.Errorf("Failed to fetch tasks with reminders: %v", err)
		metrics.ScanErrors.Inc()
		return
	}

	for _, task := range tasks {
		if task.Deadline == nil {
			continue
		}

		reminderTime := task.Deadline.Add(-ParseReminder(task.Reminder))
		if now.Before(reminderTime) {
			continue
		}

		message := fmt.Sprintf(`Reminder: Task "%s" is approaching its deadline.`, task.Title)
		for _, assignee := range task.Assignees {
			exists, err := w.notifications.Exists(ctx, assignee, message, task.GroupID)
			if err != nil {
				logrus.Errorf("Failed to check existing notification for %s: %v", assignee, err)
				metrics.ScanErrors.Inc()
				continue
			}
			if exists {
				continue
			}

			notification := models.Notification{
				User:      assignee,
				Message:   message,
				GroupID:   task.GroupID,
				Timestamp: now,
			}
			if err := w.notifications.Create(ctx, notification); err != nil {
				logrus.Errorf("Failed to create notification for %s: %v", assignee, err)
				metrics.ScanErrors.Inc()
				continue
			}
			metrics.NotificationsCreated.Inc()
			logrus.Infof("Notification sent for task: %s", task.Title)

			if w.email != nil {
				if err := w.email.SendTaskReminder(assignee, task); err != nil {
					logrus.Warnf("Failed to send reminder email to %s: %v", assignee, err)
				}
			}
		}
	}
}

var reminderPattern = regexp.MustCompile(`(\d+)\s(\w+)`)

// ParseReminder converts a free-text reminder descriptor of the form
// "<N> <unit>" into a lead time before the deadline. Unparseable descriptors
// degrade to a zero lead time, so the reminder fires at the deadline itself.
func ParseReminder(reminder string) time.Duration {
	match := reminderPattern.FindStringSubmatch(reminder)
	if match == nil {
		return 0
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	switch match[2] {
	case "minute", "minutes":
		return time.Duration(value) * time.Minute
	case "hour", "hours":
		return time.Duration(value) * time.Hour
	case "day", "days":
		return time.Duration(value) * 24 * time.Hour
	default:
		return 0
	}
}
