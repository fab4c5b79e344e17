package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskhive/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTaskStore struct {
	tasks []models.Task
	err   error
}

func (s *fakeTaskStore) UpcomingWithReminders(ctx context.Context, now time.Time) ([]models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	var upcoming []models.Task
	for _, task := range s.tasks {
		if task.Reminder != "" && task.Deadline != nil && task.Deadline.After(now) {
			upcoming = append(upcoming, task)
		}
	}
	return upcoming, nil
}

type fakeNotificationStore struct {
	notifications []models.Notification
	createErr     error
}

func (s *fakeNotificationStore) Exists(ctx context.Context, user, message string, groupID primitive.ObjectID) (bool, error) {
	for _, n := range s.notifications {
		if n.User == user && n.Message == message && n.GroupID == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeNotificationStore) Create(ctx context.Context, notification models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.notifications = append(s.notifications, notification)
	return nil
}

func TestParseReminder(t *testing.T) {
	tests := []struct {
		reminder string
		want     time.Duration
	}{
		{"1 day before", 24 * time.Hour},
		{"45 minutes before", 45 * time.Minute},
		{"30 minutes before", 30 * time.Minute},
		{"2 hours before", 2 * time.Hour},
		{"1 minute before", time.Minute},
		{"3 days before", 72 * time.Hour},
		{"asap", 0},
		{"", 0},
		{"5 fortnights before", 0},
	}

	for _, tt := range tests {
		if got := ParseReminder(tt.reminder); got != tt.want {
			t.Errorf("ParseReminder(%q) = %v, want %v", tt.reminder, got, tt.want)
		}
	}
}

func TestScanDeduplicatesAcrossTicks(t *testing.T) {
	now := time.Now()
	deadline := now.Add(60 * time.Minute)
	groupID := primitive.NewObjectID()

	tasks := &fakeTaskStore{tasks: []models.Task{{
		Title:     "Ship release",
		Assignees: []string{"x@e.com", "y@e.com"},
		GroupID:   groupID,
		Reminder:  "30 minutes before",
		Deadline:  &deadline,
	}}}
	notifications := &fakeNotificationStore{}
	worker := NewReminderWorker(tasks, notifications, nil, time.Minute)

	// Two ticks after the reminder instant has passed
	scanTime := now.Add(31 * time.Minute)
	worker.Scan(context.Background(), scanTime)
	worker.Scan(context.Background(), scanTime.Add(time.Minute))

	if len(notifications.notifications) != 2 {
		t.Fatalf("Expected 2 notifications (one per assignee), got %d", len(notifications.notifications))
	}

	want := `Reminder: Task "Ship release" is approaching its deadline.`
	seen := map[string]bool{}
	for _, n := range notifications.notifications {
		if n.Message != want {
			t.Errorf("Unexpected message: %q", n.Message)
		}
		if n.GroupID != groupID {
			t.Errorf("Unexpected group id: %v", n.GroupID)
		}
		seen[n.User] = true
	}
	if !seen["x@e.com"] || !seen["y@e.com"] {
		t.Errorf("Expected one notification per assignee, got %+v", seen)
	}
}

func TestScanTimeline(t *testing.T) {
	start := time.Now()
	deadline := start.Add(10 * time.Minute)
	groupID := primitive.NewObjectID()

	tasks := &fakeTaskStore{tasks: []models.Task{{
		Title:     "Prepare agenda",
		Assignees: []string{"a@x.com"},
		GroupID:   groupID,
		Reminder:  "5 minutes before",
		Deadline:  &deadline,
	}}}
	notifications := &fakeNotificationStore{}
	worker := NewReminderWorker(tasks, notifications, nil, time.Minute)

	// Before the reminder instant: nothing fires
	worker.Scan(context.Background(), start.Add(4*time.Minute))
	if len(notifications.notifications) != 0 {
		t.Fatalf("Expected no notifications before the reminder instant, got %d", len(notifications.notifications))
	}

	// After the reminder instant: exactly one
	worker.Scan(context.Background(), start.Add(6*time.Minute))
	if len(notifications.notifications) != 1 {
		t.Fatalf("Expected 1 notification after the reminder instant, got %d", len(notifications.notifications))
	}
	n := notifications.notifications[0]
	if n.User != "a@x.com" || n.GroupID != groupID {
		t.Errorf("Unexpected notification: %+v", n)
	}
	if want := fmt.Sprintf(`Reminder: Task "Prepare agenda" is approaching its deadline.`); n.Message != want {
		t.Errorf("Message = %q, want %q", n.Message, want)
	}

	// A later tick does not duplicate
	worker.Scan(context.Background(), start.Add(7*time.Minute))
	if len(notifications.notifications) != 1 {
		t.Errorf("Expected still 1 notification, got %d", len(notifications.notifications))
	}
}

func TestScanUnparseableReminderFiresAtDeadline(t *testing.T) {
	now := time.Now()
	deadline := now.Add(10 * time.Minute)
	groupID := primitive.NewObjectID()

	tasks := &fakeTaskStore{tasks: []models.Task{{
		Title:     "Review design",
		Assignees: []string{"a@x.com"},
		GroupID:   groupID,
		Reminder:  "asap",
		Deadline:  &deadline,
	}}}
	notifications := &fakeNotificationStore{}
	worker := NewReminderWorker(tasks, notifications, nil, time.Minute)

	// Zero lead time: the reminder instant equals the deadline, which is
	// still in the future, so nothing fires
	worker.Scan(context.Background(), now.Add(5*time.Minute))
	if len(notifications.notifications) != 0 {
		t.Errorf("Expected no notifications before the deadline, got %d", len(notifications.notifications))
	}
}

func TestScanSkipsTasksWithoutDeadline(t *testing.T) {
	tasks := &fakeTaskStore{tasks: []models.Task{{
		Title:     "No deadline",
		Assignees: []string{"a@x.com"},
		GroupID:   primitive.NewObjectID(),
		Reminder:  "5 minutes before",
	}}}
	notifications := &fakeNotificationStore{}
	worker := NewReminderWorker(tasks, notifications, nil, time.Minute)

	worker.Scan(context.Background(), time.Now())
	if len(notifications.notifications) != 0 {
		t.Errorf("Expected no notifications for a task without a deadline, got %d", len(notifications.notifications))
	}
}

func TestScanContinuesAfterStoreErrors(t *testing.T) {
	now := time.Now()
	deadline := now.Add(time.Minute)
	groupID := primitive.NewObjectID()

	tasks := &fakeTaskStore{tasks: []models.Task{{
		Title:     "Flaky",
		Assignees: []string{"a@x.com", "b@x.com"},
		GroupID:   groupID,
		Reminder:  "5 minutes before",
		Deadline:  &deadline,
	}}}
	notifications := &fakeNotificationStore{createErr: errors.New("write failed")}
	worker := NewReminderWorker(tasks, notifications, nil, time.Minute)

	// Must not panic or abort; the next tick retries cleanly
	worker.Scan(context.Background(), now)

	notifications.createErr = nil
	worker.Scan(context.Background(), now.Add(time.Minute))
	if len(notifications.notifications) != 2 {
		t.Errorf("Expected 2 notifications after recovery, got %d", len(notifications.notifications))
	}
}

func TestScanFetchErrorDoesNotPanic(t *testing.T) {
	tasks := &fakeTaskStore{err: errors.New("connection reset")}
	worker := NewReminderWorker(tasks, &fakeNotificationStore{}, nil, time.Minute)
	worker.Scan(context.Background(), time.Now())
}
