package deadline

import (
	"context"
	"sync"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/domain/lawyer"
	"github.com/lexwatch/lexwatch/internal/domain/notification"
	"github.com/lexwatch/lexwatch/internal/domain/task"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// fixedClock pins Now to a single instant.
func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// ─────────────────────────────────────────────────────────────────────────────
// Repository fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeNotificationRepo struct {
	pending []*notification.Notification
	expired []*notification.Notification
	err     error

	gotReceivedBefore time.Time
	gotOfficeID       *string
}

func (f *fakeNotificationRepo) Save(context.Context, *notification.Notification) error { return nil }

func (f *fakeNotificationRepo) FindByID(_ context.Context, id common.ID) (*notification.Notification, error) {
	for _, n := range f.pending {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, errors.NotFound("notification " + string(id) + " not found")
}

func (f *fakeNotificationRepo) FindPendingAcceptance(_ context.Context, officeID *string, receivedBefore time.Time) ([]*notification.Notification, error) {
	f.gotOfficeID = officeID
	f.gotReceivedBefore = receivedBefore
	if f.err != nil {
		return nil, f.err
	}
	return f.pending, nil
}

func (f *fakeNotificationRepo) FindExpired(context.Context, time.Time) ([]*notification.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.expired, nil
}

func (f *fakeNotificationRepo) MarkDownloaded(context.Context, common.ID, time.Time) error {
	return nil
}

type fakeTaskRepo struct {
	pending []*task.ProceduralTask
	findErr error

	created   [][]*task.ProceduralTask
	createErr error

	updated   []*task.ProceduralTask
	updateErr error
}

func (f *fakeTaskRepo) CreateBatch(_ context.Context, tasks []*task.ProceduralTask) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, tasks)
	return nil
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id common.ID) (*task.ProceduralTask, error) {
	for _, t := range f.pending {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errors.NotFound("task " + string(id) + " not found")
}

func (f *fakeTaskRepo) FindPending(_ context.Context, lawyerID *common.ID, _, to time.Time) ([]*task.ProceduralTask, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*task.ProceduralTask, 0, len(f.pending))
	for _, t := range f.pending {
		if lawyerID != nil && t.LawyerID != *lawyerID {
			continue
		}
		if t.DueDate.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskRepo) UpdateCompletion(_ context.Context, t *task.ProceduralTask) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, t)
	return nil
}

type fakeTemplateRepo struct {
	templates []*task.Template
	err       error
}

func (f *fakeTemplateRepo) FindActiveByOffice(context.Context, string) ([]*task.Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

func (f *fakeTemplateRepo) Save(context.Context, *task.Template) error { return nil }

type fakeLawyerRepo struct {
	lawyers map[common.ID]*lawyer.Lawyer
}

func (f *fakeLawyerRepo) FindByID(_ context.Context, id common.ID) (*lawyer.Lawyer, error) {
	if l, ok := f.lawyers[id]; ok {
		return l, nil
	}
	return nil, errors.NotFound("lawyer " + string(id) + " not found")
}

func (f *fakeLawyerRepo) FindByIDs(_ context.Context, ids []common.ID) (map[common.ID]*lawyer.Lawyer, error) {
	out := map[common.ID]*lawyer.Lawyer{}
	for _, id := range ids {
		if l, ok := f.lawyers[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*audit.Entry
	err     error
}

func (f *fakeAuditRepo) Insert(_ context.Context, e *audit.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Collaborator fakes
// ─────────────────────────────────────────────────────────────────────────────

type publishedEvent struct {
	Topic   string
	Key     string
	Payload interface{}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Payload: payload})
	return nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []*Message
	failFor map[string]error
}

func (f *fakeMailer) Send(_ context.Context, msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[msg.RecipientEmail]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeStateStore struct {
	mu      sync.Mutex
	sent    map[string]bool
	isErr   error
	markErr error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{sent: map[string]bool{}}
}

func (f *fakeStateStore) IsSent(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isErr != nil {
		return false, f.isErr
	}
	return f.sent[key], nil
}

func (f *fakeStateStore) MarkSent(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.sent[key] = true
	return nil
}
