package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Maxzi3/health-app-sub000/internal/limiter"
	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/quota"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// fakeConvStore reimplements the quota semantics in memory via
// quota.Evaluate, which the SQL statement mirrors.
type fakeConvStore struct {
	convs    map[uint64]*model.Conversation
	messages map[uint64][]model.ChatMessage
	nextID   uint64
	limit    int
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{
		convs:    make(map[uint64]*model.Conversation),
		messages: make(map[uint64][]model.ChatMessage),
		nextID:   1,
	}
}

func (f *fakeConvStore) Create(_ context.Context, patientID uint64) (uint64, error) {
	id := f.nextID
	f.nextID++
	f.convs[id] = &model.Conversation{ID: id, PatientID: patientID, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeConvStore) LatestByPatient(_ context.Context, patientID uint64) (model.Conversation, error) {
	var latest *model.Conversation
	for _, c := range f.convs {
		if c.PatientID == patientID && (latest == nil || c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return model.Conversation{}, repository.ErrNotFound
	}
	return *latest, nil
}

func (f *fakeConvStore) GetByID(_ context.Context, id uint64) (model.Conversation, error) {
	c, ok := f.convs[id]
	if !ok {
		return model.Conversation{}, repository.ErrNotFound
	}
	return *c, nil
}

func (f *fakeConvStore) ConsumeDailyQuota(_ context.Context, convID uint64, now time.Time, limit int) error {
	c, ok := f.convs[convID]
	if !ok {
		return repository.ErrNotFound
	}
	d := quota.Evaluate(c.LastMessageDate, c.DailyMessageCount, limit, now)
	if !d.Allowed {
		return repository.ErrQuotaExceeded
	}
	c.DailyMessageCount = d.NewCount
	t := now
	c.LastMessageDate = &t
	return nil
}

func (f *fakeConvStore) AppendMessage(_ context.Context, convID uint64, sender, text string) (uint64, error) {
	id := f.nextID
	f.nextID++
	f.messages[convID] = append(f.messages[convID], model.ChatMessage{
		ID: id, ConversationID: convID, Sender: sender, Text: text,
	})
	return id, nil
}

// ListRecentMessages mirrors the repository query: newest n rows, returned
// in chronological order.
func (f *fakeConvStore) ListRecentMessages(_ context.Context, convID uint64, n int) ([]model.ChatMessage, error) {
	msgs := f.messages[convID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return append([]model.ChatMessage(nil), msgs...), nil
}

type fakeDirectory struct{ doctors map[string][]model.User }

func (f *fakeDirectory) ListApprovedDoctors(_ context.Context, specialization string) ([]model.User, error) {
	return f.doctors[specialization], nil
}

type fakeProvider struct {
	last  []Message
	reply string
}

func (p *fakeProvider) Complete(_ context.Context, messages []Message) (string, error) {
	p.last = append([]Message(nil), messages...)
	return p.reply, nil
}

func strptr(s string) *string { return &s }

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestService(store *fakeConvStore, dir *fakeDirectory, guests limiter.DailyLimiter, prov *fakeProvider) *Service {
	if dir == nil {
		dir = &fakeDirectory{}
	}
	if guests == nil {
		guests = limiter.NewMemoryLimiter(1, 0)
	}
	return NewService(store, dir, guests, prov, 3)
}

func TestInitConversationCreatesOnce(t *testing.T) {
	store := newFakeConvStore()
	svc := newTestService(store, nil, nil, &fakeProvider{reply: "ok"})

	first, err := svc.InitConversation(context.Background(), 7)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	second, err := svc.InitConversation(context.Background(), 7)
	if err != nil {
		t.Fatalf("init again: %v", err)
	}
	if first != second {
		t.Fatalf("expected the existing conversation to be reused, got %d then %d", first, second)
	}
}

func TestGuestMessageLimit(t *testing.T) {
	svc := newTestService(newFakeConvStore(), nil, limiter.NewMemoryLimiter(1, 0), &fakeProvider{reply: "rest and fluids"})
	ctx := context.Background()

	r, err := svc.GuestMessage(ctx, "203.0.113.7", "I have a fever")
	if err != nil {
		t.Fatalf("first guest message: %v", err)
	}
	if r.LimitReached || r.Text != "rest and fluids" {
		t.Fatalf("unexpected first reply: %+v", r)
	}
	if len(r.Symptoms) != 1 || r.Symptoms[0].Specialization != "General Medicine" {
		t.Fatalf("expected general-medicine symptom, got %+v", r.Symptoms)
	}
	if r.ExpectedDoctors || len(r.Doctors) != 0 {
		t.Fatalf("guests never get doctor recommendations: %+v", r)
	}

	r, err = svc.GuestMessage(ctx, "203.0.113.7", "still feverish")
	if err != nil {
		t.Fatalf("second guest message: %v", err)
	}
	if !r.LimitReached {
		t.Fatalf("second guest message of the day must hit the limit: %+v", r)
	}
}

func TestPatientMessagePersistsAndMatchesDoctors(t *testing.T) {
	store := newFakeConvStore()
	dir := &fakeDirectory{doctors: map[string][]model.User{
		"Cardiology": {{ID: 42, FullName: "Dr. Ada", Specialization: strptr("Cardiology")}},
	}}
	prov := &fakeProvider{reply: "please see a cardiologist"}
	svc := newTestService(store, dir, nil, prov)
	ctx := context.Background()

	convID, _ := svc.InitConversation(ctx, 7)
	r, err := svc.PatientMessage(ctx, 7, convID, "sharp chest pain when breathing")
	if err != nil {
		t.Fatalf("patient message: %v", err)
	}
	if !r.ExpectedDoctors {
		t.Fatalf("authenticated replies must flag expected_doctors")
	}
	if len(r.Doctors) != 1 || r.Doctors[0].ID != 42 {
		t.Fatalf("expected Dr. Ada, got %+v", r.Doctors)
	}

	msgs := store.messages[convID]
	if len(msgs) != 2 {
		t.Fatalf("expected USER and BOT messages, got %d", len(msgs))
	}
	if msgs[0].Sender != model.SenderUser || msgs[1].Sender != model.SenderBot {
		t.Fatalf("unexpected senders: %+v", msgs)
	}
	if prov.last[0].Role != "system" {
		t.Fatalf("provider prompt must start with the system message")
	}
}

func TestPatientMessageContextWindowIsRecent(t *testing.T) {
	store := newFakeConvStore()
	prov := &fakeProvider{reply: "ok"}
	svc := newTestService(store, nil, nil, prov)
	ctx := context.Background()

	convID, _ := svc.InitConversation(ctx, 7)
	for i := 0; i < 25; i++ {
		sender := model.SenderUser
		if i%2 == 1 {
			sender = model.SenderBot
		}
		if _, err := store.AppendMessage(ctx, convID, sender, fmt.Sprintf("m%02d", i)); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	if _, err := svc.PatientMessage(ctx, 7, convID, "latest question"); err != nil {
		t.Fatalf("patient message: %v", err)
	}

	// system prompt + 19 history turns + the new user message
	if len(prov.last) != 21 {
		t.Fatalf("expected 21 prompt messages, got %d", len(prov.last))
	}
	if got := prov.last[len(prov.last)-1].Content; got != "latest question" {
		t.Fatalf("final turn must be the new message, got %q", got)
	}
	if got := prov.last[len(prov.last)-2].Content; got != "m24" {
		t.Fatalf("history must end with the newest stored turn, got %q", got)
	}
	if got := prov.last[1].Content; got != "m06" {
		t.Fatalf("history must start at the window boundary, got %q", got)
	}
}

func TestReplySlicesNeverNull(t *testing.T) {
	store := newFakeConvStore()
	svc := newTestService(store, nil, limiter.NewMemoryLimiter(1, 0), &fakeProvider{reply: "ok"})
	ctx := context.Background()

	assertSlices := func(label string, r Reply) {
		t.Helper()
		if r.Symptoms == nil || r.Doctors == nil {
			t.Fatalf("%s: symptoms/doctors must marshal as [], got %+v", label, r)
		}
	}

	r, err := svc.GuestMessage(ctx, "198.51.100.1", "hello there")
	if err != nil {
		t.Fatalf("guest message: %v", err)
	}
	assertSlices("guest reply", r)
	r, _ = svc.GuestMessage(ctx, "198.51.100.1", "hello again")
	assertSlices("guest limit reply", r)

	convID, _ := svc.InitConversation(ctx, 7)
	r, err = svc.PatientMessage(ctx, 7, convID, "hello doctor")
	if err != nil {
		t.Fatalf("patient message: %v", err)
	}
	assertSlices("patient reply", r)
	if r.ConversationID != convID {
		t.Fatalf("patient reply must carry its conversation id, got %d", r.ConversationID)
	}

	store.convs[convID].DailyMessageCount = 3
	now := time.Now()
	store.convs[convID].LastMessageDate = &now
	r, err = svc.PatientMessage(ctx, 7, convID, "one more")
	if err != nil {
		t.Fatalf("quota reply: %v", err)
	}
	assertSlices("quota reply", r)
}

func TestPatientMessageQuotaExhausted(t *testing.T) {
	store := newFakeConvStore()
	svc := newTestService(store, nil, nil, &fakeProvider{reply: "ok"})
	svc.now = func() time.Time { return ts("2025-01-15T18:00:00Z") }
	ctx := context.Background()

	convID, _ := svc.InitConversation(ctx, 7)
	last := ts("2025-01-15T09:00:00Z")
	store.convs[convID].DailyMessageCount = 3
	store.convs[convID].LastMessageDate = &last

	r, err := svc.PatientMessage(ctx, 7, convID, "another question")
	if err != nil {
		t.Fatalf("quota rejection is not an error: %v", err)
	}
	if !r.LimitReached {
		t.Fatalf("expected limit-reached reply, got %+v", r)
	}
	if store.convs[convID].DailyMessageCount != 3 {
		t.Fatalf("rejection must not change the counter")
	}
	if len(store.messages[convID]) != 0 {
		t.Fatalf("rejected message must not be persisted")
	}
}

func TestPatientMessageQuotaResetsNextDay(t *testing.T) {
	store := newFakeConvStore()
	svc := newTestService(store, nil, nil, &fakeProvider{reply: "ok"})
	svc.now = func() time.Time { return ts("2025-01-16T00:00:01Z") }
	ctx := context.Background()

	convID, _ := svc.InitConversation(ctx, 7)
	last := ts("2025-01-15T23:59:59Z")
	store.convs[convID].DailyMessageCount = 3
	store.convs[convID].LastMessageDate = &last

	r, err := svc.PatientMessage(ctx, 7, convID, "good morning")
	if err != nil {
		t.Fatalf("patient message: %v", err)
	}
	if r.LimitReached {
		t.Fatalf("new calendar day must reset the quota")
	}
	if store.convs[convID].DailyMessageCount != 1 {
		t.Fatalf("expected count 1 after reset, got %d", store.convs[convID].DailyMessageCount)
	}
}

func TestPatientMessageOwnership(t *testing.T) {
	store := newFakeConvStore()
	svc := newTestService(store, nil, nil, &fakeProvider{reply: "ok"})
	ctx := context.Background()

	convID, _ := svc.InitConversation(ctx, 7)
	if _, err := svc.PatientMessage(ctx, 8, convID, "hi"); err != repository.ErrForbidden {
		t.Fatalf("expected ErrForbidden for foreign conversation, got %v", err)
	}
}
