package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/Maxzi3/health-app-sub000/internal/limiter"
	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// ConversationStore is the slice of the conversation repository the service
// depends on.
type ConversationStore interface {
	Create(ctx context.Context, patientID uint64) (uint64, error)
	LatestByPatient(ctx context.Context, patientID uint64) (model.Conversation, error)
	GetByID(ctx context.Context, id uint64) (model.Conversation, error)
	ConsumeDailyQuota(ctx context.Context, convID uint64, now time.Time, limit int) error
	AppendMessage(ctx context.Context, convID uint64, sender, text string) (uint64, error)
	ListRecentMessages(ctx context.Context, convID uint64, n int) ([]model.ChatMessage, error)
}

// DoctorDirectory resolves approved doctors for a specialization.
type DoctorDirectory interface {
	ListApprovedDoctors(ctx context.Context, specialization string) ([]model.User, error)
}

// DoctorSummary is the slimmed doctor record attached to assistant replies.
type DoctorSummary struct {
	ID             uint64 `json:"id"`
	FullName       string `json:"full_name"`
	Specialization string `json:"specialization"`
}

// Reply is the assistant's answer to one message. Limit exhaustion is a
// regular reply with LimitReached set, not an error: the chat UI renders it
// inline like any other assistant message. Symptoms and Doctors are never
// nil, so they marshal as [] rather than null; ConversationID is set only
// on authenticated replies.
type Reply struct {
	ConversationID  uint64          `json:"conversation_id,omitempty"`
	Text            string          `json:"text"`
	Symptoms        []Symptom       `json:"symptoms"`
	Doctors         []DoctorSummary `json:"doctors"`
	ExpectedDoctors bool            `json:"expected_doctors"`
	Remaining       int             `json:"remaining"`
	LimitReached    bool            `json:"limit_reached"`
}

// sealed fills in the never-nil slice fields before a reply leaves the
// service.
func sealed(r Reply) Reply {
	if r.Symptoms == nil {
		r.Symptoms = []Symptom{}
	}
	if r.Doctors == nil {
		r.Doctors = []DoctorSummary{}
	}
	return r
}

const (
	guestLimitText = "You've used today's free message. Create an account to keep talking with the assistant."

	patientLimitText = "You've reached today's message limit for this conversation. " +
		"Come back tomorrow, or book an appointment with one of our doctors."

	contextWindow = 20
)

// Service orchestrates the assistant flow: limiting, transcript
// persistence, completion and doctor matching.
type Service struct {
	conv         ConversationStore
	doctors      DoctorDirectory
	guests       limiter.DailyLimiter
	provider     Provider
	patientLimit int
	now          func() time.Time
}

func NewService(conv ConversationStore, doctors DoctorDirectory, guests limiter.DailyLimiter, provider Provider, patientLimit int) *Service {
	if patientLimit < 1 {
		patientLimit = 3
	}
	return &Service{
		conv:         conv,
		doctors:      doctors,
		guests:       guests,
		provider:     provider,
		patientLimit: patientLimit,
		now:          time.Now,
	}
}

// InitConversation returns the patient's current conversation, creating one
// when none exists yet.
func (s *Service) InitConversation(ctx context.Context, patientID uint64) (uint64, error) {
	conv, err := s.conv.LatestByPatient(ctx, patientID)
	if err == nil {
		return conv.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	return s.conv.Create(ctx, patientID)
}

// GuestMessage answers an unauthenticated caller. Nothing is persisted; the
// only state touched is the per-IP daily counter.
func (s *Service) GuestMessage(ctx context.Context, ip, text string) (Reply, error) {
	v, err := s.guests.Allow(ctx, ip, s.now())
	if err != nil {
		return Reply{}, err
	}
	if !v.Allowed {
		return sealed(Reply{Text: guestLimitText, LimitReached: true}), nil
	}

	answer, err := s.provider.Complete(ctx, BuildPrompt(nil, text))
	if err != nil {
		return Reply{}, err
	}
	return sealed(Reply{
		Text:      answer,
		Symptoms:  ExtractSymptoms(text),
		Remaining: v.Remaining,
	}), nil
}

// PatientMessage answers an authenticated patient inside their
// conversation. The quota is consumed before anything is persisted, so a
// rejected message leaves the transcript and counters untouched.
func (s *Service) PatientMessage(ctx context.Context, patientID, convID uint64, text string) (Reply, error) {
	conv, err := s.conv.GetByID(ctx, convID)
	if err != nil {
		return Reply{}, err
	}
	if conv.PatientID != patientID {
		return Reply{}, repository.ErrForbidden
	}

	if err := s.conv.ConsumeDailyQuota(ctx, convID, s.now(), s.patientLimit); err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return sealed(Reply{ConversationID: convID, Text: patientLimitText, LimitReached: true}), nil
		}
		return Reply{}, err
	}

	if _, err := s.conv.AppendMessage(ctx, convID, model.SenderUser, text); err != nil {
		return Reply{}, err
	}

	history, err := s.transcriptWindow(ctx, convID)
	if err != nil {
		return Reply{}, err
	}
	answer, err := s.provider.Complete(ctx, BuildPrompt(history, text))
	if err != nil {
		return Reply{}, err
	}

	symptoms := ExtractSymptoms(text)
	doctors, err := s.matchDoctors(ctx, symptoms)
	if err != nil {
		return Reply{}, err
	}

	if _, err := s.conv.AppendMessage(ctx, convID, model.SenderBot, answer); err != nil {
		return Reply{}, err
	}

	return sealed(Reply{
		ConversationID:  convID,
		Text:            answer,
		Symptoms:        symptoms,
		Doctors:         doctors,
		ExpectedDoctors: true,
	}), nil
}

// transcriptWindow loads the newest turns of the transcript, excluding the
// user message just appended (BuildPrompt re-adds it as the final turn).
func (s *Service) transcriptWindow(ctx context.Context, convID uint64) ([]Message, error) {
	msgs, err := s.conv.ListRecentMessages(ctx, convID, contextWindow)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 && msgs[len(msgs)-1].Sender == model.SenderUser {
		msgs = msgs[:len(msgs)-1]
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		role := "assistant"
		if m.Sender == model.SenderUser {
			role = "user"
		}
		out = append(out, Message{Role: role, Content: m.Text})
	}
	return out, nil
}

func (s *Service) matchDoctors(ctx context.Context, symptoms []Symptom) ([]DoctorSummary, error) {
	var out []DoctorSummary
	seen := make(map[uint64]bool)
	for _, spec := range Specializations(symptoms) {
		docs, err := s.doctors.ListApprovedDoctors(ctx, spec)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			spec := ""
			if d.Specialization != nil {
				spec = *d.Specialization
			}
			out = append(out, DoctorSummary{ID: d.ID, FullName: d.FullName, Specialization: spec})
		}
	}
	return out, nil
}
