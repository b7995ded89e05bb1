package model

import "time"

// Message sender values stored in chat_messages.sender.
const (
	SenderUser = "USER"
	SenderBot  = "BOT"
)

// Conversation is a patient's assistant chat thread as stored in the
// `conversations` table.  The daily message counter and its date stamp
// live on the row itself so the quota survives process restarts; both
// are mutated only through the conditional update in the repository.
//
// Fields:
//  ID                – primary key identifier.
//  PatientID         – owning patient.
//  DailyMessageCount – assistant messages consumed on LastMessageDate's day.
//  LastMessageDate   – timestamp of the last counted message (nullable).
//  AppointmentID     – appointment created out of this thread (nullable).
//  PrescriptionID    – prescription created out of this thread (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Conversation struct {
	ID                uint64     // conversations.id
	PatientID         uint64     // conversations.patient_id
	DailyMessageCount int        // conversations.daily_message_count
	LastMessageDate   *time.Time // conversations.last_message_date (nullable)
	AppointmentID     *uint64    // conversations.appointment_id (nullable)
	PrescriptionID    *uint64    // conversations.prescription_id (nullable)
	CreatedAt         time.Time  // conversations.created_at
	UpdatedAt         time.Time  // conversations.updated_at
}

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	ID             uint64    // chat_messages.id
	ConversationID uint64    // chat_messages.conversation_id
	Sender         string    // chat_messages.sender (USER or BOT)
	Text           string    // chat_messages.text
	CreatedAt      time.Time // chat_messages.created_at
}
