package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Maxzi3/health-app-sub000/internal/model"
)

// ConversationRepo provides data access to the conversations and
// chat_messages tables. The daily quota consumer is the only writer of
// daily_message_count/last_message_date; it folds the day reset, the limit
// check and the increment into one conditional UPDATE so two concurrent
// messages cannot both slip under the limit.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

const conversationColumns = `id, patient_id, daily_message_count, last_message_date,
	appointment_id, prescription_id, created_at, updated_at`

func scanConversation(row *sql.Row) (model.Conversation, error) {
	var c model.Conversation
	err := row.Scan(&c.ID, &c.PatientID, &c.DailyMessageCount, &c.LastMessageDate,
		&c.AppointmentID, &c.PrescriptionID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Create starts a fresh conversation for a patient.
func (r *ConversationRepo) Create(ctx context.Context, patientID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO conversations (patient_id) VALUES (?)", patientID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LatestByPatient returns the patient's most recently created conversation.
func (r *ConversationRepo) LatestByPatient(ctx context.Context, patientID uint64) (model.Conversation, error) {
	return scanConversation(r.DB.QueryRowContext(ctx,
		"SELECT "+conversationColumns+` FROM conversations
		 WHERE patient_id=? ORDER BY created_at DESC, id DESC LIMIT 1`, patientID))
}

// GetByID returns a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	return scanConversation(r.DB.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id=? LIMIT 1", id))
}

// ConsumeDailyQuota counts one assistant message against the conversation's
// daily allowance. The single statement mirrors quota.Evaluate: a stale
// last_message_date resets the counter to 1, a fresh one increments it, and
// the WHERE clause refuses the row entirely once the limit is spent on the
// current day. Zero affected rows with an existing conversation means the
// quota was already exhausted; nothing is mutated in that case.
func (r *ConversationRepo) ConsumeDailyQuota(ctx context.Context, convID uint64, now time.Time, limit int) error {
	now = now.UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE conversations
		 SET daily_message_count = IF(last_message_date IS NULL OR DATE(last_message_date) <> DATE(?),
		                              1, daily_message_count + 1),
		     last_message_date = ?
		 WHERE id = ?
		   AND (last_message_date IS NULL
		        OR DATE(last_message_date) <> DATE(?)
		        OR daily_message_count < ?)`,
		now, now, convID, now, limit)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM conversations WHERE id=?", convID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}
		return ErrQuotaExceeded
	}
	return nil
}

// AppendMessage stores one transcript entry.
func (r *ConversationRepo) AppendMessage(ctx context.Context, convID uint64, sender, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO chat_messages (conversation_id, sender, text) VALUES (?,?,?)",
		convID, sender, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListMessages returns the transcript in chronological order.
func (r *ConversationRepo) ListMessages(ctx context.Context, convID uint64, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM chat_messages WHERE conversation_id=?
		 ORDER BY id ASC LIMIT ?`, convID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListRecentMessages returns the newest n transcript entries in
// chronological order. This is the completion context window; unlike
// ListMessages it anchors at the end of the transcript.
func (r *ConversationRepo) ListRecentMessages(ctx context.Context, convID uint64, n int) ([]model.ChatMessage, error) {
	if n <= 0 || n > 200 {
		n = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM chat_messages WHERE conversation_id=?
		 ORDER BY id DESC LIMIT ?`, convID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// LinkAppointment records the appointment created out of this thread.
func (r *ConversationRepo) LinkAppointment(ctx context.Context, convID, appointmentID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET appointment_id=? WHERE id=?", appointmentID, convID)
	return err
}

// LinkPrescription records the prescription created out of this thread.
func (r *ConversationRepo) LinkPrescription(ctx context.Context, convID, prescriptionID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET prescription_id=? WHERE id=?", prescriptionID, convID)
	return err
}
