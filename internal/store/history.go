package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryMessage is one stored conversation turn.
type HistoryMessage struct {
	Role      string
	Message   string
	CreatedAt time.Time
}

// ContactInfo summarizes a contact's conversation history.
type ContactInfo struct {
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name"`
	MessageCount int    `json:"message_count"`
}

// SaveMessage appends a role-tagged message to a contact's history.
func (s *Store) SaveMessage(ctx context.Context, contactID, contactName, role, message string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_history (id, contact_id, contact_name, role, message)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), contactID, contactName, role, message,
	)
	if err != nil {
		return fmt.Errorf("insert history message: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit messages for a contact, newest
// first. Callers that feed prompts must reverse to chronological order.
func (s *Store) RecentHistory(ctx context.Context, contactID string, limit int) ([]HistoryMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT role, message, created_at
		FROM conversation_history
		WHERE contact_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		contactID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer rows.Close()

	var msgs []HistoryMessage
	for rows.Next() {
		var m HistoryMessage
		if err := rows.Scan(&m.Role, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearHistory deletes all history for a contact.
func (s *Store) ClearHistory(ctx context.Context, contactID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM conversation_history WHERE contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Contacts lists every contact present in the history with its latest
// known display name and message count.
func (s *Store) Contacts(ctx context.Context) ([]ContactInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT contact_id, max(contact_name), count(*)
		FROM conversation_history
		GROUP BY contact_id
		ORDER BY contact_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []ContactInfo
	for rows.Next() {
		var c ContactInfo
		if err := rows.Scan(&c.ContactID, &c.ContactName, &c.MessageCount); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
