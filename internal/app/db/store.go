/*
Package db implements the persistence layer on PostgreSQL.

The Store translates the chat core's persistence surface (user status, message
history, chat preview records) plus the account operations used by the auth
handlers into pgx queries.
*/
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dmchat/internal/app/chat"
	"dmchat/internal/app/user"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Account is a stored user account, including the credential hash.
// It is only used by the auth handlers; the chat core sees user.User.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	IsPremium    bool
	MessageCount int
}

// ChatSummary is one entry of a user's active chat list.
type ChatSummary struct {
	ChatID       string    `json:"chat_id"`
	LastMessage  string    `json:"last_message"`
	Timestamp    time.Time `json:"timestamp"`
	Participants []string  `json:"participants"`
}

// Store provides all database operations over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateAccount inserts a new user account. A duplicate username surfaces as a
// unique violation (see IsUniqueViolation).
func (s *Store) CreateAccount(ctx context.Context, username, passwordHash string) (Account, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, is_premium, message_count`

	var a Account
	err := s.pool.QueryRow(ctx, q, username, passwordHash).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsPremium, &a.MessageCount)
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}

	return a, nil
}

// GetAccountByUsername fetches an account with its credential hash for login checks.
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (Account, error) {
	const q = `
		SELECT id, username, password_hash, is_premium, message_count
		FROM users
		WHERE username = $1`

	var a Account
	err := s.pool.QueryRow(ctx, q, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.IsPremium, &a.MessageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account by username: %w", err)
	}

	return a, nil
}

// UpdateLastLogin stamps the account's last login time.
func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// GetUser returns the user's identity, plan status, and billable counter.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	const q = `
		SELECT id, username, is_premium, message_count
		FROM users
		WHERE id = $1`

	var u user.User
	err := s.pool.QueryRow(ctx, q, userID).
		Scan(&u.ID, &u.Username, &u.IsPremium, &u.MessageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// UserExists reports whether an account with the given ID exists.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

// IncrementMessageCount durably advances the user's billable counter by one.
func (s *Store) IncrementMessageCount(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET message_count = message_count + 1 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment message count: %w", err)
	}
	return nil
}

// SaveMessage appends a message to the chat history. Messages are append-only:
// nothing in the system updates or deletes them.
func (s *Store) SaveMessage(ctx context.Context, msg chat.StoredMessage) error {
	const q = `
		INSERT INTO messages (chat_id, sender_id, username, content, message_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, q,
		msg.ChatID, msg.SenderID, msg.Username, msg.Content, msg.Type, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// UpdateChatPreview upserts the last-message preview on the chat record.
// A preview for a chat that was never created is silently a no-op; the
// message itself is what matters.
func (s *Store) UpdateChatPreview(ctx context.Context, chatID string, ts time.Time, preview, msgType string) error {
	const q = `
		UPDATE chats
		SET last_message_content = $2, last_message_type = $3, last_message_at = $4
		WHERE chat_id = $1`

	_, err := s.pool.Exec(ctx, q, chatID, preview, msgType, ts)
	if err != nil {
		return fmt.Errorf("update chat preview: %w", err)
	}
	return nil
}

// CreateChat creates the chat record between two users if it does not already
// exist and returns the deterministic chat ID either way.
func (s *Store) CreateChat(ctx context.Context, userAID, userBID string) (string, error) {
	chatID := chat.ChatID(userAID, userBID)

	const q = `
		INSERT INTO chats (chat_id, user_a_id, user_b_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO NOTHING`

	if _, err := s.pool.Exec(ctx, q, chatID, userAID, userBID); err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	return chatID, nil
}

// IsChatParticipant reports whether the user is one of the chat's two participants.
func (s *Store) IsChatParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM chats
			WHERE chat_id = $1 AND (user_a_id = $2 OR user_b_id = $2)
		)`

	var ok bool
	if err := s.pool.QueryRow(ctx, q, chatID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("is chat participant: %w", err)
	}
	return ok, nil
}

// GetChatHistory returns up to limit most recent messages for a chat, ordered
// oldest to newest.
func (s *Store) GetChatHistory(ctx context.Context, chatID string, limit int) ([]chat.StoredMessage, error) {
	const q = `
		SELECT chat_id, sender_id, username, content, message_type, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer rows.Close()

	var history []chat.StoredMessage
	for rows.Next() {
		var m chat.StoredMessage
		if err := rows.Scan(&m.ChatID, &m.SenderID, &m.Username, &m.Content, &m.Type, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat history row: %w", err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}

	// The query reads newest-first to apply the limit; flip to chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}

// ListActiveChats returns the user's chats with last-message previews, newest first.
func (s *Store) ListActiveChats(ctx context.Context, userID string) ([]ChatSummary, error) {
	const q = `
		SELECT c.chat_id, c.last_message_content, COALESCE(c.last_message_at, c.created_at),
		       ua.username, ub.username
		FROM chats c
		JOIN users ua ON ua.id = c.user_a_id
		JOIN users ub ON ub.id = c.user_b_id
		WHERE c.user_a_id = $1 OR c.user_b_id = $1
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list active chats: %w", err)
	}
	defer rows.Close()

	var chats []ChatSummary
	for rows.Next() {
		var c ChatSummary
		var usernameA, usernameB string
		if err := rows.Scan(&c.ChatID, &c.LastMessage, &c.Timestamp, &usernameA, &usernameB); err != nil {
			return nil, fmt.Errorf("scan chat summary row: %w", err)
		}
		c.Participants = []string{usernameA, usernameB}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active chats: %w", err)
	}

	return chats, nil
}
