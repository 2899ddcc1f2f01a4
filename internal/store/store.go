package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"conditionscript/internal/message"
)

// ErrNotFound is returned when a message doesn't exist
var ErrNotFound = errors.New("message not found")

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	chat_id TEXT NOT NULL,
	order_number INTEGER NOT NULL,
	kind TEXT NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, order_number, created_at);
`

// Store manages answer persistence
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the default database location (~/.conditionscript/answers.db)
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".conditionscript", "answers.db")
	}
	return filepath.Join(home, ".conditionscript", "answers.db")
}

// Open creates or opens the database at path. ":memory:" keeps it in memory.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; an in-memory database also lives on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Save stores a message, assigning an id and timestamp when they are empty
func (s *Store) Save(ctx context.Context, msg Message) (Message, error) {
	if strings.TrimSpace(msg.ChatID) == "" {
		return Message{}, errors.New("save message: chat id is required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO messages (id, chat_id, order_number, kind, answer, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.OrderNumber, string(msg.Kind), msg.Answer, msg.CreatedAt.UnixNano())
	if err != nil {
		return Message{}, fmt.Errorf("save message %s: %w", msg.ID, err)
	}
	return msg, nil
}

// Load retrieves a message by id
func (s *Store) Load(ctx context.Context, id string) (Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chat_id, order_number, kind, answer, created_at FROM messages WHERE id = ?`, id)
	return scanOne(row)
}

// ListByChat returns the messages of a chat, oldest first
func (s *Store) ListByChat(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, order_number, kind, answer, created_at FROM messages
		 WHERE chat_id = ? ORDER BY created_at, rowid`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list chat %s: %w", chatID, err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		msg, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Latest returns the most recent answer of a chat to one question
func (s *Store) Latest(ctx context.Context, chatID string, orderNumber int64) (Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chat_id, order_number, kind, answer, created_at FROM messages
		 WHERE chat_id = ? AND order_number = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		chatID, orderNumber)
	return scanOne(row)
}

// Chats summarizes every chat with stored messages
func (s *Store) Chats(ctx context.Context) ([]ChatSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, COUNT(*), MAX(created_at) FROM messages GROUP BY chat_id ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	summaries := []ChatSummary{}
	for rows.Next() {
		var summary ChatSummary
		var lastSeen int64
		if err := rows.Scan(&summary.ChatID, &summary.Messages, &lastSeen); err != nil {
			return nil, err
		}
		summary.LastSeen = time.Unix(0, lastSeen)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Delete removes a message by id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune removes messages older than the given duration.
// Returns the number of messages deleted.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune messages: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (Message, error) {
	var msg Message
	var kind string
	var created int64
	err := row.Scan(&msg.ID, &msg.ChatID, &msg.OrderNumber, &kind, &msg.Answer, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	if err != nil {
		return Message{}, err
	}
	msg.Kind = message.Kind(kind)
	msg.CreatedAt = time.Unix(0, created)
	return msg, nil
}
