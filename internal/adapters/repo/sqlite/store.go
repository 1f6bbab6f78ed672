// Package sqlite provides a SQLite-backed session repository.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/bnema/class-schedule-cli/internal/ports"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store persists class sessions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ ports.SessionRepository = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
		dsn = cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts or replaces one session.
func (s *Store) Save(ctx context.Context, session domain.ClassSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(string(session.ID)) == "" {
		return fmt.Errorf("session id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO class_sessions (id, seq, subject, teacher, room, day, start_min, end_min, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   seq = excluded.seq,
		   subject = excluded.subject,
		   teacher = excluded.teacher,
		   room = excluded.room,
		   day = excluded.day,
		   start_min = excluded.start_min,
		   end_min = excluded.end_min,
		   color = excluded.color`,
		string(session.ID),
		session.Seq,
		session.Subject,
		session.Teacher,
		session.Room,
		string(session.Day),
		session.Start.Minutes(),
		session.End.Minutes(),
		string(session.Color),
	)
	if err != nil {
		return fmt.Errorf("save class session: %w", err)
	}
	return nil
}

// Delete removes one session. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, id domain.SessionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM class_sessions WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete class session: %w", err)
	}
	return nil
}

// List returns every stored session in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.ClassSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, seq, subject, teacher, room, day, start_min, end_min, color
		   FROM class_sessions
		  ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.ClassSession, 0)
	for rows.Next() {
		var (
			session  domain.ClassSession
			id, day  string
			color    string
			startMin int
			endMin   int
		)
		if err := rows.Scan(&id, &session.Seq, &session.Subject, &session.Teacher, &session.Room, &day, &startMin, &endMin, &color); err != nil {
			return nil, fmt.Errorf("scan class session: %w", err)
		}
		session.ID = domain.SessionID(id)
		session.Day = domain.Weekday(day)
		start, err := timeFromMinutes(startMin)
		if err != nil {
			return nil, fmt.Errorf("scan class session %s: start_min: %w", id, err)
		}
		end, err := timeFromMinutes(endMin)
		if err != nil {
			return nil, fmt.Errorf("scan class session %s: end_min: %w", id, err)
		}
		session.Start = start
		session.End = end
		session.Color = domain.Color(color)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class sessions: %w", err)
	}

	return sessions, nil
}

func timeFromMinutes(minutes int) (domain.TimeOfDay, error) {
	if minutes < 0 {
		return 0, fmt.Errorf("%d out of range", minutes)
	}
	return domain.NewTimeOfDay(minutes/60, minutes%60)
}
