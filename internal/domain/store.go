package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxIDAttempts = 8

// SessionStore owns the canonical set of class sessions for one schedule.
// It performs no I/O and holds no lock; callers serialise access.
type SessionStore struct {
	days     WeekdaySet
	newID    func() SessionID
	sessions map[SessionID]ClassSession
	nextSeq  int64
}

type StoreOption func(*SessionStore)

func WithIDGenerator(newID func() SessionID) StoreOption {
	return func(s *SessionStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewSessionStore(days WeekdaySet, opts ...StoreOption) *SessionStore {
	if len(days) == 0 {
		days = WeekdaysSeven
	}

	s := &SessionStore{
		days:     days,
		newID:    func() SessionID { return SessionID(uuid.NewString()) },
		sessions: make(map[SessionID]ClassSession),
		nextSeq:  1,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SessionStore) Days() WeekdaySet {
	return s.days
}

func (s *SessionStore) Add(fields SessionFields) (SessionID, error) {
	fields = fields.normalized()
	if err := fields.Validate(s.days); err != nil {
		return "", err
	}

	id, err := s.freshID()
	if err != nil {
		return "", err
	}

	s.sessions[id] = sessionFrom(id, s.nextSeq, fields)
	s.nextSeq++

	return id, nil
}

func (s *SessionStore) Update(id SessionID, fields SessionFields) error {
	current, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	fields = fields.normalized()
	if err := fields.Validate(s.days); err != nil {
		return err
	}

	s.sessions[id] = sessionFrom(id, current.Seq, fields)
	return nil
}

func (s *SessionStore) Delete(id SessionID) error {
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) GetByID(id SessionID) (ClassSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return ClassSession{}, ErrSessionNotFound
	}
	return session, nil
}

// List returns a snapshot in no particular order; use Sort for display order.
func (s *SessionStore) List() []ClassSession {
	sessions := make([]ClassSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

func (s *SessionStore) Len() int {
	return len(s.sessions)
}

// Restore inserts previously issued records as-is, keeping their ids and
// sequence numbers. Either every record is inserted or none is.
func (s *SessionStore) Restore(records ...ClassSession) error {
	seen := make(map[SessionID]struct{}, len(records))
	for _, record := range records {
		if strings.TrimSpace(string(record.ID)) == "" {
			return fmt.Errorf("restore session: id is required")
		}
		if _, ok := s.sessions[record.ID]; ok {
			return fmt.Errorf("restore session %s: duplicate id", record.ID)
		}
		if _, ok := seen[record.ID]; ok {
			return fmt.Errorf("restore session %s: duplicate id", record.ID)
		}
		seen[record.ID] = struct{}{}
	}

	for _, record := range records {
		if record.Seq >= s.nextSeq {
			s.nextSeq = record.Seq + 1
		}
	}
	for _, record := range records {
		if record.Seq <= 0 {
			record.Seq = s.nextSeq
			s.nextSeq++
		}
		s.sessions[record.ID] = record
	}

	return nil
}

func (s *SessionStore) freshID() (SessionID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if strings.TrimSpace(string(id)) == "" {
			continue
		}
		if _, taken := s.sessions[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate session id: no unique id after %d attempts", maxIDAttempts)
}

func sessionFrom(id SessionID, seq int64, fields SessionFields) ClassSession {
	return ClassSession{
		ID:      id,
		Subject: fields.Subject,
		Teacher: fields.Teacher,
		Room:    fields.Room,
		Day:     fields.Day,
		Start:   fields.Start,
		End:     fields.End,
		Color:   fields.Color,
		Seq:     seq,
	}
}
