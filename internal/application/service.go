package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/bnema/class-schedule-cli/internal/ports"
	"go.uber.org/zap"
)

type Config struct {
	Days      domain.WeekdaySet
	FirstHour int
	LastHour  int
	// NewID overrides session id generation; nil keeps the store default.
	NewID func() domain.SessionID
}

func DefaultConfig() Config {
	return Config{
		Days:      domain.WeekdaysSeven,
		FirstHour: domain.DefaultFirstHour,
		LastHour:  domain.DefaultLastHour,
	}
}

// Service drives one schedule. It keeps the canonical in-memory store,
// hydrated from the repository on first use, and writes every successful
// mutation through to the repository. It is not safe for concurrent use.
type Service struct {
	repo      ports.SessionRepository
	store     *domain.SessionStore
	projector *domain.GridProjector
	logger    *zap.Logger
	loaded    bool
}

func NewService(repo ports.SessionRepository, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Days) == 0 {
		cfg.Days = domain.WeekdaysSeven
	}

	projector, err := domain.NewGridProjector(cfg.Days, cfg.FirstHour, cfg.LastHour)
	if err != nil {
		return nil, fmt.Errorf("build grid projector: %w", err)
	}

	return &Service{
		repo:      repo,
		store:     domain.NewSessionStore(cfg.Days, domain.WithIDGenerator(cfg.NewID)),
		projector: projector,
		logger:    logger,
	}, nil
}

func (s *Service) Days() domain.WeekdaySet {
	return s.store.Days()
}

func (s *Service) AddSession(ctx context.Context, fields domain.SessionFields) (domain.SessionID, error) {
	if err := s.load(ctx); err != nil {
		return "", err
	}

	id, err := s.store.Add(fields)
	if err != nil {
		s.logger.Debug("add session rejected", zap.Error(err))
		return "", fmt.Errorf("add session: %w", err)
	}

	session, err := s.store.GetByID(id)
	if err != nil {
		return "", fmt.Errorf("get added session: %w", err)
	}

	if err := s.repo.Save(ctx, session); err != nil {
		if rollbackErr := s.store.Delete(id); rollbackErr != nil {
			return "", fmt.Errorf("save session and rollback add: %w", errors.Join(err, rollbackErr))
		}
		return "", fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session added",
		zap.String("session_id", string(id)),
		zap.String("day", string(session.Day)),
		zap.Stringer("start", session.Start),
	)

	return id, nil
}

func (s *Service) UpdateSession(ctx context.Context, id domain.SessionID, fields domain.SessionFields) error {
	if err := s.load(ctx); err != nil {
		return err
	}

	previous, err := s.store.GetByID(id)
	if err != nil {
		return fmt.Errorf("get session %s: %w", id, err)
	}

	if err := s.store.Update(id, fields); err != nil {
		s.logger.Debug("update session rejected", zap.String("session_id", string(id)), zap.Error(err))
		return fmt.Errorf("update session %s: %w", id, err)
	}

	updated, err := s.store.GetByID(id)
	if err != nil {
		return fmt.Errorf("get updated session: %w", err)
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		if rollbackErr := s.reinstate(previous); rollbackErr != nil {
			return fmt.Errorf("save session and rollback update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session updated", zap.String("session_id", string(id)))
	return nil
}

func (s *Service) DeleteSession(ctx context.Context, id domain.SessionID) error {
	if err := s.load(ctx); err != nil {
		return err
	}

	previous, err := s.store.GetByID(id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if rollbackErr := s.store.Restore(previous); rollbackErr != nil {
			return fmt.Errorf("delete stored session and rollback: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete stored session: %w", err)
	}

	s.logger.Info("session deleted", zap.String("session_id", string(id)))
	return nil
}

func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (domain.ClassSession, error) {
	if err := s.load(ctx); err != nil {
		return domain.ClassSession{}, err
	}

	session, err := s.store.GetByID(id)
	if err != nil {
		return domain.ClassSession{}, fmt.Errorf("get session %s: %w", id, err)
	}

	return session, nil
}

// ListSessions returns sessions in canonical order, optionally for one day.
func (s *Service) ListSessions(ctx context.Context, query ListQuery) ([]domain.ClassSession, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	sessions := s.store.List()
	if query.Day != "" {
		sessions = domain.FilterByDay(sessions, query.Day)
	}

	return domain.Sort(sessions), nil
}

func (s *Service) Grid(ctx context.Context) (domain.Grid, error) {
	if err := s.load(ctx); err != nil {
		return domain.Grid{}, err
	}

	return s.projector.Project(s.store.List()), nil
}

func (s *Service) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list stored sessions: %w", err)
	}

	if err := s.store.Restore(records...); err != nil {
		return fmt.Errorf("restore stored sessions: %w", err)
	}

	s.loaded = true
	s.logger.Debug("sessions loaded", zap.Int("count", len(records)))
	return nil
}

func (s *Service) reinstate(previous domain.ClassSession) error {
	if err := s.store.Delete(previous.ID); err != nil {
		return err
	}
	return s.store.Restore(previous)
}
