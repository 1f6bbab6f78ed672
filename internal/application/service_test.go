package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	tomlrepo "github.com/bnema/class-schedule-cli/internal/adapters/repo/toml"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/bnema/class-schedule-cli/internal/ports/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sequentialIDs(prefix string) func() domain.SessionID {
	n := 0
	return func() domain.SessionID {
		n++
		return domain.SessionID(fmt.Sprintf("%s%d", prefix, n))
	}
}

func testConfig(prefix string) Config {
	cfg := DefaultConfig()
	cfg.NewID = sequentialIDs(prefix)
	return cfg
}

func newTestService(t *testing.T, repo *mocks.MockSessionRepository, cfg Config) *Service {
	t.Helper()

	service, err := NewService(repo, cfg, zap.NewNop())
	require.NoError(t, err)
	return service
}

func fieldsFor(subject string, day domain.Weekday, start, end string) domain.SessionFields {
	return domain.SessionFields{
		Subject: subject,
		Teacher: "T",
		Room:    "R1",
		Day:     day,
		Start:   domain.MustParseTimeOfDay(start),
		End:     domain.MustParseTimeOfDay(end),
	}
}

func sessionIDs(sessions []domain.ClassSession) []domain.SessionID {
	ids := make([]domain.SessionID, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	return ids
}

func TestNewServiceRejectsInvalidGridBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.FirstHour = 18
	cfg.LastHour = 8

	_, err := NewService(mocks.NewMockSessionRepository(t), cfg, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "build grid projector")
}

func TestServiceAddSessionSavesThroughRepository(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), domain.ClassSession{
		ID:      "k1",
		Subject: "Math",
		Teacher: "T",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:00"),
		Seq:     1,
	}).Return(nil)

	id, err := service.AddSession(context.Background(), fieldsFor("Math", domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("k1"), id)
}

func TestServiceAddSessionValidationFailureSkipsRepository(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	fields := fieldsFor("", domain.Monday, "10:00", "09:00")
	_, err := service.AddSession(context.Background(), fields)
	require.ErrorIs(t, err, domain.ErrValidation)

	invalid := domain.ValidationErrors(err)
	fieldsReported := make([]string, 0, len(invalid))
	for _, verr := range invalid {
		fieldsReported = append(fieldsReported, verr.Field)
	}
	assert.ElementsMatch(t, []string{"subject", "end"}, fieldsReported)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestServiceAddSessionRollsBackWhenSaveFails(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	saveErr := errors.New("disk full")
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.ClassSession")).Return(saveErr).Once()

	_, err := service.AddSession(context.Background(), fieldsFor("Math", domain.Monday, "09:00", "10:00"))
	require.ErrorIs(t, err, saveErr)

	sessions, err := service.ListSessions(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestServiceUpdateSessionRestoresPreviousWhenSaveFails(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	stored := domain.ClassSession{
		ID:      "k1",
		Subject: "Math",
		Teacher: "T",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:00"),
		Seq:     1,
	}
	saveErr := errors.New("disk full")
	repo.EXPECT().List(mockAnyContext()).Return([]domain.ClassSession{stored}, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.ClassSession")).Return(saveErr).Once()

	err := service.UpdateSession(context.Background(), "k1", fieldsFor("Physics", domain.Tuesday, "11:00", "12:00"))
	require.ErrorIs(t, err, saveErr)

	got, err := service.GetSession(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestServiceUpdateSessionKeepsSeq(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	stored := domain.ClassSession{
		ID:      "k1",
		Subject: "Math",
		Teacher: "T",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:00"),
		Seq:     4,
	}
	repo.EXPECT().List(mockAnyContext()).Return([]domain.ClassSession{stored}, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.MatchedBy(func(session domain.ClassSession) bool {
		return session.ID == "k1" && session.Subject == "Physics" && session.Seq == 4
	})).Return(nil).Once()

	require.NoError(t, service.UpdateSession(context.Background(), "k1", fieldsFor("Physics", domain.Tuesday, "11:00", "12:00")))
}

func TestServiceUpdateUnknownSessionReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	err := service.UpdateSession(context.Background(), "missing", fieldsFor("Math", domain.Monday, "09:00", "10:00"))
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServiceDeleteSessionRestoresWhenRepositoryFails(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	stored := domain.ClassSession{
		ID:      "k1",
		Subject: "Math",
		Teacher: "T",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:00"),
		Seq:     1,
	}
	deleteErr := errors.New("permission denied")
	repo.EXPECT().List(mockAnyContext()).Return([]domain.ClassSession{stored}, nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("k1")).Return(deleteErr).Once()

	err := service.DeleteSession(context.Background(), "k1")
	require.ErrorIs(t, err, deleteErr)

	got, err := service.GetSession(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestServiceDeleteUnknownSessionReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	err := service.DeleteSession(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServiceLoadFailureIsReturned(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	listErr := errors.New("corrupt file")
	repo.EXPECT().List(mockAnyContext()).Return(nil, listErr).Twice()

	_, err := service.ListSessions(context.Background(), ListQuery{})
	require.ErrorIs(t, err, listErr)

	_, err = service.Grid(context.Background())
	require.ErrorIs(t, err, listErr)
}

func TestServiceLoadsRepositoryOnce(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))

	repo.EXPECT().List(mockAnyContext()).Return([]domain.ClassSession{{
		ID:      "k7",
		Subject: "Math",
		Teacher: "T",
		Room:    "R1",
		Day:     domain.Monday,
		Start:   domain.MustParseTimeOfDay("09:00"),
		End:     domain.MustParseTimeOfDay("10:00"),
		Seq:     7,
	}}, nil).Once()

	for range 3 {
		sessions, err := service.ListSessions(context.Background(), ListQuery{})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
	}
}

func TestServiceListSessionsOrdersAndFilters(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.ClassSession")).Return(nil).Times(4)

	ctx := context.Background()
	for _, fields := range []domain.SessionFields{
		fieldsFor("Chemistry", domain.Wednesday, "08:00", "09:00"),
		fieldsFor("Math", domain.Monday, "09:00", "10:00"),
		fieldsFor("English", domain.Monday, "08:00", "09:00"),
		fieldsFor("Art", domain.Monday, "09:00", "10:30"),
	} {
		_, err := service.AddSession(ctx, fields)
		require.NoError(t, err)
	}

	all, err := service.ListSessions(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionID{"k3", "k2", "k4", "k1"}, sessionIDs(all))

	monday, err := service.ListSessions(ctx, ListQuery{Day: domain.Monday})
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionID{"k3", "k2", "k4"}, sessionIDs(monday))

	friday, err := service.ListSessions(ctx, ListQuery{Day: domain.Friday})
	require.NoError(t, err)
	assert.Empty(t, friday)
}

func TestServiceGridPlacesSessions(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	service := newTestService(t, repo, testConfig("k"))
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.ClassSession")).Return(nil).Twice()

	ctx := context.Background()
	_, err := service.AddSession(ctx, fieldsFor("Math", domain.Monday, "09:30", "11:00"))
	require.NoError(t, err)
	_, err = service.AddSession(ctx, fieldsFor("Night", domain.Tuesday, "20:00", "21:00"))
	require.NoError(t, err)

	grid, err := service.Grid(ctx)
	require.NoError(t, err)
	require.Len(t, grid.Placements, 1)
	assert.Equal(t, domain.SessionID("k1"), grid.Placements[0].Session.ID)
	assert.Equal(t, 0, grid.Placements[0].DayIndex)
	assert.Equal(t, 1, grid.Placements[0].SlotIndex)
	assert.InDelta(t, 0.5, grid.Placements[0].Offset, 1e-9)
	assert.InDelta(t, 1.5, grid.Placements[0].Height, 1e-9)
	require.Len(t, grid.Unplaced, 1)
	assert.Equal(t, domain.SessionID("k2"), grid.Unplaced[0].ID)
}

func TestServiceFiveDayScheduleRejectsWeekend(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockSessionRepository(t)
	cfg := testConfig("k")
	cfg.Days = domain.WeekdaysFive
	service := newTestService(t, repo, cfg)
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	_, err := service.AddSession(context.Background(), fieldsFor("Math", domain.Saturday, "09:00", "10:00"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.WeekdaysFive, service.Days())
}

func TestServiceLogsMutations(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	repo := mocks.NewMockSessionRepository(t)
	service, err := NewService(repo, testConfig("k"), zap.New(core))
	require.NoError(t, err)

	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.ClassSession")).Return(nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("k1")).Return(nil).Once()

	ctx := context.Background()
	_, err = service.AddSession(ctx, fieldsFor("Math", domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	require.NoError(t, service.DeleteSession(ctx, "k1"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "session added", entries[0].Message)
	assert.Equal(t, "k1", entries[0].ContextMap()["session_id"])
	assert.Equal(t, "session deleted", entries[1].Message)
}

func TestServicePersistsAcrossInstancesWithTOMLRepository(t *testing.T) {
	t.Parallel()

	config := viper.New()
	config.Set(tomlrepo.SessionsPathKey, filepath.Join(t.TempDir(), "sessions.toml"))

	newService := func() *Service {
		repo, err := tomlrepo.NewRepository(config)
		require.NoError(t, err)
		service, err := NewService(repo, testConfig("k"), nil)
		require.NoError(t, err)
		return service
	}

	ctx := context.Background()
	first := newService()
	_, err := first.AddSession(ctx, fieldsFor("Math", domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	_, err = first.AddSession(ctx, fieldsFor("English", domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)

	second := newService()
	sessions, err := second.ListSessions(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionID{"k1", "k2"}, sessionIDs(sessions))

	id, err := second.AddSession(ctx, fieldsFor("Art", domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("k3"), id)

	sessions, err = second.ListSessions(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionID{"k1", "k2", "k3"}, sessionIDs(sessions))
}

func mockAnyContext() interface{} {
	return mock.Anything
}
