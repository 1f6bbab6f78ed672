package httpapi

import (
	"errors"
	"net/http"

	"github.com/bnema/class-schedule-cli/internal/adapters/render/grid"
	"github.com/bnema/class-schedule-cli/internal/application"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sessionRequest struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
	Day     string `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Color   string `json:"color"`
}

type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// fields converts the wire shape. Every unparsable field is reported at once.
func (r sessionRequest) fields() (domain.SessionFields, error) {
	var (
		fields = domain.SessionFields{Subject: r.Subject, Teacher: r.Teacher, Room: r.Room}
		errs   []error
		err    error
	)

	if fields.Day, err = domain.ParseWeekday(r.Day); err != nil {
		errs = append(errs, &domain.ValidationError{Field: "day", Reason: err.Error()})
	}
	if fields.Start, err = domain.ParseTimeOfDay(r.Start); err != nil {
		errs = append(errs, &domain.ValidationError{Field: "start", Reason: err.Error()})
	}
	if fields.End, err = domain.ParseTimeOfDay(r.End); err != nil {
		errs = append(errs, &domain.ValidationError{Field: "end", Reason: err.Error()})
	}
	if fields.Color, err = grid.ParseColor(r.Color); err != nil {
		errs = append(errs, &domain.ValidationError{Field: "color", Reason: err.Error()})
	}

	return fields, errors.Join(errs...)
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAddSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fields, err := req.fields()
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.service.AddSession(c.Request.Context(), fields)
	if err != nil {
		s.writeError(c, err)
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleUpdateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id := domain.SessionID(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.service.GetSession(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.service.UpdateSession(c.Request.Context(), id, fields); err != nil {
		s.writeError(c, err)
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.service.DeleteSession(c.Request.Context(), domain.SessionID(c.Param("id"))); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetSession(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.service.GetSession(c.Request.Context(), domain.SessionID(c.Param("id")))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleListSessions(c *gin.Context) {
	var query application.ListQuery
	if raw := c.Query("day"); raw != "" {
		day, err := domain.ParseWeekday(raw)
		if err != nil {
			s.writeError(c, &domain.ValidationError{Field: "day", Reason: err.Error()})
			return
		}
		query.Day = day
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.service.ListSessions(c.Request.Context(), query)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleGrid(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projected, err := s.service.Grid(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, projected)
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		invalid := domain.ValidationErrors(err)
		fields := make([]fieldError, 0, len(invalid))
		for _, verr := range invalid {
			fields = append(fields, fieldError{Field: verr.Field, Reason: verr.Reason})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
