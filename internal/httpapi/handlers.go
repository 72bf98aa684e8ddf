package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/validator"
)

func (s *Server) getSession(c *gin.Context) {
	success(c, http.StatusOK, newSessionView(s.session.Snapshot()))
}

func (s *Server) getMistakes(c *gin.Context) {
	success(c, http.StatusOK, newMistakeViews(s.session.MistakeList()))
}

// command returns a handler for a body-less command. The reply is the
// snapshot after the command.
func (s *Server) command(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := apply(s.session, name, nil, nil); err != nil {
			s.log.Error().Err(err).Str("cmd", name).Msg("command failed")
			fail(c, http.StatusInternalServerError, ErrInternal)
			return
		}
		success(c, http.StatusOK, newSessionView(s.session.Snapshot()))
	}
}

func (s *Server) postAnswer(c *gin.Context) {
	var req AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return
	}
	if err := apply(s.session, CmdAnswer, &req, nil); err != nil {
		fail(c, http.StatusBadRequest, ErrInvalidPayload)
		return
	}
	success(c, http.StatusOK, newSessionView(s.session.Snapshot()))
}

func (s *Server) postGoTo(c *gin.Context) {
	var req GoToRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, fields)
		return
	}
	if err := apply(s.session, CmdGoTo, nil, &req); err != nil {
		fail(c, http.StatusBadRequest, ErrInvalidPayload)
		return
	}
	success(c, http.StatusOK, newSessionView(s.session.Snapshot()))
}

// listRunsQuery bounds GET /api/runs.
type listRunsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (s *Server) listRuns(c *gin.Context) {
	q := listRunsQuery{Limit: 50}
	if err := c.ShouldBindQuery(&q); err != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, validator.TranslateErrors(err))
		return
	}

	runs, err := s.runs.ListRuns(c.Request.Context(), store.QueryOpts{Limit: q.Limit})
	if err != nil {
		s.log.Error().Err(err).Msg("list runs")
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	out := make([]RunView, 0, len(runs))
	for _, r := range runs {
		out = append(out, newRunView(r))
	}
	success(c, http.StatusOK, out)
}

func (s *Server) getRun(c *gin.Context) {
	run, err := s.runs.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, ErrNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("run_id", c.Param("id")).Msg("get run")
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	success(c, http.StatusOK, newRunView(*run))
}

func (s *Server) runStats(c *gin.Context) {
	st, err := s.runs.Stats(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("run stats")
		fail(c, http.StatusInternalServerError, ErrInternal)
		return
	}
	success(c, http.StatusOK, gin.H{
		"runs":       st.Runs,
		"questions":  st.Questions,
		"correct":    st.Correct,
		"mistakes":   st.Mistakes,
		"unanswered": st.Unanswered,
		"accuracy":   st.Accuracy(),
		"best_score": st.BestScore,
		"best_total": st.BestTotal,
	})
}
