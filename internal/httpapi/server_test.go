package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/clock"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
)

func testItems() []quiz.Item {
	return []quiz.Item{
		{Question: "Q1?", Options: []string{"a", "b", "c"}, Answer: "a", Explanation: "a it is."},
		{Question: "Q2?", Options: []string{"d", "e", "f"}, Answer: "e", Explanation: "e it is."},
	}
}

type fixture struct {
	srv   *Server
	sess  *session.Store
	clock *clock.Fake
	runs  store.RunRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := clock.NewFake(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	sess := session.New(testItems(), session.DefaultConfig(), session.WithClock(fc), session.WithSeed(1))
	t.Cleanup(sess.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := New(Options{Session: sess, Runs: st.RunRepo(), GinMode: "test", Logger: zerolog.Nop()})
	return &fixture{srv: srv, sess: sess, clock: fc, runs: st.RunRepo()}
}

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Error    *ErrorBody      `json:"error"`
	Metadata Metadata        `json:"metadata"`
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func sessionOf(t *testing.T, env envelope) SessionView {
	t.Helper()
	var v SessionView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w, env := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, env.Metadata.RequestID)
	assert.Equal(t, env.Metadata.RequestID, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestSessionFlow(t *testing.T) {
	f := newFixture(t)

	_, env := f.do(t, http.MethodGet, "/api/session", nil)
	v := sessionOf(t, env)
	assert.Equal(t, session.PhaseNotStarted, v.Phase)
	assert.Equal(t, 2, v.Total)
	assert.Nil(t, v.Question)

	_, env = f.do(t, http.MethodPost, "/api/session/start", nil)
	v = sessionOf(t, env)
	require.Equal(t, session.PhaseInProgress, v.Phase)
	require.NotNil(t, v.Question)
	assert.Equal(t, "Q1?", v.Question.Question)
	assert.Empty(t, v.Question.Answer, "answer must stay hidden until answered")
	assert.Equal(t, 20, v.TimeLeft)

	_, env = f.do(t, http.MethodPost, "/api/session/answer", body{"option": "b"})
	v = sessionOf(t, env)
	assert.Equal(t, session.PhaseExplaining, v.Phase)
	assert.Equal(t, "a", v.Question.Answer)
	assert.Equal(t, "a it is.", v.Question.Explanation)
	assert.Equal(t, 1, v.Mistakes)

	// A second answer is ignored.
	_, env = f.do(t, http.MethodPost, "/api/session/answer", body{"option": "a"})
	v = sessionOf(t, env)
	assert.Equal(t, 0, v.Score)
	assert.Equal(t, 1, v.Mistakes)

	_, env = f.do(t, http.MethodPost, "/api/session/next", nil)
	v = sessionOf(t, env)
	assert.Equal(t, 1, v.Index)
	assert.False(t, v.CanNext)

	_, env = f.do(t, http.MethodPost, "/api/session/answer", body{"index": 1})
	v = sessionOf(t, env)
	assert.Equal(t, 1, v.Score)
	assert.Equal(t, []session.QuestionStatus{session.StatusWrong, session.StatusCorrect}, v.Statuses)

	_, env = f.do(t, http.MethodPost, "/api/session/finish", nil)
	assert.Equal(t, session.PhaseFinished, sessionOf(t, env).Phase)

	_, env = f.do(t, http.MethodGet, "/api/session/mistakes", nil)
	var ms []MistakeView
	require.NoError(t, json.Unmarshal(env.Data, &ms))
	require.Len(t, ms, 1)
	assert.Equal(t, "b", ms[0].Selected)
	assert.Equal(t, "a", ms[0].Answer)

	_, env = f.do(t, http.MethodPost, "/api/session/review/enter", nil)
	assert.Equal(t, session.PhaseReviewing, sessionOf(t, env).Phase)
	_, env = f.do(t, http.MethodPost, "/api/session/review/exit", nil)
	assert.Equal(t, session.PhaseFinished, sessionOf(t, env).Phase)

	_, env = f.do(t, http.MethodPost, "/api/session/restart", nil)
	v = sessionOf(t, env)
	assert.Equal(t, session.PhaseNotStarted, v.Phase)
	assert.Equal(t, 0, v.Answered)
}

func TestGoTo(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/session/start", nil)

	_, env := f.do(t, http.MethodPost, "/api/session/goto", body{"index": 1})
	assert.Equal(t, 1, sessionOf(t, env).Index)

	// Past the end finishes.
	_, env = f.do(t, http.MethodPost, "/api/session/goto", body{"index": 9})
	assert.Equal(t, session.PhaseFinished, sessionOf(t, env).Phase)
}

func TestValidationErrors(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/session/start", nil)

	w, env := f.do(t, http.MethodPost, "/api/session/goto", body{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "index")

	w, env = f.do(t, http.MethodPost, "/api/session/goto", body{"index": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields, "index")

	w, env = f.do(t, http.MethodPost, "/api/session/answer", body{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields, "option")

	assert.Equal(t, session.PhaseInProgress, f.sess.Phase(), "rejected requests must not change state")
}

func TestRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	finished := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.runs.SaveRun(ctx, store.RunRecord{
		RunID: "r1", StartedAt: finished.Add(-time.Minute), FinishedAt: finished,
		Total: 2, Score: 1, Mistakes: 1, Duration: time.Minute, Source: "embedded",
		Answers: []store.AnswerRow{
			{Position: 0, Question: "Q1?", Options: []string{"a", "b"}, Answer: "a", Selected: "b", MistakeOrder: 1},
			{Position: 1, Question: "Q2?", Options: []string{"d", "e"}, Answer: "e", Selected: "e", Correct: true},
		},
	}))

	_, env := f.do(t, http.MethodGet, "/api/runs", nil)
	var list []RunView
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].RunID)
	assert.Empty(t, list[0].Answers)

	_, env = f.do(t, http.MethodGet, "/api/runs/r1", nil)
	var run RunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Len(t, run.Answers, 2)
	assert.Equal(t, int64(60000), run.DurationMs)

	w, env := f.do(t, http.MethodGet, "/api/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrNotFound, env.Error.Code)

	w, _ = f.do(t, http.MethodGet, "/api/runs?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = f.do(t, http.MethodGet, "/api/runs/stats", nil)
	assert.Contains(t, string(env.Data), `"runs":1`)
}

func TestStream(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() StreamEvent {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev StreamEvent
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}

	ev := read()
	require.Equal(t, EventSnapshot, ev.Event)
	assert.Equal(t, session.PhaseNotStarted, ev.Data.Phase)

	require.NoError(t, conn.WriteJSON(StreamRequest{Action: CmdStart}))
	ev = read()
	require.Equal(t, EventSnapshot, ev.Event)
	assert.Equal(t, session.PhaseInProgress, ev.Data.Phase)

	require.NoError(t, conn.WriteJSON(StreamRequest{Action: "ping"}))
	assert.Equal(t, EventPong, read().Event)

	require.NoError(t, conn.WriteJSON(StreamRequest{Action: "jump"}))
	ev = read()
	assert.Equal(t, EventError, ev.Event)
	assert.Contains(t, ev.Error, "unknown command")

	// Changes made elsewhere reach the stream too.
	f.sess.Finish()
	ev = read()
	assert.Equal(t, EventSnapshot, ev.Event)
	assert.Equal(t, session.PhaseFinished, ev.Data.Phase)
}

type body = map[string]any
