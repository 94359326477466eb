package handler

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/games"
	appI18n "github.com/pavelanni/phonics/internal/i18n"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/progress"
	"github.com/pavelanni/phonics/internal/quiz"
	"github.com/pavelanni/phonics/internal/speech"
)

// Quiz kinds accepted by POST /api/sessions.
const (
	kindQuick = "quick"
	kindFull  = "full"
)

const maxAudioUpload = 10 << 20

type quizEntry struct {
	*quiz.Session
	kind  string
	level curriculum.Level
	lang  curriculum.Language
}

type speedEntry struct {
	*quiz.SpeedRound
	level    curriculum.Level
	recorded sync.Once
}

type boardEntry struct {
	*games.MemoryBoard
	mu       sync.Mutex
	conceal  *time.Timer
	recorded sync.Once
}

func (b *boardEntry) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conceal != nil {
		b.conceal.Stop()
	}
}

// scheduleConceal turns a mismatched pair face down after the delay.
func (b *boardEntry) scheduleConceal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conceal != nil {
		b.conceal.Stop()
	}
	b.conceal = time.AfterFunc(games.ConcealDelay, b.MemoryBoard.Conceal)
}

// activityRequest starts a quiz, speed round or memory board.
type activityRequest struct {
	Kind  string `json:"kind"`
	Level int    `json:"level"`
	Lang  string `json:"lang"`
}

type meResponse struct {
	*model.Learner
	Pending []progress.Failure `json:"pending,omitempty"`
}

// currentLearner loads the signed-in learner or writes an error.
func (h *Handler) currentLearner(w http.ResponseWriter, r *http.Request) *model.Learner {
	user := model.UserFromContext(r.Context())
	l, err := h.store.GetLearner(user.ID)
	if err != nil {
		slog.Error("failed to load learner", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if l == nil {
		jsonError(w, http.StatusNotFound, "learner not found")
		return nil
	}
	return l
}

// parseActivity validates the level and language and checks the level is
// unlocked for the learner.
func (h *Handler) parseActivity(w http.ResponseWriter, r *http.Request) (*model.Learner, activityRequest, curriculum.Level, curriculum.Language, bool) {
	var req activityRequest
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return nil, req, 0, "", false
	}
	level := curriculum.Level(req.Level)
	if !level.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid level")
		return nil, req, 0, "", false
	}
	lang, err := h.parseLanguage(req.Lang)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil, req, 0, "", false
	}
	l := h.currentLearner(w, r)
	if l == nil {
		return nil, req, 0, "", false
	}
	if int(level) > l.MaxLevel {
		jsonError(w, http.StatusForbidden, appI18n.Td(r.Context(), "LevelLocked", map[string]any{
			"Level": int(level), "Max": l.MaxLevel,
		}))
		return nil, req, 0, "", false
	}
	return l, req, level, lang, true
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	l := h.currentLearner(w, r)
	if l == nil {
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Learner: l, Pending: h.recorder.Pending(l.ID)})
}

type levelView struct {
	curriculum.LevelInfo
	Locked bool `json:"locked"`
	Passed bool `json:"passed"`
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	l := h.currentLearner(w, r)
	if l == nil {
		return
	}
	out := make([]levelView, 0, len(curriculum.Levels))
	for _, info := range curriculum.Levels {
		ts, ok := l.TestScoreFor(int(info.ID))
		out = append(out, levelView{LevelInfo: info, Locked: int(info.ID) > l.MaxLevel, Passed: ok && ts.Passed})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	l, req, level, lang, ok := h.parseActivity(w, r)
	if !ok {
		return
	}
	if req.Kind == "" {
		req.Kind = kindQuick
	}

	var (
		count int
		opts  []quiz.SessionOption
	)
	switch req.Kind {
	case kindQuick:
		count = quiz.QuickQuizSize
		if h.config.AutoAdvance > 0 {
			opts = append(opts, quiz.WithAutoAdvance(h.config.AutoAdvance))
		}
	case kindFull:
		count = quiz.FullTestSize
	default:
		jsonError(w, http.StatusBadRequest, "kind must be quick or full")
		return
	}

	qs, err := h.gen.Generate(level, lang, count)
	if err != nil {
		activityError(w, err)
		return
	}
	sess, err := quiz.NewSession(qs, append(opts, quiz.WithClock(h.now))...)
	if err != nil {
		activityError(w, err)
		return
	}
	h.quizzes.put(sess.ID(), l.ID, &quizEntry{Session: sess, kind: req.Kind, level: level, lang: lang})
	slog.Info("quiz started", "learner_id", l.ID, "kind", req.Kind, "level", int(level), "lang", lang, "session", sess.ID())
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// liveQuiz finds the caller's quiz or writes 404.
func (h *Handler) liveQuiz(w http.ResponseWriter, r *http.Request) *quizEntry {
	user := model.UserFromContext(r.Context())
	e, ok := h.quizzes.get(chi.URLParam(r, "id"), user.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return e
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if e := h.liveQuiz(w, r); e != nil {
		writeJSON(w, http.StatusOK, e.Snapshot())
	}
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	e := h.liveQuiz(w, r)
	if e == nil {
		return
	}
	var req struct {
		Option string `json:"option"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := e.SelectAnswer(req.Option); err != nil {
		activityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*quiz.Session).Advance)
}

func (h *Handler) handleRetreat(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*quiz.Session).Retreat)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, move func(*quiz.Session) error) {
	e := h.liveQuiz(w, r)
	if e == nil {
		return
	}
	if err := move(e.Session); err != nil {
		activityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	e := h.liveQuiz(w, r)
	if e == nil {
		return
	}
	var req struct {
		Index *int `json:"index"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Index == nil {
		jsonError(w, http.StatusBadRequest, "index is required")
		return
	}
	if err := e.JumpTo(*req.Index); err != nil {
		activityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

type submitResponse struct {
	quiz.Result
	progress.Outcome
	Message string `json:"message"`
}

// handleSubmit scores the quiz, answers with the outcome computed against the
// learner as loaded now, and queues the progress change for saving.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	e := h.liveQuiz(w, r)
	if e == nil {
		return
	}
	res, err := e.Submit()
	if err != nil {
		activityError(w, err)
		return
	}
	user := model.UserFromContext(r.Context())
	policy := progress.Policy{PassPercent: h.config.QuickPassPercent}
	if e.kind == kindFull {
		policy.PassPercent = h.config.FullPassPercent
	}
	apply := func(l *model.Learner) progress.Outcome {
		if e.kind == kindFull {
			return progress.ApplyFullTest(l, e.level, res, policy)
		}
		return progress.ApplyQuickQuiz(l, e.level, res, policy)
	}

	// The session is gone once submitted, so the result goes back to the
	// learner even when the snapshot read fails.
	out := progress.Outcome{Passed: policy.Passed(res), Percent: res.Percent()}
	if l, err := h.store.GetLearner(user.ID); err != nil {
		slog.Warn("learner snapshot unavailable", "user_id", user.ID, "error", err)
	} else if l != nil {
		out = apply(l)
	}
	if err := h.recorder.Record(user.ID, e.kind+"-quiz", func(cur *model.Learner) model.LearnerUpdate {
		return apply(cur).Update
	}); err != nil {
		slog.Warn("progress not queued", "learner_id", user.ID, "error", err)
	}

	msg := appI18n.T(r.Context(), "QuizFailed")
	if out.Passed {
		msg = appI18n.T(r.Context(), "QuizPassed")
	}
	if out.Unlocked > 0 {
		msg += " " + appI18n.Td(r.Context(), "LevelUnlocked", map[string]any{"Level": out.Unlocked})
	}
	slog.Info("quiz submitted", "learner_id", user.ID, "kind", e.kind, "level", int(e.level),
		"correct", res.Correct, "total", res.Total, "passed", out.Passed)
	writeJSON(w, http.StatusOK, submitResponse{Result: res, Outcome: out, Message: msg})
}

func (h *Handler) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	if !h.quizzes.remove(chi.URLParam(r, "id"), user.ID) {
		jsonError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStartSpeed(w http.ResponseWriter, r *http.Request) {
	l, _, level, lang, ok := h.parseActivity(w, r)
	if !ok {
		return
	}
	qs, err := h.gen.SpeedQuestions(level, lang)
	if err != nil {
		activityError(w, err)
		return
	}
	round, err := quiz.NewSpeedRound(qs, quiz.WithSpeedClock(h.now))
	if err != nil {
		activityError(w, err)
		return
	}
	h.speeds.put(round.ID(), l.ID, &speedEntry{SpeedRound: round, level: level})
	writeJSON(w, http.StatusCreated, round.Status())
}

func (h *Handler) liveSpeed(w http.ResponseWriter, r *http.Request) *speedEntry {
	user := model.UserFromContext(r.Context())
	e, ok := h.speeds.get(chi.URLParam(r, "id"), user.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "speed round not found")
		return nil
	}
	return e
}

// recordSpeed saves a finished round's score once. Rounds can finish on a
// timeout, so both status reads and answers call this.
func (h *Handler) recordSpeed(learnerID int64, e *speedEntry, st quiz.SpeedStatus) {
	if !st.Done {
		return
	}
	e.recorded.Do(func() {
		h.recordGame(learnerID, games.SpeedQuiz, st.Score)
	})
}

func (h *Handler) recordGame(learnerID int64, game string, score int) {
	at := h.now()
	err := h.recorder.Record(learnerID, game, func(l *model.Learner) model.LearnerUpdate {
		upd, _ := progress.ApplyGameScore(l, game, score, at)
		return upd
	})
	if err != nil {
		slog.Warn("game score not queued", "learner_id", learnerID, "game", game, "error", err)
	}
}

func (h *Handler) handleSpeedStatus(w http.ResponseWriter, r *http.Request) {
	e := h.liveSpeed(w, r)
	if e == nil {
		return
	}
	st := e.Status()
	h.recordSpeed(model.UserFromContext(r.Context()).ID, e, st)
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleSpeedAnswer(w http.ResponseWriter, r *http.Request) {
	e := h.liveSpeed(w, r)
	if e == nil {
		return
	}
	var req struct {
		Option string `json:"option"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ans, err := e.Answer(req.Option)
	if err != nil {
		activityError(w, err)
		return
	}
	st := e.Status()
	h.recordSpeed(model.UserFromContext(r.Context()).ID, e, st)
	writeJSON(w, http.StatusOK, map[string]any{"answer": ans, "status": st})
}

func (h *Handler) handleStartMemory(w http.ResponseWriter, r *http.Request) {
	l, _, level, lang, ok := h.parseActivity(w, r)
	if !ok {
		return
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	board, err := games.NewMemoryBoard(level, lang, rng, games.WithMemoryClock(h.now))
	if err != nil {
		activityError(w, err)
		return
	}
	h.boards.put(board.ID(), l.ID, &boardEntry{MemoryBoard: board})
	writeJSON(w, http.StatusCreated, board.State())
}

func (h *Handler) liveBoard(w http.ResponseWriter, r *http.Request) *boardEntry {
	user := model.UserFromContext(r.Context())
	e, ok := h.boards.get(chi.URLParam(r, "id"), user.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "board not found")
		return nil
	}
	return e
}

func (h *Handler) handleMemoryState(w http.ResponseWriter, r *http.Request) {
	if e := h.liveBoard(w, r); e != nil {
		writeJSON(w, http.StatusOK, e.State())
	}
}

func (h *Handler) handleMemoryFlip(w http.ResponseWriter, r *http.Request) {
	e := h.liveBoard(w, r)
	if e == nil {
		return
	}
	var req struct {
		Card string `json:"card"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	out, err := e.Flip(req.Card)
	if err != nil {
		activityError(w, err)
		return
	}
	if out.Pair && !out.Match {
		e.scheduleConceal()
	}
	if out.Finished {
		learnerID := model.UserFromContext(r.Context()).ID
		score := e.Score()
		e.recorded.Do(func() { h.recordGame(learnerID, games.MemoryMatch, score) })
	}
	writeJSON(w, http.StatusOK, map[string]any{"flip": out, "state": e.State()})
}

func (h *Handler) handleAddStars(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 || req.Count > 10 {
		jsonError(w, http.StatusBadRequest, "count must be between 1 and 10")
		return
	}
	user := model.UserFromContext(r.Context())
	if err := h.recorder.Record(user.ID, "stars", func(*model.Learner) model.LearnerUpdate {
		return model.LearnerUpdate{AddStars: req.Count}
	}); err != nil {
		slog.Warn("stars not queued", "learner_id", user.ID, "error", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleScreenTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Minutes <= 0 || req.Minutes > 24*60 {
		jsonError(w, http.StatusBadRequest, "minutes must be between 1 and 1440")
		return
	}
	user := model.UserFromContext(r.Context())
	if err := h.recorder.Record(user.ID, "screen-time", func(l *model.Learner) model.LearnerUpdate {
		total := l.ScreenTimeMinutes + req.Minutes
		return model.LearnerUpdate{ScreenTimeMinutes: &total}
	}); err != nil {
		slog.Warn("screen time not queued", "learner_id", user.ID, "error", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleLessonComplete(w http.ResponseWriter, r *http.Request) {
	lvl, err := idParam(r, "level")
	level := curriculum.Level(lvl)
	if err != nil || !level.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid level")
		return
	}
	l := h.currentLearner(w, r)
	if l == nil {
		return
	}
	if int(level) > l.MaxLevel {
		jsonError(w, http.StatusForbidden, appI18n.Td(r.Context(), "LevelLocked", map[string]any{
			"Level": int(level), "Max": l.MaxLevel,
		}))
		return
	}
	n := int(level)
	if err := h.recorder.Record(l.ID, "lesson", func(*model.Learner) model.LearnerUpdate {
		return model.LearnerUpdate{LessonCompleted: &n}
	}); err != nil {
		slog.Warn("lesson not queued", "learner_id", l.ID, "error", err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if h.speaker == nil {
		jsonError(w, http.StatusServiceUnavailable, "speech is not configured")
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}
	h.writeSpeech(w, r, r.URL.Query().Get("text"), lang, "private, max-age=86400")
}

// writeSpeech answers with the synthesized audio for text.
func (h *Handler) writeSpeech(w http.ResponseWriter, r *http.Request, text, lang, cacheControl string) {
	audio, err := h.speaker.Speak(r.Context(), text, lang)
	switch {
	case errors.Is(err, speech.ErrEmptyText), errors.Is(err, speech.ErrTextTooLong):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("speech failed", "error", err)
		jsonError(w, http.StatusBadGateway, "speech failed")
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", cacheControl)
	_, _ = w.Write(audio)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		jsonError(w, http.StatusServiceUnavailable, "transcription is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "audio too large or malformed")
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "no audio uploaded")
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(r.Context(), file, "en")
	if err != nil {
		slog.Error("transcription failed", "error", err)
		jsonError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	target := r.FormValue("target")
	writeJSON(w, http.StatusOK, map[string]any{
		"text":  text,
		"heard": target != "" && speech.Heard(text, target),
	})
}
