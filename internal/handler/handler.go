package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/games"
	"github.com/pavelanni/phonics/internal/i18n"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/progress"
	"github.com/pavelanni/phonics/internal/quiz"
	"github.com/pavelanni/phonics/internal/report"
	"github.com/pavelanni/phonics/internal/speech"
	"github.com/pavelanni/phonics/internal/store"
)

const maxJSONBody = 1 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store       *store.Store
	recorder    *progress.Recorder
	gen         *quiz.Generator
	speaker     speech.Speaker
	transcriber speech.Transcriber
	config      model.AppConfig
	now         func() time.Time
	reportOpts  []report.Option

	quizzes   *registry[*quizEntry]
	speeds    *registry[*speedEntry]
	boards    *registry[*boardEntry]
	spellings *registry[*spellingEntry]
	builders  *registry[*builderEntry]
}

// Option configures a Handler.
type Option func(*Handler)

// WithSpeech enables the speech and transcription endpoints.
func WithSpeech(s speech.Speaker, t speech.Transcriber) Option {
	return func(h *Handler) { h.speaker, h.transcriber = s, t }
}

// WithGenerator replaces the question generator.
func WithGenerator(g *quiz.Generator) Option {
	return func(h *Handler) { h.gen = g }
}

// WithReportOptions passes options to every PDF renderer.
func WithReportOptions(opts ...report.Option) Option {
	return func(h *Handler) { h.reportOpts = append(h.reportOpts, opts...) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New creates a new Handler.
func New(s *store.Store, rec *progress.Recorder, cfg model.AppConfig, opts ...Option) (*Handler, error) {
	if s == nil || rec == nil {
		return nil, errors.New("handler: store and recorder are required")
	}
	if cfg.QuickPassPercent <= 0 {
		cfg.QuickPassPercent = progress.QuickQuizPolicy.PassPercent
	}
	if cfg.FullPassPercent <= 0 {
		cfg.FullPassPercent = progress.FullTestPolicy.PassPercent
	}
	if _, err := curriculum.ParseLanguage(cfg.DefaultLanguage); err != nil {
		cfg.DefaultLanguage = string(curriculum.Gujarati)
	}
	h := &Handler{
		store:    s,
		recorder: rec,
		config:   cfg,
		now:      time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	if h.gen == nil {
		h.gen = quiz.NewGenerator(quiz.WithPhrasebook(i18n.Phrasebook{}))
	}
	h.quizzes = newRegistry[*quizEntry](liveTTL, h.now)
	h.speeds = newRegistry[*speedEntry](liveTTL, h.now)
	h.boards = newRegistry[*boardEntry](liveTTL, h.now)
	h.spellings = newRegistry[*spellingEntry](liveTTL, h.now)
	h.builders = newRegistry[*builderEntry](liveTTL, h.now)
	return h, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.csrfMiddleware)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/", h.handleIndex)

		r.Route("/api", func(r chi.Router) {
			r.Use(requireRole(model.UserRoleStudent))
			r.Get("/me", h.handleMe)
			r.Get("/levels", h.handleLevels)

			r.Post("/sessions", h.handleStartSession)
			r.Get("/sessions/{id}", h.handleGetSession)
			r.Post("/sessions/{id}/answer", h.handleAnswer)
			r.Post("/sessions/{id}/advance", h.handleAdvance)
			r.Post("/sessions/{id}/retreat", h.handleRetreat)
			r.Post("/sessions/{id}/jump", h.handleJump)
			r.Post("/sessions/{id}/submit", h.handleSubmit)
			r.Delete("/sessions/{id}", h.handleAbandonSession)

			r.Post("/speed", h.handleStartSpeed)
			r.Get("/speed/{id}", h.handleSpeedStatus)
			r.Post("/speed/{id}/answer", h.handleSpeedAnswer)

			r.Post("/memory", h.handleStartMemory)
			r.Get("/memory/{id}", h.handleMemoryState)
			r.Post("/memory/{id}/flip", h.handleMemoryFlip)

			r.Post("/spelling", h.handleStartSpelling)
			r.Get("/spelling/{id}", h.handleSpellingState)
			r.Get("/spelling/{id}/audio", h.handleSpellingAudio)
			r.Post("/spelling/{id}/answer", h.handleSpellingAnswer)

			r.Post("/builder", h.handleStartBuilder)
			r.Get("/builder/{id}", h.handleBuilderState)
			r.Get("/builder/{id}/audio", h.handleBuilderAudio)
			r.Post("/builder/{id}/pick", h.handleBuilderMove((*games.BuilderGame).Pick))
			r.Post("/builder/{id}/remove", h.handleBuilderMove((*games.BuilderGame).Remove))
			r.Post("/builder/{id}/clear", h.handleBuilderMove(func(g *games.BuilderGame, _ string) error { return g.Clear() }))
			r.Post("/builder/{id}/check", h.handleBuilderCheck)

			r.Post("/stars", h.handleAddStars)
			r.Post("/screen-time", h.handleScreenTime)
			r.Post("/lessons/{level}/complete", h.handleLessonComplete)

			r.Get("/speech", h.handleSpeech)
			r.Post("/transcribe", h.handleTranscribe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(model.UserRoleTeacher, model.UserRoleAdmin))
			r.Get("/students", h.handleListStudents)
			r.Post("/students", h.handleCreateStudent)
			r.Get("/students/{id}", h.handleGetStudent)
			r.Post("/students/{id}", h.handleUpdateStudent)
			r.Delete("/students/{id}", h.handleDeleteStudent)
			r.Post("/students/{id}/toggle", h.handleToggleUserActive)
			r.Get("/students/{id}/report.pdf", h.handleStudentReport)
			r.Get("/students/{id}/certificate/{level}.pdf", h.handleCertificate)
			r.Get("/students/{id}/whatsapp", h.handleWhatsApp)
			r.Get("/report.pdf", h.handleClassReport)
			r.Get("/export", h.handleExport)

			r.Get("/attendance", h.handleGetAttendance)
			r.Post("/attendance", h.handleSetAttendance)

			r.Get("/class", h.handleGetClass)
			r.Post("/class", h.handleSetClass)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.UserRoleAdmin))
				r.Get("/users", h.handleListUsers)
				r.Post("/users", h.handleCreateUser)
				r.Post("/users/{id}/toggle", h.handleToggleUserActive)
			})
		})
	})
}

// BasePathMiddleware makes the configured base path available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown closes every live quiz, round, board and word game.
func (h *Handler) Shutdown() {
	h.quizzes.closeAll()
	h.speeds.closeAll()
	h.boards.closeAll()
	h.spellings.closeAll()
	h.builders.closeAll()
}

// dropLearner closes everything a learner has open.
func (h *Handler) dropLearner(id int64) {
	h.quizzes.dropOwner(id)
	h.speeds.dropOwner(id)
	h.boards.dropOwner(id)
	h.spellings.dropOwner(id)
	h.builders.dropOwner(id)
}

func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}

func (h *Handler) cookiePath() string {
	if h.config.BasePath != "" {
		return h.config.BasePath + "/"
	}
	return "/"
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	maxLevel := 0
	if user.Role == model.UserRoleStudent {
		l, err := h.store.GetLearner(user.ID)
		if err != nil {
			slog.Error("failed to load learner", "user_id", user.ID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if l != nil {
			maxLevel = l.MaxLevel
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(user, maxLevel).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON body. An empty body leaves v untouched.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// parseLanguage falls back to the configured default for an empty value.
func (h *Handler) parseLanguage(s string) (curriculum.Language, error) {
	if strings.TrimSpace(s) == "" {
		s = h.config.DefaultLanguage
	}
	return curriculum.ParseLanguage(s)
}

// activityError maps quiz and game errors to HTTP statuses.
func activityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrUnknownOption),
		errors.Is(err, quiz.ErrIndexOutOfRange),
		errors.Is(err, games.ErrCardUnavailable),
		errors.Is(err, games.ErrTileUnavailable),
		errors.Is(err, games.ErrEmptyAnswer),
		errors.Is(err, games.ErrInvalidLevel):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrCompleted),
		errors.Is(err, quiz.ErrIncomplete),
		errors.Is(err, quiz.ErrRoundFinished),
		errors.Is(err, games.ErrBoardBusy),
		errors.Is(err, games.ErrBoardFinished),
		errors.Is(err, games.ErrGameFinished):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("activity failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
