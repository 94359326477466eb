package handler

import (
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/phonics/internal/games"
	"github.com/pavelanni/phonics/internal/model"
)

type spellingEntry struct {
	*games.SpellingGame
	recorded sync.Once
}

func (*spellingEntry) Close() {}

type builderEntry struct {
	*games.BuilderGame
	recorded sync.Once
}

func (*builderEntry) Close() {}

// wordSource is a game that dictates its current word.
type wordSource interface {
	Word() (string, error)
}

// writeWordAudio speaks the word a game is asking for. The id in the URL
// stays the same while the word changes, so the audio is never cached.
func (h *Handler) writeWordAudio(w http.ResponseWriter, r *http.Request, g wordSource) {
	if h.speaker == nil {
		jsonError(w, http.StatusServiceUnavailable, "speech is not configured")
		return
	}
	word, err := g.Word()
	if err != nil {
		activityError(w, err)
		return
	}
	h.writeSpeech(w, r, word, "en", "no-store")
}

func (h *Handler) handleStartSpelling(w http.ResponseWriter, r *http.Request) {
	l, _, level, _, ok := h.parseActivity(w, r)
	if !ok {
		return
	}
	g, err := games.NewSpellingGame(level, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		activityError(w, err)
		return
	}
	h.spellings.put(g.ID(), l.ID, &spellingEntry{SpellingGame: g})
	writeJSON(w, http.StatusCreated, g.State())
}

func (h *Handler) liveSpelling(w http.ResponseWriter, r *http.Request) *spellingEntry {
	user := model.UserFromContext(r.Context())
	e, ok := h.spellings.get(chi.URLParam(r, "id"), user.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "spelling game not found")
		return nil
	}
	return e
}

func (h *Handler) handleSpellingState(w http.ResponseWriter, r *http.Request) {
	if e := h.liveSpelling(w, r); e != nil {
		writeJSON(w, http.StatusOK, e.State())
	}
}

func (h *Handler) handleSpellingAudio(w http.ResponseWriter, r *http.Request) {
	if e := h.liveSpelling(w, r); e != nil {
		h.writeWordAudio(w, r, e)
	}
}

func (h *Handler) handleSpellingAnswer(w http.ResponseWriter, r *http.Request) {
	e := h.liveSpelling(w, r)
	if e == nil {
		return
	}
	var req struct {
		Answer string `json:"answer"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	a, err := e.Answer(req.Answer)
	if err != nil {
		activityError(w, err)
		return
	}
	st := e.State()
	if st.Finished {
		learnerID := model.UserFromContext(r.Context()).ID
		e.recorded.Do(func() { h.recordGame(learnerID, games.SpellingBee, st.Score) })
	}
	writeJSON(w, http.StatusOK, map[string]any{"attempt": a, "state": st})
}

func (h *Handler) handleStartBuilder(w http.ResponseWriter, r *http.Request) {
	l, _, _, _, ok := h.parseActivity(w, r)
	if !ok {
		return
	}
	g := games.NewBuilderGame(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	h.builders.put(g.ID(), l.ID, &builderEntry{BuilderGame: g})
	writeJSON(w, http.StatusCreated, g.State())
}

func (h *Handler) liveBuilder(w http.ResponseWriter, r *http.Request) *builderEntry {
	user := model.UserFromContext(r.Context())
	e, ok := h.builders.get(chi.URLParam(r, "id"), user.ID)
	if !ok {
		jsonError(w, http.StatusNotFound, "word builder game not found")
		return nil
	}
	return e
}

func (h *Handler) handleBuilderState(w http.ResponseWriter, r *http.Request) {
	if e := h.liveBuilder(w, r); e != nil {
		writeJSON(w, http.StatusOK, e.State())
	}
}

func (h *Handler) handleBuilderAudio(w http.ResponseWriter, r *http.Request) {
	if e := h.liveBuilder(w, r); e != nil {
		h.writeWordAudio(w, r, e)
	}
}

// handleBuilderMove serves pick, remove and clear, which all answer with the
// new state.
func (h *Handler) handleBuilderMove(move func(g *games.BuilderGame, tile string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := h.liveBuilder(w, r)
		if e == nil {
			return
		}
		var req struct {
			Tile string `json:"tile"`
		}
		if err := readJSON(w, r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if err := move(e.BuilderGame, req.Tile); err != nil {
			activityError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e.State())
	}
}

func (h *Handler) handleBuilderCheck(w http.ResponseWriter, r *http.Request) {
	e := h.liveBuilder(w, r)
	if e == nil {
		return
	}
	a, err := e.Check()
	if err != nil {
		activityError(w, err)
		return
	}
	st := e.State()
	if st.Finished {
		learnerID := model.UserFromContext(r.Context()).ID
		e.recorded.Do(func() { h.recordGame(learnerID, games.WordBuilder, st.Score) })
	}
	writeJSON(w, http.StatusOK, map[string]any{"attempt": a, "state": st})
}
