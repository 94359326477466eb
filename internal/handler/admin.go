package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/phonics/internal/curriculum"
	appI18n "github.com/pavelanni/phonics/internal/i18n"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/notify"
	"github.com/pavelanni/phonics/internal/report"
	"github.com/pavelanni/phonics/internal/store"
)

const dayLayout = "2006-01-02"

type accountRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Standard    string `json:"standard"`
	ParentPhone string `json:"parent_phone"`
}

// createAccount validates req and inserts the user. It writes the error
// response itself and returns zero on failure. No session is created, so
// the caller's own login is untouched.
func (h *Handler) createAccount(w http.ResponseWriter, req accountRequest, role model.UserRole) int64 {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return 0
	}
	if !curriculum.ValidStandard(req.Standard) {
		jsonError(w, http.StatusBadRequest, "unknown standard "+req.Standard)
		return 0
	}
	if req.ParentPhone != "" {
		if _, err := notify.NormalizePhone(req.ParentPhone); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return 0
		}
	}
	existing, err := h.store.GetUserByUsername(req.Username)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return 0
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "username already taken")
		return 0
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return 0
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	id, err := h.store.CreateUser(model.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		Standard:     req.Standard,
		ParentPhone:  req.ParentPhone,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create user: "+err.Error())
		return 0
	}
	return id
}

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	learners, err := h.store.ListLearners()
	if err != nil {
		slog.Error("failed to list learners", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if std := r.URL.Query().Get("standard"); std != "" {
		kept := learners[:0]
		for _, l := range learners {
			if l.Standard == std {
				kept = append(kept, l)
			}
		}
		learners = kept
	}
	sortLearners(learners, r.URL.Query().Get("sort"))
	if learners == nil {
		learners = []model.Learner{}
	}
	writeJSON(w, http.StatusOK, learners)
}

// sortLearners orders by name (the store default), stars, level or most
// recently joined.
func sortLearners(ls []model.Learner, by string) {
	switch by {
	case "stars":
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Stars > ls[j].Stars })
	case "level":
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].MaxLevel > ls[j].MaxLevel })
	case "recent":
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].CreatedAt.After(ls[j].CreatedAt) })
	}
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	id := h.createAccount(w, req, model.UserRoleStudent)
	if id == 0 {
		return
	}
	l, err := h.store.GetLearner(id)
	if err != nil || l == nil {
		slog.Error("failed to load new learner", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"learner": l,
		"message": appI18n.Td(r.Context(), "StudentCreated", map[string]any{"Name": l.DisplayName}),
	})
}

// student loads the learner named by the id URL parameter or writes an error.
func (h *Handler) student(w http.ResponseWriter, r *http.Request) *model.Learner {
	id, err := idParam(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user ID")
		return nil
	}
	l, err := h.store.GetLearner(id)
	if err != nil {
		slog.Error("failed to load learner", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if l == nil {
		jsonError(w, http.StatusNotFound, "student not found")
		return nil
	}
	return l
}

func (h *Handler) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	stats, err := h.store.AttendanceStats(l.ID)
	if err != nil {
		slog.Error("failed to load attendance", "id", l.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"learner":    l,
		"attendance": stats,
		"pending":    h.recorder.Pending(l.ID),
	})
}

// handleUpdateStudent applies a teacher's correction directly, bypassing the
// background recorder.
func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	var req struct {
		DisplayName *string `json:"display_name"`
		Standard    *string `json:"standard"`
		ParentPhone *string `json:"parent_phone"`
		MaxLevel    *int    `json:"max_level"`
		Stars       *int    `json:"stars"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Standard != nil && !curriculum.ValidStandard(*req.Standard) {
		jsonError(w, http.StatusBadRequest, "unknown standard "+*req.Standard)
		return
	}
	if req.MaxLevel != nil && !curriculum.Level(*req.MaxLevel).Valid() {
		jsonError(w, http.StatusBadRequest, "invalid level")
		return
	}
	if req.Stars != nil && *req.Stars < 0 {
		jsonError(w, http.StatusBadRequest, "stars cannot be negative")
		return
	}
	if req.ParentPhone != nil && *req.ParentPhone != "" {
		if _, err := notify.NormalizePhone(*req.ParentPhone); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	upd := model.LearnerUpdate{
		DisplayName: req.DisplayName,
		Standard:    req.Standard,
		ParentPhone: req.ParentPhone,
		MaxLevel:    req.MaxLevel,
		Stars:       req.Stars,
	}
	if err := h.store.UpdateLearner(l.ID, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "student not found")
			return
		}
		slog.Error("failed to update learner", "id", l.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	l, err := h.store.GetLearner(l.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	if err := h.store.DeleteUser(l.ID); err != nil {
		slog.Error("failed to delete user", "id", l.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.dropLearner(l.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	caller := model.UserFromContext(r.Context())
	if id == caller.ID {
		jsonError(w, http.StatusBadRequest, "cannot deactivate yourself")
		return
	}
	user, err := h.store.GetUserByID(id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// Teachers manage learners only; other accounts need an admin.
	if user == nil || (user.Role != model.UserRoleStudent && caller.Role != model.UserRoleAdmin) {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.store.ToggleUserActive(id); err != nil {
		slog.Error("failed to toggle user active", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user.Active {
		h.dropLearner(id)
	}
	user.Active = !user.Active
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) renderer() (*report.Renderer, error) {
	info, err := h.store.GetClassInfo()
	if err != nil {
		return nil, err
	}
	return report.New(info, append([]report.Option{report.WithClock(h.now)}, h.reportOpts...)...), nil
}

// writePDF renders into memory first so a failure can still become a 500.
func (h *Handler) writePDF(w http.ResponseWriter, filename string, render func(*report.Renderer, *bytes.Buffer) error) {
	rr, err := h.renderer()
	if err != nil {
		slog.Error("failed to load class info", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	var buf bytes.Buffer
	if err := render(rr, &buf); err != nil {
		slog.Error("failed to render pdf", "file", filename, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleStudentReport(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	h.writePDF(w, report.Filename(l.DisplayName, "Report"), func(rr *report.Renderer, buf *bytes.Buffer) error {
		return rr.LearnerReport(buf, l)
	})
}

func (h *Handler) handleCertificate(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	n, err := idParam(r, "level")
	level := curriculum.Level(n)
	if err != nil || !level.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid level")
		return
	}
	if ts, ok := l.TestScoreFor(int(level)); !ok || !ts.Passed {
		jsonError(w, http.StatusConflict, "level not completed yet")
		return
	}
	name := report.Filename(l.DisplayName, fmt.Sprintf("Certificate_Level%d", n))
	h.writePDF(w, name, func(rr *report.Renderer, buf *bytes.Buffer) error {
		return rr.Certificate(buf, l, level)
	})
}

func (h *Handler) handleClassReport(w http.ResponseWriter, r *http.Request) {
	learners, err := h.store.ListLearners()
	if err != nil {
		slog.Error("failed to list learners", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writePDF(w, "All_Students_Report.pdf", func(rr *report.Renderer, buf *bytes.Buffer) error {
		return rr.ClassReport(buf, learners)
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.store.ExportLearners()
	if err != nil {
		slog.Error("failed to export learners", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	export.ExportedAt = h.now().UTC()
	writeJSON(w, http.StatusOK, export)
}

// dayParam validates a YYYY-MM-DD day, defaulting to today.
func (h *Handler) dayParam(s string) (string, error) {
	if s == "" {
		return h.now().Format(dayLayout), nil
	}
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("day must be YYYY-MM-DD: %w", err)
	}
	return s, nil
}

func (h *Handler) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	day, err := h.dayParam(r.URL.Query().Get("day"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.store.AttendanceForDay(day)
	if err != nil {
		slog.Error("failed to load attendance", "day", day, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]model.Attendance, 0, len(records))
	for _, a := range records {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "records": out})
}

// handleSetAttendance marks one learner's status and homework, or with
// all_present marks every active learner present.
func (h *Handler) handleSetAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day        string                 `json:"day"`
		UserID     int64                  `json:"user_id"`
		Status     model.AttendanceStatus `json:"status"`
		Homework   *bool                  `json:"homework"`
		AllPresent bool                   `json:"all_present"`
	}
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	day, err := h.dayParam(req.Day)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.AllPresent {
		learners, err := h.store.ListLearners()
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		marked := 0
		for _, l := range learners {
			if !l.Active {
				continue
			}
			if err := h.store.SetAttendance(l.ID, day, model.AttendancePresent); err != nil {
				slog.Error("failed to mark attendance", "id", l.ID, "day", day, "error", err)
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			marked++
		}
		slog.Info("marked all present", "day", day, "count", marked)
		writeJSON(w, http.StatusOK, map[string]any{"day": day, "marked": marked})
		return
	}

	if req.Status == "" && req.Homework == nil {
		jsonError(w, http.StatusBadRequest, "status or homework required")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "status must be present, absent or late")
		return
	}
	l, err := h.store.GetLearner(req.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if l == nil {
		jsonError(w, http.StatusNotFound, "student not found")
		return
	}
	if req.Status != "" {
		if err := h.store.SetAttendance(l.ID, day, req.Status); err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	if req.Homework != nil {
		if err := h.store.SetHomework(l.ID, day, *req.Homework); err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	records, err := h.store.AttendanceForDay(day)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, records[l.ID])
}

// handleWhatsApp builds the parent update for a day in the request language
// and the click-to-chat link for it.
func (h *Handler) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	l := h.student(w, r)
	if l == nil {
		return
	}
	day, err := h.dayParam(r.URL.Query().Get("day"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.store.AttendanceForDay(day)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	stats, err := h.store.AttendanceStats(l.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	info, err := h.store.GetClassInfo()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	var today *model.Attendance
	if a, ok := records[l.ID]; ok {
		today = &a
	}

	msg := notify.ParentMessage(r.Context(), info, l, today, stats)
	resp := map[string]any{"message": msg}
	link, err := notify.WhatsAppLink(l.ParentPhone, msg)
	if err != nil {
		resp["error"] = err.Error()
	} else {
		resp["link"] = link
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetClass(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.GetClassInfo()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) handleSetClass(w http.ResponseWriter, r *http.Request) {
	var info model.ClassInfo
	if err := readJSON(w, r, &info); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.store.SetClassInfo(info); err != nil {
		slog.Error("failed to save class info", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.handleGetClass(w, r)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(model.UserRole(r.URL.Query().Get("role")))
	if err != nil {
		slog.Error("failed to list users", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	role := model.UserRole(req.Role)
	switch role {
	case model.UserRoleStudent, model.UserRoleTeacher, model.UserRoleAdmin:
	default:
		jsonError(w, http.StatusBadRequest, "role must be student, teacher or admin")
		return
	}
	id := h.createAccount(w, req, role)
	if id == 0 {
		return
	}
	user, err := h.store.GetUserByID(id)
	if err != nil || user == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
