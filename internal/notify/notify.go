// Package notify builds parent updates and WhatsApp click-to-chat links.
package notify

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/pavelanni/phonics/internal/i18n"
	"github.com/pavelanni/phonics/internal/model"
)

// DefaultCountryCode is prefixed to bare 10-digit mobile numbers.
const DefaultCountryCode = "91"

var (
	ErrNoPhone      = errors.New("notify: no parent phone number")
	ErrInvalidPhone = errors.New("notify: invalid phone number")
)

// ParentMessage renders the daily update for a learner's parent in the
// language carried by ctx. today is nil when nothing was recorded.
func ParentMessage(ctx context.Context, info model.ClassInfo, l *model.Learner, today *model.Attendance, stats model.AttendanceStats) string {
	homework := i18n.T(ctx, "HomeworkMissed")
	attendance := i18n.T(ctx, "AttendanceNotMarked")
	if today != nil {
		if today.Homework {
			homework = i18n.T(ctx, "HomeworkDone")
		}
		if today.Status.Valid() {
			attendance = i18n.T(ctx, statusKey(today.Status))
		}
	}
	return i18n.Td(ctx, "ParentMessage", map[string]any{
		"School":       info.School,
		"Name":         l.DisplayName,
		"Homework":     homework,
		"Attendance":   attendance,
		"Present":      stats.Present,
		"Absent":       stats.Absent,
		"HomeworkDone": stats.Homework,
		"Level":        l.MaxLevel,
		"Stars":        l.Stars,
		"Teacher":      info.Teacher,
	})
}

func statusKey(s model.AttendanceStatus) string {
	switch s {
	case model.AttendancePresent:
		return "AttendancePresent"
	case model.AttendanceAbsent:
		return "AttendanceAbsent"
	default:
		return "AttendanceLate"
	}
}

// NormalizePhone strips everything but digits and adds the default country
// code to 10-digit numbers.
func NormalizePhone(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)
	switch {
	case digits == "":
		return "", ErrNoPhone
	case len(digits) == 10:
		return DefaultCountryCode + digits, nil
	case len(digits) < 10 || len(digits) > 15:
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// WhatsAppLink returns a wa.me link that opens a chat with message prefilled.
func WhatsAppLink(phone, message string) (string, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text, nil
}
