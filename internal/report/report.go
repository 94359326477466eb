// Package report renders learner progress reports, class summaries and level
// certificates as PDF documents.
package report

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/games"
	"github.com/pavelanni/phonics/internal/model"
)

const (
	mistakesPerLevel = 5
	questionWidth    = 25
	answerWidth      = 15
	dateLayout       = "02/01/2006"
)

// ErrInvalidLevel is returned for a certificate outside the curriculum.
var ErrInvalidLevel = errors.New("report: invalid level")

type rgb struct{ r, g, b int }

var (
	indigo = rgb{79, 70, 229}
	violet = rgb{139, 92, 246}
	green  = rgb{34, 197, 94}
	red    = rgb{239, 68, 68}
	amber  = rgb{245, 158, 11}
	grey   = rgb{100, 100, 100}
	dark   = rgb{30, 30, 30}
)

//go:embed fonts/*.ttf
var fontFiles embed.FS

const (
	bodyFamily   = "body"
	scriptFamily = "script"
)

// Font is a TrueType face in regular, bold and italic. Missing styles fall
// back to Regular.
type Font struct {
	Regular []byte
	Bold    []byte
	Italic  []byte
}

// LoadFont reads a face from TrueType files. An empty bold path reuses the
// regular file.
func LoadFont(regular, bold string) (Font, error) {
	var f Font
	var err error
	if f.Regular, err = os.ReadFile(regular); err != nil {
		return Font{}, fmt.Errorf("read font: %w", err)
	}
	if bold != "" {
		if f.Bold, err = os.ReadFile(bold); err != nil {
			return Font{}, fmt.Errorf("read bold font: %w", err)
		}
	}
	return f, nil
}

func (f Font) style(s string) []byte {
	switch {
	case s == "B" && f.Bold != nil:
		return f.Bold
	case s == "I" && f.Italic != nil:
		return f.Italic
	}
	return f.Regular
}

// bodyFont is DejaVu Sans Condensed, which covers Latin, Greek and Cyrillic.
func bodyFont() Font {
	read := func(name string) []byte {
		b, err := fontFiles.ReadFile("fonts/" + name)
		if err != nil {
			panic(err) // embedded at build time
		}
		return b
	}
	return Font{
		Regular: read("DejaVuSansCondensed.ttf"),
		Bold:    read("DejaVuSansCondensed-Bold.ttf"),
		Italic:  read("DejaVuSansCondensed-Oblique.ttf"),
	}
}

// Renderer draws documents branded with the class details.
type Renderer struct {
	info   model.ClassInfo
	now    func() time.Time
	body   Font
	script *Font
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the time printed in footers and certificates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithScriptFont sets the face used for text in Gujarati or Devanagari
// script, such as Noto Sans Gujarati. Without it those strings are drawn
// with the body face, which has no glyphs for them.
func WithScriptFont(f Font) Option {
	return func(r *Renderer) { r.script = &f }
}

// New creates a Renderer.
func New(info model.ClassInfo, opts ...Option) *Renderer {
	r := &Renderer{info: info, now: time.Now, body: bodyFont()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Grade maps a percentage to a letter grade.
func Grade(percent float64) string {
	switch {
	case percent >= 90:
		return "A+"
	case percent >= 80:
		return "A"
	case percent >= 70:
		return "B"
	case percent >= 60:
		return "C"
	default:
		return "D"
	}
}

// ClassStats summarizes a class for the summary cards.
type ClassStats struct {
	Students     int
	Stars        int
	AvgLevel     float64
	CompletedAll int
}

// Stats computes class-wide totals. CompletedAll counts learners who have
// reached the last level.
func Stats(learners []model.Learner) ClassStats {
	var s ClassStats
	levels := 0
	for _, l := range learners {
		s.Students++
		s.Stars += l.Stars
		levels += l.MaxLevel
		if l.MaxLevel >= int(curriculum.MaxLevel) {
			s.CompletedAll++
		}
	}
	if s.Students > 0 {
		s.AvgLevel = float64(levels) / float64(s.Students)
	}
	return s
}

// Filename builds a download name such as "Riya_Shah_Report.pdf".
func Filename(name, suffix string) string {
	return strings.Join(strings.Fields(name), "_") + "_" + suffix + ".pdf"
}

// doc wraps a gofpdf document with the shared page furniture.
type doc struct {
	*gofpdf.Fpdf
	width  float64
	script bool
	family string
	style  string
	size   float64
}

func (r *Renderer) newDoc(orientation string, header bool) *doc {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	w, _ := pdf.GetPageSize()
	d := &doc{Fpdf: pdf, width: w, script: r.script != nil}
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8FontFromBytes(bodyFamily, style, r.body.style(style))
		if r.script != nil {
			pdf.AddUTF8FontFromBytes(scriptFamily, style, r.script.style(style))
		}
	}

	if header {
		pdf.SetHeaderFunc(func() {
			defer d.keepFont()()
			d.fill(indigo)
			pdf.Rect(0, 0, w, 40, "F")
			d.fill(violet)
			pdf.Rect(0, 37, w, 6, "F")
			pdf.SetTextColor(255, 255, 255)
			d.font("B", 24)
			pdf.SetXY(0, 12)
			pdf.CellFormat(w, 10, d.tr(r.info.School), "", 1, "C", false, 0, "")
			d.font("", 11)
			pdf.CellFormat(w, 8, d.tr(strings.TrimSpace(r.info.Class+"  "+r.info.Teacher)), "", 1, "C", false, 0, "")
			pdf.SetY(50)
		})
	}
	generated := r.now().Format("Monday, 2 January 2006")
	pdf.SetFooterFunc(func() {
		defer d.keepFont()()
		pdf.SetY(-15)
		d.font("", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s | Page %d of {nb}", generated, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return d
}

// font selects the body face.
func (d *doc) font(style string, size float64) {
	d.family, d.style, d.size = bodyFamily, style, size
	d.SetFont(bodyFamily, style, size)
}

// keepFont returns a func that restores the tracked face. gofpdf puts its
// own font back after headers and footers; this keeps doc in step.
func (d *doc) keepFont() func() {
	family, style, size := d.family, d.style, d.size
	return func() { d.family, d.style, d.size = family, style, size }
}

// tr returns s unchanged after switching to the face that can draw it.
func (d *doc) tr(s string) string {
	family := bodyFamily
	if d.script && indic(s) {
		family = scriptFamily
	}
	if family != d.family {
		d.family = family
		d.SetFont(family, d.style, d.size)
	}
	return s
}

func indic(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Gujarati, unicode.Devanagari) {
			return true
		}
	}
	return false
}

func (d *doc) fill(c rgb) { d.SetFillColor(c.r, c.g, c.b) }
func (d *doc) text(c rgb) { d.SetTextColor(c.r, c.g, c.b) }
func (d *doc) draw(c rgb) { d.SetDrawColor(c.r, c.g, c.b) }

// banner draws a coloured section title across the page.
func (d *doc) banner(title string, c rgb) {
	d.fill(c)
	d.SetTextColor(255, 255, 255)
	d.font("B", 12)
	d.CellFormat(0, 10, d.tr(title), "", 1, "C", true, 0, "")
	d.Ln(3)
}

func (d *doc) note(s string) {
	d.text(grey)
	d.font("I", 10)
	d.CellFormat(0, 8, d.tr(s), "", 1, "C", false, 0, "")
	d.Ln(4)
}

// table draws a grid with a coloured header row and striped body rows.
func (d *doc) table(head []string, widths []float64, rows [][]string, c rgb) {
	d.fill(c)
	d.SetTextColor(255, 255, 255)
	d.font("B", 10)
	d.draw(rgb{200, 200, 200})
	for i, h := range head {
		d.CellFormat(widths[i], 8, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)

	d.font("", 9)
	d.text(dark)
	for n, row := range rows {
		if n%2 == 1 {
			d.SetFillColor(245, 245, 250)
		} else {
			d.SetFillColor(255, 255, 255)
		}
		for i, cell := range row {
			d.CellFormat(widths[i], 7, d.tr(cell), "1", 0, "C", true, 0, "")
		}
		d.Ln(-1)
	}
	d.Ln(6)
}

func (d *doc) output(w io.Writer) error {
	if err := d.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// LearnerReport writes a one-learner progress report: test scores with
// grades, game high scores and a sample of recent mistakes per level.
func (r *Renderer) LearnerReport(w io.Writer, l *model.Learner) error {
	d := r.newDoc("P", true)
	d.AddPage()

	d.SetFillColor(245, 245, 250)
	d.text(indigo)
	d.font("B", 14)
	d.CellFormat(0, 12, "STUDENT PROGRESS REPORT", "", 1, "C", true, 0, "")
	d.Ln(4)

	d.text(dark)
	d.font("B", 18)
	d.CellFormat(120, 10, d.tr(l.DisplayName), "", 0, "L", false, 0, "")
	d.text(amber)
	d.CellFormat(30, 10, fmt.Sprintf("%d", l.Stars), "", 0, "C", false, 0, "")
	d.text(green)
	d.CellFormat(30, 10, fmt.Sprintf("%d", l.MaxLevel), "", 1, "C", false, 0, "")

	d.font("", 10)
	d.text(grey)
	d.CellFormat(120, 6, d.tr("Username: "+l.Username), "", 0, "L", false, 0, "")
	d.CellFormat(30, 6, "Stars", "", 0, "C", false, 0, "")
	d.CellFormat(30, 6, "Level", "", 1, "C", false, 0, "")
	d.CellFormat(0, 6, d.tr("Standard: "+orDash(l.Standard)), "", 1, "L", false, 0, "")
	d.CellFormat(0, 6, "Joined: "+l.CreatedAt.Format(dateLayout), "", 1, "L", false, 0, "")
	d.Ln(6)

	d.banner("TEST SCORES (100 Marks Each)", indigo)
	if len(l.TestScores) == 0 {
		d.note("No tests taken yet")
	} else {
		d.table(
			[]string{"Level", "Score", "Total", "Percentage", "Grade", "Date"},
			[]float64{40, 25, 25, 32, 25, 35},
			testRows(l.TestScores), indigo)
	}

	d.banner("GAME HIGH SCORES", green)
	if len(l.GameScores) == 0 {
		d.note("No games played yet")
	} else {
		var rows [][]string
		for _, gs := range l.GameScores {
			rows = append(rows, []string{games.Title(gs.Game), fmt.Sprintf("%d", gs.Score), gs.PlayedAt.Format(dateLayout)})
		}
		d.table([]string{"Game", "High Score", "Date"}, []float64{80, 51, 51}, rows, green)
	}

	if rows := mistakeRows(l.WrongAnswers); len(rows) > 0 {
		d.banner("AREAS FOR IMPROVEMENT", red)
		d.table([]string{"Level", "Question", "Student Answer", "Correct Answer"},
			[]float64{25, 67, 45, 45}, rows, red)
	}

	return d.output(w)
}

func testRows(scores []model.TestScore) [][]string {
	sorted := append([]model.TestScore(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })
	var rows [][]string
	for _, ts := range sorted {
		pct := ts.Percent()
		rows = append(rows, []string{
			fmt.Sprintf("Level %d", ts.Level),
			fmt.Sprintf("%d", ts.Correct),
			fmt.Sprintf("%d", ts.Total),
			fmt.Sprintf("%.1f%%", pct),
			Grade(pct),
			ts.TakenAt.Format(dateLayout),
		})
	}
	return rows
}

// mistakeRows keeps the first few mistakes of each level, in level order.
func mistakeRows(wrong []model.WrongAnswer) [][]string {
	byLevel := map[int][]model.WrongAnswer{}
	var levels []int
	for _, w := range wrong {
		if _, ok := byLevel[w.Level]; !ok {
			levels = append(levels, w.Level)
		}
		byLevel[w.Level] = append(byLevel[w.Level], w)
	}
	sort.Ints(levels)

	var rows [][]string
	for _, lvl := range levels {
		ws := byLevel[lvl]
		if len(ws) > mistakesPerLevel {
			ws = ws[:mistakesPerLevel]
		}
		for _, w := range ws {
			rows = append(rows, []string{
				fmt.Sprintf("Level %d", lvl),
				truncate(w.Question, questionWidth, "..."),
				truncate(w.WrongAnswer, answerWidth, ""),
				truncate(w.CorrectAnswer, answerWidth, ""),
			})
		}
	}
	return rows
}

func truncate(s string, n int, ellipsis string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ClassReport writes a landscape summary of every learner.
func (r *Renderer) ClassReport(w io.Writer, learners []model.Learner) error {
	d := r.newDoc("L", true)
	d.AddPage()

	d.SetFillColor(245, 245, 250)
	d.text(indigo)
	d.font("B", 14)
	d.CellFormat(0, 12, "ALL STUDENTS PROGRESS REPORT", "", 1, "C", true, 0, "")
	d.Ln(4)

	st := Stats(learners)
	cards := []struct {
		label string
		value string
		c     rgb
	}{
		{"Total Students", fmt.Sprintf("%d", st.Students), indigo},
		{"Total Stars", fmt.Sprintf("%d", st.Stars), amber},
		{"Avg Level", fmt.Sprintf("%.1f", st.AvgLevel), green},
		{"Completed All", fmt.Sprintf("%d", st.CompletedAll), violet},
	}
	const cardW, gap = 62.0, 5.0
	y := d.GetY()
	for i, c := range cards {
		x := 14 + float64(i)*(cardW+gap)
		d.fill(c.c)
		d.Rect(x, y, cardW, 25, "F")
		d.SetTextColor(255, 255, 255)
		d.font("B", 20)
		d.SetXY(x, y+3)
		d.CellFormat(cardW, 10, c.value, "", 0, "C", false, 0, "")
		d.font("", 9)
		d.SetXY(x, y+15)
		d.CellFormat(cardW, 6, c.label, "", 0, "C", false, 0, "")
	}
	d.SetXY(14, y+32)

	var rows [][]string
	for _, l := range learners {
		avg := "N/A"
		if pct, ok := l.AverageTestPercent(); ok {
			avg = fmt.Sprintf("%.1f%%", pct)
		}
		rows = append(rows, []string{
			l.DisplayName,
			l.Username,
			orDash(l.Standard),
			fmt.Sprintf("%d", l.Stars),
			fmt.Sprintf("%d/%d", l.MaxLevel, curriculum.MaxLevel),
			fmt.Sprintf("%d", len(l.TestScores)),
			avg,
			l.CreatedAt.Format(dateLayout),
		})
	}
	if len(rows) == 0 {
		d.note("No students yet")
	} else {
		d.table([]string{"Name", "Username", "Standard", "Stars", "Level", "Tests", "Avg Score", "Joined"},
			[]float64{55, 40, 28, 25, 25, 22, 32, 42}, rows, indigo)
	}
	return d.output(w)
}

// Certificate writes a landscape certificate for completing level.
func (r *Renderer) Certificate(w io.Writer, l *model.Learner, level curriculum.Level) error {
	if !level.Valid() {
		return fmt.Errorf("certificate for level %d: %w", int(level), ErrInvalidLevel)
	}
	d := r.newDoc("L", false)
	d.SetAutoPageBreak(false, 0)
	d.AddPage()
	mid := d.width / 2

	d.draw(indigo)
	d.SetLineWidth(3)
	d.Rect(10, 10, 277, 190, "D")
	d.draw(amber)
	d.SetLineWidth(1)
	d.Rect(15, 15, 267, 180, "D")

	d.fill(indigo)
	d.Rect(20, 20, 257, 35, "F")
	d.SetTextColor(255, 255, 255)
	d.font("B", 28)
	d.SetXY(20, 26)
	d.CellFormat(257, 12, d.tr(r.info.School), "", 1, "C", false, 0, "")
	d.font("", 12)
	d.SetX(20)
	d.CellFormat(257, 8, d.tr(r.info.Teacher), "", 1, "C", false, 0, "")

	centered := func(y float64, size float64, style string, c rgb, s string) {
		d.font(style, size)
		d.text(c)
		d.SetXY(20, y)
		d.CellFormat(257, size/2, d.tr(s), "", 0, "C", false, 0, "")
	}
	centered(70, 40, "B", indigo, "CERTIFICATE")
	centered(88, 18, "B", grey, "OF ACHIEVEMENT")
	d.draw(amber)
	d.SetLineWidth(2)
	d.Line(60, 98, 237, 98)

	centered(110, 14, "", rgb{60, 60, 60}, "This is to certify that")
	centered(122, 36, "B", indigo, l.DisplayName)
	d.font("B", 36)
	nameW := d.GetStringWidth(d.tr(l.DisplayName))
	d.SetLineWidth(1)
	d.Line(mid-nameW/2, 142, mid+nameW/2, 142)

	centered(148, 14, "", rgb{60, 60, 60}, "has successfully completed")
	centered(160, 24, "B", green, fmt.Sprintf("LEVEL %d: %s", int(level), strings.ToUpper(level.String())))
	centered(174, 12, "", rgb{60, 60, 60}, "of the Phonics Learning Program")

	d.font("", 10)
	d.SetXY(60, 186)
	d.CellFormat(80, 6, "Date: "+r.now().Format("2 January 2006"), "", 0, "L", false, 0, "")
	d.draw(dark)
	d.SetLineWidth(0.3)
	d.Line(200, 185, 260, 185)
	d.SetXY(200, 187)
	d.CellFormat(60, 6, "Teacher Signature", "", 0, "C", false, 0, "")

	return d.output(w)
}
