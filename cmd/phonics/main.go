package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/handler"
	appI18n "github.com/pavelanni/phonics/internal/i18n"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/progress"
	"github.com/pavelanni/phonics/internal/report"
	"github.com/pavelanni/phonics/internal/speech"
	"github.com/pavelanni/phonics/internal/store"
)

const version = "1.0.0"

//go:generate templ generate

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "phonics",
		Short: "Phonics tutor for young English learners",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), reportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `phonics --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "", "Also write logs to this file, rotated by size")
}

func addReportFontFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("report-font", "", "TrueType font for Gujarati and Hindi text in PDFs (e.g. NotoSansGujarati-Regular.ttf)")
	f.String("report-font-bold", "", "Bold variant of --report-font")
}

// reportOptions loads the script font named by --report-font, if any.
func reportOptions(v *viper.Viper) ([]report.Option, error) {
	path := v.GetString("report-font")
	if path == "" {
		return nil, nil
	}
	font, err := report.LoadFont(path, v.GetString("report-font-bold"))
	if err != nil {
		return nil, err
	}
	return []report.Option{report.WithScriptFont(font)}, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP tutor server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "phonics.db", "SQLite database path")
	f.StringP("lang", "l", "en", "Default UI language (en, gu, hi)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /phonics)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("admin-password", "", "Initial admin password (or set PHONICS_ADMIN_PASSWORD)")
	f.Float64("quick-pass", progress.QuickQuizPolicy.PassPercent, "Quick quiz pass mark in percent")
	f.Float64("full-pass", progress.FullTestPolicy.PassPercent, "Full level test pass mark in percent")
	f.Duration("auto-advance", 1500*time.Millisecond, "Quick quiz auto-advance delay (0 disables)")
	f.String("default-quiz-lang", string(curriculum.Gujarati), "Instruction language for quizzes (gu, hi)")
	f.String("openai-url", "https://api.openai.com/v1", "OpenAI-compatible API base URL for speech")
	f.String("openai-key", "", "API key for speech; empty disables speech endpoints")
	f.String("tts-voice", "alloy", "Text-to-speech voice")
	f.String("speech-cache", "speech-cache", "Directory for cached speech audio")
	f.String("speech-prerecorded", "", "Directory of pre-recorded audio that overrides synthesis")
	f.Float64("speech-rps", 3, "Speech API requests per second (0 for unlimited)")
	addReportFontFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export learner progress as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "phonics.db", "SQLite database path")
	f.String("school", "", "Override the school name in the export")
	f.String("class", "", "Override the class name in the export")
	f.String("teacher", "", "Override the teacher name in the export")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF class report, learner report or certificate",
		RunE:  runReport,
	}
	f := cmd.Flags()
	f.String("db", "phonics.db", "SQLite database path")
	f.Int64("student", 0, "Learner ID for a single learner report (0 = whole class)")
	f.Int("certificate", 0, "With --student, write the certificate for this level instead")
	f.StringP("output", "o", "", "Output file path (default derived from the report name)")
	addReportFontFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if path := v.GetString("log-file"); path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(out, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PHONICS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("phonics")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/phonics")
	v.AddConfigPath("/etc/phonics")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func printBanner() {
	banner := figure.NewFigure("PHONICS", "", true)
	banner.Print()
	fmt.Printf("\nPhonics Tutor v%s\n\n", version)
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	printBanner()

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	cfg := model.AppConfig{
		BasePath:         basePath,
		SecureCookies:    v.GetBool("secure-cookies"),
		QuickPassPercent: v.GetFloat64("quick-pass"),
		FullPassPercent:  v.GetFloat64("full-pass"),
		AutoAdvance:      v.GetDuration("auto-advance"),
		DefaultLanguage:  v.GetString("default-quiz-lang"),
	}

	recorder := progress.NewRecorder(db)

	var opts []handler.Option
	if key := v.GetString("openai-key"); key != "" {
		var clientOpts []speech.Option
		clientOpts = append(clientOpts, speech.WithVoice(v.GetString("tts-voice")))
		if rps := v.GetFloat64("speech-rps"); rps > 0 {
			clientOpts = append(clientOpts, speech.WithRateLimit(rps, max(1, int(rps))))
		}
		client := speech.New(v.GetString("openai-url"), key, clientOpts...)
		cache, err := speech.NewCache(client, v.GetString("speech-cache"), v.GetString("speech-prerecorded"))
		if err != nil {
			return fmt.Errorf("create speech cache: %w", err)
		}
		opts = append(opts, handler.WithSpeech(cache, client))
		slog.Info("speech enabled", "url", v.GetString("openai-url"), "voice", v.GetString("tts-voice"))
	} else {
		slog.Warn("no openai-key set, speech endpoints disabled")
	}

	reportOpts, err := reportOptions(v)
	if err != nil {
		return fmt.Errorf("load report font: %w", err)
	}
	opts = append(opts, handler.WithReportOptions(reportOpts...))

	h, err := handler.New(db, recorder, cfg, opts...)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware())

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cleanupSessions(ctx, db, time.Hour)

	addr := v.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"quiz_lang", cfg.DefaultLanguage,
		"quick_pass", cfg.QuickPassPercent,
		"full_pass", cfg.FullPassPercent,
		"auto_advance", cfg.AutoAdvance,
		"base_path", basePath,
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	h.Shutdown()
	if err := recorder.Close(shutdownCtx); err != nil {
		slog.Error("progress not fully saved", "error", err)
	}
	return nil
}

// cleanupSessions removes expired login sessions until ctx ends.
func cleanupSessions(ctx context.Context, db *store.Store, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := db.CleanupExpiredSessions(); err != nil {
				slog.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// openOutput returns stdout for "" or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportLearners()
	if err != nil {
		return fmt.Errorf("export learners: %w", err)
	}
	export.ExportedAt = time.Now().UTC()
	if s := v.GetString("school"); s != "" {
		export.School = s
	}
	if s := v.GetString("class"); s != "" {
		export.Class = s
	}
	if s := v.GetString("teacher"); s != "" {
		export.Teacher = s
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	w, err := openOutput(v.GetString("output"))
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)
	slog.Info("exported learners", "count", len(export.Learners))
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	info, err := db.GetClassInfo()
	if err != nil {
		return fmt.Errorf("load class info: %w", err)
	}
	reportOpts, err := reportOptions(v)
	if err != nil {
		return fmt.Errorf("load report font: %w", err)
	}
	rr := report.New(info, reportOpts...)

	var (
		name   string
		render func(io.Writer) error
	)
	if id := v.GetInt64("student"); id != 0 {
		l, err := db.GetLearner(id)
		if err != nil {
			return fmt.Errorf("load learner: %w", err)
		}
		if l == nil {
			return fmt.Errorf("learner %d not found", id)
		}
		if level := v.GetInt("certificate"); level != 0 {
			name = report.Filename(l.DisplayName, fmt.Sprintf("Certificate_Level%d", level))
			render = func(w io.Writer) error { return rr.Certificate(w, l, curriculum.Level(level)) }
		} else {
			name = report.Filename(l.DisplayName, "Report")
			render = func(w io.Writer) error { return rr.LearnerReport(w, l) }
		}
	} else {
		learners, err := db.ListLearners()
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		name = "All_Students_Report.pdf"
		render = func(w io.Writer) error { return rr.ClassReport(w, learners) }
	}

	out := v.GetString("output")
	if out == "" {
		out = name
	}
	w, err := openOutput(out)
	if err != nil {
		return err
	}
	if err := render(w); err != nil {
		w.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	slog.Info("wrote report", "path", out)
	return nil
}

func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or PHONICS_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(model.User{
		Username:     "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         model.UserRoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "username", "admin")
	return nil
}
