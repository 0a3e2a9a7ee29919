package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/memopad/internal/app"
	"github.com/marcus/memopad/internal/config"
	"github.com/marcus/memopad/internal/export"
	"github.com/marcus/memopad/internal/keymap"
	"github.com/marcus/memopad/internal/linkify"
	"github.com/marcus/memopad/internal/state"
	"github.com/marcus/memopad/internal/store"
	"github.com/marcus/memopad/internal/theme"
)

// Version is set at build time via ldflags
var Version = ""

const exportAll = "all"

var (
	configPath   = flag.String("config", "", "path to config file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	logPath      = flag.String("log", "~/.config/memopad/memopad.log", "log file for the editor")
	linkifyFlag  = flag.Bool("linkify", false, "linkify HTML from stdin to stdout and exit")
	exportArg    = flag.String("export", "", "write memo `N` (or all memos) as text to the export dir and exit")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	// Handle version flag
	if *versionFlag || *shortVersion {
		fmt.Printf("memopad version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	if *linkifyFlag {
		if err := runLinkify(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "linkify: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}

	// Load configuration
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *exportArg != "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		paths, err := runExport(cfg, *exportArg, time.Now(), logger)
		if err != nil {
			logger.Error("export failed", "arg", *exportArg, "err", err)
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			os.Exit(1)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}

	// The alt screen owns stderr, so the editor logs to a file.
	logFile, err := openLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))

	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// Load persistent state (ignore errors - state is optional)
	if err := state.Init(); err != nil {
		logger.Warn("state init failed", "err", err)
	}

	resolved := theme.Resolve(cfg, st, logger)
	theme.Apply(resolved)
	logger.Debug("theme resolved", "theme", resolved.Name, "source", resolved.Source)

	// Create keymap registry
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	// Apply user keymap overrides
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	watcher, err := config.Watch(path, logger)
	if err != nil {
		logger.Warn("config watch failed", "path", path, "err", err)
		watcher = nil
	}

	// Create and run application
	model := app.New(cfg, path, st, km, watcher, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// runLinkify converts URLs and email addresses in an HTML fragment.
func runLinkify(r io.Reader, w io.Writer) error {
	in, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, linkify.Linkify(string(in)))
	return err
}

// runExport writes memos as text and returns the file paths. arg is a tab
// id or "all". A malformed id is rejected before the store is opened.
func runExport(cfg *config.Config, arg string, now time.Time, logger *slog.Logger) ([]string, error) {
	var tabID int
	if arg != exportAll {
		id, err := store.ParseTabID(arg)
		if err != nil {
			return nil, err
		}
		tabID = id
	}

	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	memos := make(map[int]string)
	if tabID > 0 {
		memo, err := st.LoadMemo(tabID)
		if err != nil {
			return nil, err
		}
		memos[tabID] = memo
	} else if memos, err = st.AllMemos(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(memos))
	for _, id := range slices.Sorted(maps.Keys(memos)) {
		path, err := export.Download(cfg.Export.Dir, id, memos[id], now)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func openLog(path string) (*os.File, error) {
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

func init() {
	// Customize usage output
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: memopad [options]\n\n")
		fmt.Fprintf(os.Stderr, "A tabbed terminal memo pad that turns URLs and emails into links.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
