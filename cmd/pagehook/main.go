package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/pagehook/internal/app"
	"github.com/vidyasagar/pagehook/internal/browser"
	"github.com/vidyasagar/pagehook/internal/config"
	"github.com/vidyasagar/pagehook/internal/logging"
	"github.com/vidyasagar/pagehook/internal/theme"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		configPath  string
		registry    string
		themeName   string
		debounceMS  int
		repeatMS    int
		logLevel    string
		noSubstring bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "config file (default <config dir>/pagehook/config.json)")
	flag.StringVar(&registry, "registry", "", "site registry YAML (overrides config)")
	flag.StringVar(&themeName, "theme", "", "color theme ("+strings.Join(theme.List(), ", ")+")")
	flag.IntVar(&debounceMS, "debounce", -1, "debounce window in ms (overrides config)")
	flag.IntVar(&repeatMS, "repeat", -1, "duplicate suppression window in ms (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flag.BoolVar(&noSubstring, "no-substring", false, "disable loose substring host matching")
	flag.BoolVar(&showVersion, "version", false, "show version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pagehook - run page handlers when navigation settles\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pagehook [flags] [url]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pagehook                                 # start with the welcome screen\n")
		fmt.Fprintf(os.Stderr, "  pagehook https://en.wikipedia.org/wiki/Go # open a URL\n")
		fmt.Fprintf(os.Stderr, "  pagehook -registry ./sites.yaml example.com\n")
		fmt.Fprintf(os.Stderr, "  pagehook -debounce 500 -log-level debug\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("pagehook %s\n", version)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file.
	if registry != "" {
		cfg.Registry = registry
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	if debounceMS >= 0 {
		cfg.DebounceMS = debounceMS
	}
	if repeatMS >= 0 {
		cfg.RepeatMS = repeatMS
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if noSubstring {
		cfg.SubstringHosts = false
	}

	if !theme.Set(cfg.Theme) {
		fmt.Fprintf(os.Stderr, "Unknown theme: %s\nAvailable: %s\n", cfg.Theme, strings.Join(theme.List(), ", "))
		os.Exit(1)
	}
	browser.SetStyle(theme.Current.Glamour)

	logger := logging.Discard()
	if dataDir, err := config.DataDir(); err == nil {
		logger, err = logging.Open(filepath.Join(dataDir, "pagehook.log"), cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	defer logging.Close()

	rt, err := app.NewRuntime(app.RuntimeOptions{Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	for _, issue := range rt.Matcher.Issues() {
		fmt.Fprintf(os.Stderr, "registry: %v\n", issue)
	}

	var startURL string
	if flag.NArg() > 0 {
		startURL = strings.Join(flag.Args(), " ")
	}

	p := tea.NewProgram(app.New(rt, startURL),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
