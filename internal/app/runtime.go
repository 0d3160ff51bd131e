package app

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/vidyasagar/pagehook/internal/bridge"
	"github.com/vidyasagar/pagehook/internal/browser"
	"github.com/vidyasagar/pagehook/internal/config"
	"github.com/vidyasagar/pagehook/internal/dispatch"
	"github.com/vidyasagar/pagehook/internal/handlers"
	"github.com/vidyasagar/pagehook/internal/navigation"
	"github.com/vidyasagar/pagehook/internal/pagectx"
	"github.com/vidyasagar/pagehook/internal/route"
)

//go:embed default_sites.yaml
var defaultRegistry []byte

// queueSize bounds the channels carrying results to the UI loop.
const queueSize = 64

// Runtime wires the core for one page context: session, detector,
// coordinator, bridge and handler set.
type Runtime struct {
	Session     *navigation.Session
	Host        *browser.Host
	Loader      *browser.Loader
	Matcher     *route.Matcher
	Coordinator *dispatch.Coordinator
	Bridge      *bridge.Bridge

	detector *navigation.Detector
	logger   *slog.Logger

	events  chan dispatch.Event
	notes   chan handlers.Note
	replies chan bridge.Reply
}

// RuntimeOptions configures NewRuntime.
type RuntimeOptions struct {
	Config *config.Config
	Logger *slog.Logger

	// HTTPClient replaces the fetcher's client.
	HTTPClient *http.Client

	// Clock replaces the coordinator clock.
	Clock dispatch.Clock
}

// NewRuntime builds and starts the pipeline described by opts.Config.
func NewRuntime(opts RuntimeOptions) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fetchOpts := []browser.FetcherOption{browser.WithLanguage(pagectx.DetectLocale(os.Getenv))}
	if opts.HTTPClient != nil {
		fetchOpts = append(fetchOpts, browser.WithHTTPClient(opts.HTTPClient))
	}
	fetcher := browser.NewFetcher(fetchOpts...)

	loader, err := browser.NewLoader(fetcher, cfg.PageCacheSize, logger.With("component", "loader"))
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Session: navigation.NewSession(""),
		Loader:  loader,
		logger:  logger,
		events:  make(chan dispatch.Event, queueSize),
		notes:   make(chan handlers.Note, queueSize),
		replies: make(chan bridge.Reply, queueSize),
	}
	rt.Host = browser.NewHost(rt.Session, fetcher)

	set := handlers.New(rt.Host, rt.deliverNote, logger.With("component", "handlers"))
	sites, err := loadRegistry(cfg.Registry, set.Handlers(), logger)
	if err != nil {
		return nil, err
	}

	strategies := route.DefaultHostStrategies
	if !cfg.SubstringHosts {
		strategies = []route.HostStrategy{route.HostExact, route.HostSubdomain, route.HostGlob}
	}
	rt.Matcher = route.New(sites,
		route.WithLogger(logger.With("component", "route")),
		route.WithHostStrategies(strategies...),
	)

	coordOpts := []dispatch.Option{
		dispatch.WithDelay(cfg.Debounce()),
		dispatch.WithRepeatThreshold(cfg.RepeatThreshold()),
		dispatch.WithLogger(logger.With("component", "dispatch")),
		dispatch.WithObserver(rt.deliverEvent),
	}
	if opts.Clock != nil {
		coordOpts = append(coordOpts, dispatch.WithClock(opts.Clock))
	}
	rt.Coordinator = dispatch.New(rt.Matcher, rt.Host, coordOpts...)
	rt.Bridge = bridge.New(rt.Coordinator, logger.With("component", "bridge"))

	rt.detector = navigation.NewDetector(rt.Session)
	if err := rt.detector.Start(rt.Coordinator.Signal, false); err != nil {
		return nil, err
	}

	logger.Info("runtime started",
		"registry", cfg.Registry,
		"sites", len(sites),
		"debounce", cfg.Debounce(),
		"repeat_threshold", cfg.RepeatThreshold(),
		"substring_hosts", cfg.SubstringHosts,
	)
	return rt, nil
}

// loadRegistry reads path, falling back to the built-in registry when the
// file does not exist.
func loadRegistry(path string, h route.Handlers, logger *slog.Logger) ([]route.Site, error) {
	if path != "" {
		sites, err := route.LoadFile(path, h)
		if err == nil {
			return sites, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading registry %s: %w", path, err)
		}
		logger.Info("registry file not found, using built-in registry", "path", path)
	}
	return route.Load(bytes.NewReader(defaultRegistry), h)
}

// Announce tells the core that a full document load finished at url.
func (rt *Runtime) Announce(url string) {
	rt.Bridge.Handle(bridge.URLChanged(url), func(raw []byte) {
		reply, err := bridge.DecodeReply(raw)
		if err != nil {
			rt.logger.Warn("undecodable bridge reply", "error", err)
			return
		}
		select {
		case rt.replies <- reply:
		default:
		}
	})
}

// Events delivers dispatch events.
func (rt *Runtime) Events() <-chan dispatch.Event { return rt.events }

// Notes delivers handler output.
func (rt *Runtime) Notes() <-chan handlers.Note { return rt.notes }

// Replies delivers bridge replies.
func (rt *Runtime) Replies() <-chan bridge.Reply { return rt.replies }

// Close stops navigation detection and cancels pending dispatches.
func (rt *Runtime) Close() {
	rt.detector.Stop()
	rt.Coordinator.Close()
}

// deliverEvent and deliverNote run on dispatch goroutines; a full queue
// drops rather than stalls the pipeline.
func (rt *Runtime) deliverEvent(ev dispatch.Event) {
	select {
	case rt.events <- ev:
	default:
		rt.logger.Warn("event queue full, dropping event", "url", ev.URL, "outcome", ev.Outcome.String())
	}
}

func (rt *Runtime) deliverNote(n handlers.Note) {
	select {
	case rt.notes <- n:
	default:
		rt.logger.Warn("note queue full, dropping note", "url", n.URL, "handler", n.Handler)
	}
}
