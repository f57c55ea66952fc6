package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/cache"
	"github.com/studyloop/lecturecast/internal/config"
	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/events"
	"github.com/studyloop/lecturecast/internal/lecture"
	"github.com/studyloop/lecturecast/internal/synth"
	"github.com/studyloop/lecturecast/internal/telemetry"
)

// stack is everything a command builds from the configuration.
type stack struct {
	engine    synth.Engine
	cache     *cache.Manager
	gemini    *content.Gemini
	content   *content.Retrying
	publisher events.Publisher
	embedded  *events.EmbeddedServer
	telemetry *telemetry.Provider
	metrics   *http.Server
}

// stackOptions narrows what a command needs.
type stackOptions struct {
	speech bool
	// engine overrides voice.engine.
	engine string
	events bool
}

func buildStack(ctx context.Context, c config.Config, s config.Secrets, opts stackOptions) (*stack, error) {
	st := &stack{publisher: events.Nop{}}
	if err := st.build(ctx, c, s, opts); err != nil {
		st.Close(context.Background())
		return nil, err
	}
	return st, nil
}

func (st *stack) build(ctx context.Context, c config.Config, s config.Secrets, opts stackOptions) error {
	var err error

	st.telemetry, err = telemetry.Setup(ctx, telemetry.Options{
		Enabled:      c.Telemetry.Enabled,
		Exporter:     c.Telemetry.Exporter,
		OTLPEndpoint: c.Telemetry.OTLPEndpoint,
		OTLPInsecure: c.Telemetry.OTLPInsecure,
		Version:      Version,
	})
	if err != nil {
		return fmt.Errorf("unable to set up telemetry: %w", err)
	}
	if c.Telemetry.MetricsAddr != "" && st.telemetry.Handler() != nil {
		st.metrics, err = serveMetrics(c.Telemetry.MetricsAddr, st.telemetry.Handler())
		if err != nil {
			return err
		}
	}

	if opts.speech {
		st.engine, err = newEngine(c, opts.engine)
		if err != nil {
			return err
		}
		if c.Cache.Enabled {
			st.cache, err = newCache(c)
			if err != nil {
				return err
			}
			st.engine = synth.NewCachedEngine(st.engine, st.cache)
		}
	}

	var gen content.Generator
	st.gemini, err = content.NewGemini(ctx, content.GeminiConfig{
		APIKey:          s.GeminiAPIKey,
		Model:           c.Content.Model,
		Temperature:     float32(c.Content.Temperature),
		MaxOutputTokens: int32(c.Content.MaxOutputTokens), //nolint:gosec
		Timeout:         c.Content.Timeout,
	})
	switch {
	case errors.Is(err, content.ErrGeneratorUnavailable):
		log.Info("Gemini not configured, using built-in lecture content")
		st.gemini = nil
	case err != nil:
		return err
	default:
		gen = st.gemini
	}
	st.content = content.NewRetrying(gen, content.Fallback{},
		content.WithAttempts(c.Content.Attempts),
		content.WithBackoff(c.Content.Backoff),
		content.WithRequestsPerMinute(c.Content.RequestsPerMinute),
		content.WithRetryMetrics(st.telemetry.Metrics()),
	)

	if opts.events {
		st.publisher, err = st.newPublisher(c, s)
		if err != nil {
			return err
		}
	}
	return nil
}

func newEngine(c config.Config, override string) (synth.Engine, error) {
	name := c.Voice.Engine
	if override != "" {
		name = override
	}
	primary, err := engineNamed(c, name)
	if c.Voice.Fallback == "" || c.Voice.Fallback == name {
		if err != nil {
			return nil, err
		}
		if v, ok := primary.(synth.Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, err //nolint:wrapcheck
			}
		}
		return primary, nil
	}

	fallback, ferr := engineNamed(c, c.Voice.Fallback)
	if ferr != nil {
		return nil, ferr
	}
	if err != nil {
		log.Warn("Speech engine could not be set up, using fallback", "engine", name, "fallback", c.Voice.Fallback, "error", err)
		return fallback, nil
	}
	e := synth.NewFallbackEngine(primary, fallback, c.Voice.MaxFailures)
	if err := e.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return e, nil
}

func engineNamed(c config.Config, name string) (synth.Engine, error) {
	switch name {
	case "mock":
		e := synth.NewMockEngine()
		e.SetWordDuration(c.Voice.Mock.WordDuration)
		e.SetDelay(c.Voice.Mock.Delay)
		return e, nil
	case "piper":
		e, err := synth.NewPiperEngine(synth.PiperConfig{
			Binary:      c.Voice.Piper.Binary,
			Model:       c.Voice.Piper.Model,
			Config:      c.Voice.Piper.Config,
			Speaker:     c.Voice.Piper.Speaker,
			SampleRate:  c.Voice.Piper.SampleRate,
			LengthScale: c.Voice.Piper.LengthScale,
			Timeout:     c.Voice.Piper.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to set up piper: %w", err)
		}
		return e, nil
	case "gtts":
		return synth.NewGTTSEngine(synth.GTTSConfig{
			Language:          c.Voice.GTTS.Language,
			Slow:              c.Voice.GTTS.Slow,
			RequestsPerMinute: c.Voice.GTTS.RequestsPerMinute,
			SampleRate:        c.Voice.GTTS.SampleRate,
			Timeout:           c.Voice.GTTS.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown engine %q: use piper, gtts or mock", name)
	}
}

func newCache(c config.Config) (*cache.Manager, error) {
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	cc := cache.DefaultConfig()
	cc.Dir = dir
	cc.MemoryCapacity = int64(c.Cache.MemoryMB) << 20
	cc.DiskCapacity = int64(c.Cache.DiskMB) << 20
	cc.CompressionLevel = c.Cache.CompressionLevel
	cc.TTL = c.Cache.TTL
	if c.Cache.DiskMB == 0 {
		cc.Dir = ""
	}
	m, err := cache.NewManager(cc)
	if err != nil {
		return nil, fmt.Errorf("unable to open audio cache: %w", err)
	}
	return m, nil
}

func (st *stack) newPublisher(c config.Config, s config.Secrets) (events.Publisher, error) {
	switch c.Events.Backend {
	case "none":
		return events.Nop{}, nil
	case "log":
		return events.NewLogPublisher(nil, log.InfoLevel), nil
	}

	servers := c.Events.Servers
	if c.Events.Embedded {
		srv, err := events.StartEmbedded(events.EmbeddedConfig{Port: c.Events.EmbeddedPort})
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
		st.embedded = srv
		servers = []string{srv.ClientURL()}
	}
	nc, err := events.ConnectNATS(events.NATSConfig{
		Servers:        servers,
		ConnectTimeout: c.Events.ConnectTimeout,
		Username:       c.Events.Username,
		Password:       s.NATSPassword,
		Token:          s.NATSToken,
		Prefix:         c.Events.Prefix,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return events.Multi{nc, events.NewLogPublisher(nil, log.DebugLevel)}, nil
}

func serveMetrics(addr string, h http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("unable to serve metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "err", err)
		}
	}()
	log.Info("Serving metrics", "addr", ln.Addr().String())
	return srv, nil
}

// lectureDeps assembles the controller's collaborators. A nil device runs
// muted.
func (st *stack) lectureDeps(dev audio.Device, asker lecture.Asker) lecture.Deps {
	deps := lecture.Deps{
		Engine:    st.engine,
		Content:   st.content,
		Publisher: st.publisher,
		Asker:     asker,
		Device:    dev,
		Metrics:   st.telemetry.Metrics(),
	}
	if st.gemini != nil {
		deps.Answerer = st.gemini
		deps.Completer = st.gemini
	}
	return deps
}

// completer returns Gemini when configured. A nil Completer serves canned
// study material.
func (st *stack) completer() content.Completer {
	if st.gemini == nil {
		return nil
	}
	return st.gemini
}

func (st *stack) Close(ctx context.Context) {
	if st.publisher != nil {
		if err := st.publisher.Close(); err != nil {
			log.Debug("closing events", "err", err)
		}
	}
	st.embedded.Shutdown()
	if st.cache != nil {
		_ = st.cache.Close()
	}
	if st.metrics != nil {
		_ = st.metrics.Shutdown(ctx)
	}
	if st.telemetry != nil {
		if err := st.telemetry.Shutdown(ctx); err != nil {
			log.Debug("telemetry shutdown", "err", err)
		}
	}
}

// lectureConfig maps the config file onto the controller's tunables.
func lectureConfig(c config.Config) (lecture.Config, error) {
	policy, err := audio.ParseRequeuePolicy(c.Audio.RequeuePolicy)
	if err != nil {
		return lecture.Config{}, err //nolint:wrapcheck
	}
	return lecture.Config{
		Format:        c.Audio.Format,
		Muted:         c.Audio.Muted,
		TestBeep:      c.Audio.TestBeep,
		QueueCapacity: c.Audio.QueueCapacity,
		Peak:          float32(c.Audio.Peak),
		Loop: audio.LoopConfig{
			PausePoll:  c.Audio.PausePoll,
			PopTimeout: c.Audio.PopTimeout,
			Requeue:    policy,
		},
		DrainPoll: c.Audio.DrainPoll,
		Settle:    c.Audio.Settle,
		MinWords:  c.Lecture.MinWords,
		MaxWords:  c.Lecture.MaxWords,
		QAEnabled: c.Lecture.QAEnabled,
		Seed:      uint64(c.Lecture.Seed), //nolint:gosec
		Rate:      c.Voice.Rate,
	}, nil
}
