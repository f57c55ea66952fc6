// Package config holds the typed lecturecast configuration, its defaults
// and validation, and the viper-backed loader.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the full lecturecast configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Audio     AudioConfig     `yaml:"audio" mapstructure:"audio"`
	Voice     VoiceConfig     `yaml:"voice" mapstructure:"voice"`
	Lecture   LectureConfig   `yaml:"lecture" mapstructure:"lecture"`
	Content   ContentConfig   `yaml:"content" mapstructure:"content"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Events    EventsConfig    `yaml:"events" mapstructure:"events"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	// File overrides the log file location in the user data dir.
	File string `yaml:"file" mapstructure:"file"`
}

// AudioConfig controls the output device, queue and playback loop.
type AudioConfig struct {
	// Format is "auto" (float32, then int16), "float32" or "int16".
	Format        string        `yaml:"format" mapstructure:"format"`
	Muted         bool          `yaml:"muted" mapstructure:"muted"`
	TestBeep      bool          `yaml:"test_beep" mapstructure:"test_beep"`
	QueueCapacity int           `yaml:"queue_capacity" mapstructure:"queue_capacity"`
	Peak          float64       `yaml:"peak" mapstructure:"peak"`
	PausePoll     time.Duration `yaml:"pause_poll" mapstructure:"pause_poll"`
	PopTimeout    time.Duration `yaml:"pop_timeout" mapstructure:"pop_timeout"`
	DrainPoll     time.Duration `yaml:"drain_poll" mapstructure:"drain_poll"`
	Settle        time.Duration `yaml:"settle" mapstructure:"settle"`
	RequeuePolicy string        `yaml:"requeue_policy" mapstructure:"requeue_policy"`
}

type VoiceConfig struct {
	// Engine is "piper", "gtts" or "mock".
	Engine string  `yaml:"engine" mapstructure:"engine"`
	Rate   float64 `yaml:"rate" mapstructure:"rate"`
	// Fallback names an engine to switch to when Engine cannot run or
	// fails MaxFailures times in a row. Empty disables it.
	Fallback    string      `yaml:"fallback" mapstructure:"fallback"`
	MaxFailures int         `yaml:"max_failures" mapstructure:"max_failures"`
	Piper       PiperConfig `yaml:"piper" mapstructure:"piper"`
	GTTS        GTTSConfig  `yaml:"gtts" mapstructure:"gtts"`
	Mock        MockConfig  `yaml:"mock" mapstructure:"mock"`
}

type PiperConfig struct {
	Binary      string        `yaml:"binary" mapstructure:"binary"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Config      string        `yaml:"config" mapstructure:"config"`
	Speaker     string        `yaml:"speaker" mapstructure:"speaker"`
	SampleRate  int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	LengthScale float64       `yaml:"length_scale" mapstructure:"length_scale"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type GTTSConfig struct {
	Language          string        `yaml:"language" mapstructure:"language"`
	Slow              bool          `yaml:"slow" mapstructure:"slow"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	SampleRate        int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type MockConfig struct {
	WordDuration time.Duration `yaml:"word_duration" mapstructure:"word_duration"`
	Delay        time.Duration `yaml:"delay" mapstructure:"delay"`
}

type LectureConfig struct {
	QAEnabled bool `yaml:"qa_enabled" mapstructure:"qa_enabled"`
	MinWords  int  `yaml:"min_words" mapstructure:"min_words"`
	MaxWords  int  `yaml:"max_words" mapstructure:"max_words"`
	// Seed drives prompt variant selection; 0 picks a random seed.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

type ContentConfig struct {
	Model             string        `yaml:"model" mapstructure:"model"`
	Temperature       float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxOutputTokens   int           `yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Attempts          int           `yaml:"attempts" mapstructure:"attempts"`
	Backoff           time.Duration `yaml:"backoff" mapstructure:"backoff"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Dir defaults to the user cache dir when empty.
	Dir              string        `yaml:"dir" mapstructure:"dir"`
	MemoryMB         int           `yaml:"memory_mb" mapstructure:"memory_mb"`
	DiskMB           int           `yaml:"disk_mb" mapstructure:"disk_mb"`
	CompressionLevel int           `yaml:"compression_level" mapstructure:"compression_level"`
	TTL              time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type EventsConfig struct {
	// Backend is "log", "nats" or "none".
	Backend        string        `yaml:"backend" mapstructure:"backend"`
	Servers        []string      `yaml:"servers" mapstructure:"servers"`
	Prefix         string        `yaml:"prefix" mapstructure:"prefix"`
	Username       string        `yaml:"username" mapstructure:"username"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	// Embedded starts an in-process NATS server and publishes to it.
	Embedded     bool `yaml:"embedded" mapstructure:"embedded"`
	EmbeddedPort int  `yaml:"embedded_port" mapstructure:"embedded_port"`
}

type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter is "stdout" or "otlp".
	Exporter     string `yaml:"exporter" mapstructure:"exporter"`
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure" mapstructure:"otlp_insecure"`
	// MetricsAddr serves /metrics when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Audio: AudioConfig{
			Format:        "auto",
			QueueCapacity: 1000,
			Peak:          0.8,
			PausePoll:     100 * time.Millisecond,
			PopTimeout:    10 * time.Millisecond,
			DrainPoll:     100 * time.Millisecond,
			Settle:        2 * time.Second,
			RequeuePolicy: "tail",
		},
		Voice: VoiceConfig{
			Engine:      "piper",
			Rate:        2.0,
			MaxFailures: 3,
			Piper: PiperConfig{
				Binary:      "piper",
				Model:       "~/.local/share/piper/en_US-amy-medium.onnx",
				SampleRate:  22050,
				LengthScale: 1.0,
				Timeout:     30 * time.Second,
			},
			GTTS: GTTSConfig{
				Language:          "en",
				RequestsPerMinute: 50,
				SampleRate:        24000,
				Timeout:           30 * time.Second,
			},
			Mock: MockConfig{WordDuration: 60 * time.Millisecond},
		},
		Lecture: LectureConfig{
			QAEnabled: true,
			MinWords:  20,
			MaxWords:  25,
		},
		Content: ContentConfig{
			Model:             "gemini-2.0-flash",
			Temperature:       0.7,
			MaxOutputTokens:   1024,
			Timeout:           30 * time.Second,
			Attempts:          3,
			Backoff:           2 * time.Second,
			RequestsPerMinute: 30,
		},
		Cache: CacheConfig{
			Enabled:          true,
			MemoryMB:         64,
			DiskMB:           512,
			CompressionLevel: 3,
			TTL:              7 * 24 * time.Hour,
		},
		Events: EventsConfig{
			Backend:        "log",
			Servers:        []string{"nats://127.0.0.1:4222"},
			Prefix:         "lecturecast.lecture",
			ConnectTimeout: 2 * time.Second,
			EmbeddedPort:   4222,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			OTLPInsecure: true,
		},
	}
}

var ErrInvalid = errors.New("invalid configuration")

// Validate checks enumerations and numeric ranges. All problems are
// reported together.
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(oneOf(c.Log.Level, "debug", "info", "warn", "error"), "log.level must be debug, info, warn or error, got %q", c.Log.Level)

	check(oneOf(c.Audio.Format, "auto", "float32", "int16"), "audio.format must be auto, float32 or int16, got %q", c.Audio.Format)
	check(c.Audio.QueueCapacity >= 1 && c.Audio.QueueCapacity <= 100000, "audio.queue_capacity must be between 1 and 100000, got %d", c.Audio.QueueCapacity)
	check(c.Audio.Peak > 0 && c.Audio.Peak <= 1, "audio.peak must be in (0, 1], got %.2f", c.Audio.Peak)
	check(c.Audio.PausePoll > 0, "audio.pause_poll must be positive")
	check(c.Audio.PopTimeout > 0, "audio.pop_timeout must be positive")
	check(c.Audio.DrainPoll > 0, "audio.drain_poll must be positive")
	check(c.Audio.Settle >= 0, "audio.settle must not be negative")
	check(oneOf(c.Audio.RequeuePolicy, "tail", "front"), "audio.requeue_policy must be tail or front, got %q", c.Audio.RequeuePolicy)

	check(oneOf(c.Voice.Engine, "piper", "gtts", "mock"), "voice.engine must be piper, gtts or mock, got %q", c.Voice.Engine)
	check(oneOf(c.Voice.Fallback, "", "piper", "gtts", "mock"), "voice.fallback must be empty, piper, gtts or mock, got %q", c.Voice.Fallback)
	check(c.Voice.MaxFailures >= 1, "voice.max_failures must be at least 1, got %d", c.Voice.MaxFailures)
	check(c.Voice.GTTS.RequestsPerMinute >= 0, "voice.gtts.requests_per_minute cannot be negative")
	check(c.Voice.Rate >= 0.5 && c.Voice.Rate <= 4.0, "voice.rate must be between 0.5 and 4.0, got %.2f", c.Voice.Rate)
	check(c.Voice.Piper.LengthScale > 0 && c.Voice.Piper.LengthScale <= 5, "voice.piper.length_scale must be in (0, 5], got %.2f", c.Voice.Piper.LengthScale)
	check(c.Voice.Piper.SampleRate >= 8000 && c.Voice.Piper.SampleRate <= 48000, "voice.piper.sample_rate must be between 8000 and 48000, got %d", c.Voice.Piper.SampleRate)

	check(c.Lecture.MinWords >= 1, "lecture.min_words must be at least 1, got %d", c.Lecture.MinWords)
	check(c.Lecture.MaxWords >= c.Lecture.MinWords, "lecture.max_words (%d) must not be below lecture.min_words (%d)", c.Lecture.MaxWords, c.Lecture.MinWords)

	check(c.Content.Attempts >= 1 && c.Content.Attempts <= 10, "content.attempts must be between 1 and 10, got %d", c.Content.Attempts)
	check(c.Content.Backoff >= 0, "content.backoff must not be negative")
	check(c.Content.Temperature >= 0 && c.Content.Temperature <= 2, "content.temperature must be between 0 and 2, got %.2f", c.Content.Temperature)
	check(c.Content.RequestsPerMinute >= 0, "content.requests_per_minute must not be negative")

	check(c.Cache.MemoryMB >= 0 && c.Cache.MemoryMB <= 10000, "cache.memory_mb must be between 0 and 10000, got %d", c.Cache.MemoryMB)
	check(c.Cache.DiskMB >= 0 && c.Cache.DiskMB <= 100000, "cache.disk_mb must be between 0 and 100000, got %d", c.Cache.DiskMB)
	check(c.Cache.CompressionLevel >= 1 && c.Cache.CompressionLevel <= 22, "cache.compression_level must be between 1 and 22, got %d", c.Cache.CompressionLevel)

	check(oneOf(c.Events.Backend, "log", "nats", "none"), "events.backend must be log, nats or none, got %q", c.Events.Backend)
	check(c.Events.Backend != "nats" || c.Events.Embedded || len(c.Events.Servers) > 0, "events.servers is required for the nats backend")

	check(!c.Telemetry.Enabled || oneOf(c.Telemetry.Exporter, "stdout", "otlp"), "telemetry.exporter must be stdout or otlp, got %q", c.Telemetry.Exporter)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
