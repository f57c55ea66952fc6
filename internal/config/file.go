package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var comments = map[string]string{
	"log":                         "Logging",
	"log.level":                   "debug, info, warn or error",
	"log.file":                    "log file path (default: user data dir)",
	"audio":                       "Audio output and playback",
	"audio.format":                "auto tries float32 first, then int16",
	"audio.muted":                 "discard audio instead of opening a device",
	"audio.test_beep":             "play a short beep when the device opens",
	"audio.queue_capacity":        "maximum queued frames before synthesis blocks",
	"audio.requeue_policy":        "where a frame popped during pause goes back: tail or front",
	"voice":                       "Speech synthesis",
	"voice.engine":                "piper, gtts or mock",
	"voice.fallback":              "engine to switch to when voice.engine fails; empty disables",
	"voice.gtts":                  "Google TTS via gtts-cli and ffmpeg; needs network access",
	"voice.rate":                  "2.0 is the engine's natural speed",
	"lecture":                     "Lecture flow",
	"lecture.seed":                "0 picks a random seed",
	"content":                     "Content generation. Set GEMINI_API_KEY to enable Gemini; canned text is used otherwise.",
	"content.requests_per_minute": "0 disables rate limiting",
	"cache":                       "Synthesized audio cache",
	"cache.dir":                   "default: user cache dir",
	"events":                      "Lecture events. NATS_TOKEN and NATS_PASSWORD are read from the environment.",
	"events.backend":              "log, nats or none",
	"events.embedded":             "run an in-process NATS server",
	"telemetry":                   "OpenTelemetry tracing and Prometheus metrics",
	"telemetry.exporter":          "stdout or otlp",
	"telemetry.metrics_addr":      "serve /metrics on this address when set",
}

// DefaultYAML renders Default() as commented YAML.
func DefaultYAML() ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return nil, fmt.Errorf("unable to encode default config: %w", err)
	}
	annotate(&doc, "")
	doc.HeadComment = "lecturecast configuration"

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("unable to render default config: %w", err)
	}
	return out, nil
}

func annotate(n *yaml.Node, prefix string) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if c, ok := comments[path]; ok {
			key.HeadComment = c
		}
		annotate(val, path)
	}
}

// EnsureFile writes the default config to path unless a file already
// exists there. It reports whether a file was created.
func EnsureFile(path string) (bool, error) {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return false, fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("unable to create directory: %w", err)
	}
	data, err := DefaultYAML()
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("unable to write config file: %w", err)
	}
	return true, nil
}
