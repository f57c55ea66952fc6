package events

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedConfig configures an in-process NATS server. Port -1 picks a
// random free port.
type EmbeddedConfig struct {
	Host string
	Port int
}

// EmbeddedServer runs NATS inside the lecturecast process, so events can
// be observed without separate infrastructure.
type EmbeddedServer struct {
	ns     *server.Server
	logger *log.Logger
}

// StartEmbedded starts a NATS server and waits until it accepts clients.
func StartEmbedded(cfg EmbeddedConfig) (*EmbeddedServer, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	opts := &server.Options{
		Host:   cfg.Host,
		Port:   cfg.Port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded NATS server: %w", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within 5 seconds")
	}

	logger := log.WithPrefix("events")
	logger.Info("NATS: embedded server started", "url", ns.ClientURL())
	return &EmbeddedServer{ns: ns, logger: logger}, nil
}

// ClientURL returns the URL clients connect to.
func (e *EmbeddedServer) ClientURL() string {
	return e.ns.ClientURL()
}

// Shutdown stops the server and waits for it to exit.
func (e *EmbeddedServer) Shutdown() {
	if e == nil || e.ns == nil {
		return
	}
	e.logger.Debug("NATS: shutting down embedded server")
	e.ns.Shutdown()
	e.ns.WaitForShutdown()
}
