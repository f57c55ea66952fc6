package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS connection.
type NATSConfig struct {
	Servers        []string
	Name           string
	ConnectTimeout time.Duration
	Username       string
	Password       string
	Token          string
	Prefix         string
}

// NATSPublisher publishes events as JSON to NATS.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *log.Logger
}

// ConnectNATS opens a NATS connection for publishing.
func ConnectNATS(cfg NATSConfig) (*NATSPublisher, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("no NATS servers configured")
	}
	if cfg.Name == "" {
		cfg.Name = "lecturecast"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 2 * time.Second
	}

	logger := log.WithPrefix("events")
	options := []nats.Option{
		nats.Name(cfg.Name),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS: disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS: reconnected", "url", c.ConnectedUrl())
		}),
	}
	if cfg.Username != "" || cfg.Password != "" {
		options = append(options, nats.UserInfo(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		options = append(options, nats.Token(cfg.Token))
	}

	url := strings.Join(cfg.Servers, ",")
	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	logger.Info("NATS: connected", "servers", url)

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}, nil
}

// Publish sends e to its subject. Delivery is fire-and-forget.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	subject := Subject(p.prefix, e.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Healthy reports whether the connection is up.
func (p *NATSPublisher) Healthy() bool {
	return p != nil && p.conn != nil && p.conn.Status() == nats.CONNECTED
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	p.logger.Debug("NATS: closing connection")
	err := p.conn.FlushTimeout(time.Second)
	p.conn.Close()
	return err
}
