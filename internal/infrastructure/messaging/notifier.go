// Package messaging publishes planet alerts to NATS.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/bethwel3001/Eco-mission/internal/core/ports"
)

const (
	defaultSubjectPrefix = "ecomission"
	subjectPlanetAlert   = "planet.health.critical"
)

// Config captures the settings for a NATS connection.
type Config struct {
	URL           string
	SubjectPrefix string
	Name          string
}

// NATSNotifier publishes alerts as JSON on <prefix>.planet.health.critical.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
	log     zerolog.Logger
}

// Connect dials NATS and returns a notifier bound to the connection.
func Connect(cfg Config, log zerolog.Logger) (*NATSNotifier, error) {
	name := cfg.Name
	if name == "" {
		name = "ecomission"
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return NewNATSNotifier(nc, cfg.SubjectPrefix, log), nil
}

// NewNATSNotifier wraps an existing connection.
func NewNATSNotifier(nc *nats.Conn, prefix string, log zerolog.Logger) *NATSNotifier {
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return &NATSNotifier{nc: nc, subject: prefix + "." + subjectPlanetAlert, log: log}
}

func (n *NATSNotifier) PlanetCritical(ctx context.Context, alert ports.PlanetAlert) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal planet alert: %w", err)
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish planet alert: %w", err)
	}
	n.log.Debug().Str("subject", n.subject).Str("user_id", alert.UserID).Msg("planet alert published")
	return nil
}

// Status reports an error unless the connection is currently up.
func (n *NATSNotifier) Status() error {
	if n.nc.IsConnected() {
		return nil
	}
	return fmt.Errorf("nats connection %s", n.nc.Status())
}

// Close drains pending publishes and closes the connection.
func (n *NATSNotifier) Close() error {
	return n.nc.Drain()
}

// LogNotifier writes alerts to the log. It stands in when no NATS URL is set.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) PlanetCritical(_ context.Context, alert ports.PlanetAlert) error {
	n.log.Warn().
		Str("user_id", alert.UserID).
		Float64("planet_health", alert.PlanetHealth).
		Float64("threshold", alert.Threshold).
		Time("at", alert.At).
		Msg("planet health critical")
	return nil
}
