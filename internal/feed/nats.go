package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/observability"
)

// Publisher is the subset of *nats.Conn used for publishing.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes market updates on <prefix>.<kind>.<token_id>.
type NATSPublisher struct {
	pub    Publisher
	prefix string
	logger *log.Logger
}

// ConnectNATS dials a NATS server.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("memelaunch-sim"),
		nats.Timeout(10*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// NewNATSPublisher creates a publisher with the given subject prefix.
func NewNATSPublisher(pub Publisher, prefix string, logger *log.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = "memesim"
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &NATSPublisher{pub: pub, prefix: prefix, logger: logger}
}

// Subject returns the subject an update is published on.
func (p *NATSPublisher) Subject(u domain.MarketUpdate) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, u.Kind, u.TokenID)
}

// Notify implements Notifier. Publish failures are logged and dropped.
func (p *NATSPublisher) Notify(_ context.Context, u domain.MarketUpdate) {
	data, err := json.Marshal(u)
	if err != nil {
		p.logger.Printf("marshal market update: %v", err)
		return
	}
	if err := p.pub.Publish(p.Subject(u), data); err != nil {
		p.logger.Printf("nats publish %s: %v", p.Subject(u), err)
		return
	}
	observability.RecordFeedMessage("nats")
}
