// Package eventbus delivers finished reports over NATS.
package eventbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/postgres-ai/checkup/internal/models"
)

// Publisher publishes completed reports to NATS
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher creates a new event bus publisher
func NewPublisher(natsURL string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Checkup (Pub) connected to NATS at %s", natsURL)

	return &Publisher{
		conn: conn,
	}, nil
}

// PublishReport publishes one finished report to "checkup.reports.<checkId>"
func (p *Publisher) PublishReport(r *models.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	if err := p.conn.Publish("checkup.reports."+r.CheckID, data); err != nil {
		return err
	}

	log.Printf("Published report to event bus: [%s] %s", r.CheckID, r.CheckTitle)

	return nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Println("Checkup (Pub) disconnected from NATS")
	}
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
