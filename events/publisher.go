// Package events publishes entity lifecycle events over NATS so other
// processes (feed refreshers, notification workers) can react without
// polling. Publishing is best-effort: the API never fails a request because
// a broker is down.
package events

import (
	"encoding/json"
	"log"
	"os"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated     = "post.created"
	SubjectPostDeleted     = "post.deleted"
	SubjectFollowerAdded   = "follower.added"
	SubjectFollowerRemoved = "follower.removed"
	SubjectBookingCreated  = "booking.created"
)

type Publisher struct {
	nc *nats.Conn
}

// NewPublisherFromEnv connects to NATS_URL when set. Without it the returned
// publisher is a no-op, which keeps single-process deployments broker-free.
func NewPublisherFromEnv() *Publisher {
	url := os.Getenv("NATS_URL")
	if url == "" {
		return &Publisher{}
	}

	nc, err := nats.Connect(url)
	if err != nil {
		log.Printf("NATS connection failed, events disabled: %v", err)
		return &Publisher{}
	}

	log.Printf("Connected to NATS at %s", url)
	return &Publisher{nc: nc}
}

func (p *Publisher) Publish(subject string, payload interface{}) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", subject, err)
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("Error publishing %s event: %v", subject, err)
	}
}

func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
