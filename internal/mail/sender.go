// Package mail sends outreach emails through a transactional provider.
package mail

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTML     string
	Text     string
	FromName string
	FromAddr string
}

// Sender delivers a message and returns the provider's message identifier.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
