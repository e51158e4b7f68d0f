// Package queue defines the auth event payloads exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

import "time"

// AuthEventsQueue is the durable queue auth events are published to.
const AuthEventsQueue = "auth.events"

// Event types.
const (
	EventAccountRegistered = "account.registered"
	EventAccountLogin      = "account.login"
	EventFederatedLogin    = "account.federated_login"
	EventAccountLinked     = "account.federated_link"
)

// AuthEvent is published after every successful register or login. It
// never carries credentials or tokens.
type AuthEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Provider   string    `json:"provider"`
	RemoteIP   string    `json:"remote_ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
