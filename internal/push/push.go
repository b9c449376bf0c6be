// Package push sends notifications through Firebase Cloud Messaging.
package push

import "context"

// Message is one outbound push notification.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers push messages. Implementations return the provider's
// message id on success.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

const sentinelToken = "permission-granted"

// minTokenLength separates real FCM registration tokens (140+ chars in
// practice) from placeholders and truncated values. FCM tokens are opaque and
// the provider offers no offline validation, so a length check plus the known
// sentinel is the best pre-send filter available; the send call itself is the
// authoritative check.
const minTokenLength = 50

// TokenUsable reports whether token looks like a real FCM registration token
// rather than an empty value or the client's "permission granted, token
// pending" sentinel.
func TokenUsable(token string) bool {
	return len(token) > minTokenLength && token != sentinelToken
}
