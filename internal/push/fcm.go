package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Credentials holds the Firebase service-account fields the sender needs.
type Credentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// Missing returns the names of unset credential env keys.
func (c Credentials) Missing() []string {
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.ClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	return missing
}

// FCMSender sends messages through the Firebase Admin SDK.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender builds a messaging client from service-account credentials.
// Private keys pasted into env files usually carry literal \n sequences;
// those are restored to newlines before use.
func NewFCMSender(ctx context.Context, creds Credentials) (*FCMSender, error) {
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("firebase credentials incomplete: %s", strings.Join(missing, ", "))
	}

	serviceAccount := map[string]string{
		"type":         "service_account",
		"project_id":   creds.ProjectID,
		"client_email": creds.ClientEmail,
		"private_key":  strings.ReplaceAll(creds.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	}
	credJSON, err := json.Marshal(serviceAccount)
	if err != nil {
		return nil, fmt.Errorf("marshal service account: %w", err)
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: creds.ProjectID},
		option.WithCredentialsJSON(credJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg Message) (string, error) {
	id, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return "", fmt.Errorf("send push: %w", err)
	}
	return id, nil
}
