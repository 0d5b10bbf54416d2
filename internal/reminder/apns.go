package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"
)

// TokenLoader resolves the device tokens a user's reminders should be
// pushed to.
type TokenLoader interface {
	DeviceTokens(ctx context.Context, userID string) ([]string, error)
}

// APNSNotifier delivers fired reminders as APNs pushes. With a nil client
// (no credentials configured) it runs in mock mode and only logs, which
// keeps local development working without an Apple developer account.
type APNSNotifier struct {
	client *apns2.Client
	topic  string
	tokens TokenLoader
}

// NewAPNSNotifierFromEnv builds a notifier from the APNS_* environment
// variables. Missing credentials are not an error; the notifier comes up in
// mock mode.
func NewAPNSNotifierFromEnv(tokens TokenLoader) (*APNSNotifier, error) {
	n := &APNSNotifier{
		topic:  os.Getenv("APNS_TOPIC"),
		tokens: tokens,
	}

	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")
	if authKeyPath == "" || keyID == "" || teamID == "" {
		slog.Info("APNs credentials not configured, reminder delivery runs in mock mode")
		return n, nil
	}

	authKey, err := token.AuthKeyFromFile(authKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading APNs auth key: %w", err)
	}
	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}

	if os.Getenv("APNS_MODE") == "production" {
		n.client = apns2.NewTokenClient(authToken).Production()
	} else {
		n.client = apns2.NewTokenClient(authToken).Development()
	}
	return n, nil
}

type apsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type apsPayload struct {
	APS struct {
		Alert apsAlert `json:"alert"`
		Sound string   `json:"sound"`
	} `json:"aps"`
}

func (n *APNSNotifier) Notify(p Payload) {
	tokens, err := n.tokens.DeviceTokens(context.Background(), p.UserID)
	if err != nil {
		slog.Error("Failed to load device tokens", "user_id", p.UserID, "error", err)
		return
	}
	if len(tokens) == 0 {
		slog.Info("No device tokens registered, reminder dropped", "user_id", p.UserID)
		return
	}

	var body apsPayload
	body.APS.Alert = apsAlert{Title: p.Title, Body: p.Message}
	body.APS.Sound = "default"
	payload, err := json.Marshal(body)
	if err != nil {
		slog.Error("Failed to marshal APNs payload", "error", err)
		return
	}

	for _, deviceToken := range tokens {
		if n.client == nil {
			slog.Info("Mock push", "device_token", deviceToken, "title", p.Title, "message", p.Message)
			continue
		}

		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       n.topic,
			Payload:     payload,
		}
		res, err := n.client.Push(notification)
		if err != nil {
			slog.Error("Failed to send push notification", "device_token", deviceToken, "error", err)
			continue
		}
		if res.Sent() {
			slog.Info("Push notification sent", "apns_id", res.ApnsID)
		} else {
			slog.Error("Push notification rejected", "reason", res.Reason)
		}
	}
}
