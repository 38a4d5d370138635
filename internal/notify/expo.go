package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNoPushTokens = errors.New("no valid push tokens")

// Client delivers push notifications through the Expo push API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type Message struct {
	To                string         `json:"to"`
	Title             string         `json:"title"`
	Body              string         `json:"body"`
	Sound             string         `json:"sound"`
	Priority          string         `json:"priority"`
	ChannelID         string         `json:"channelId"`
	Badge             int            `json:"badge"`
	Vibrate           []int          `json:"vibrate"`
	CategoryID        string         `json:"categoryId,omitempty"`
	InterruptionLevel string         `json:"interruptionLevel,omitempty"`
	Data              map[string]any `json:"data,omitempty"`
}

// ValidToken reports whether token looks like an Expo push token.
func ValidToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

// SendNewOrders pushes a single coalesced "new orders" notification to every
// valid token. totalPaise is converted to rupees only for display.
func (c *Client) SendNewOrders(ctx context.Context, tokens []string, ordersCount int, totalPaise int64, restaurantPhone string) error {
	valid := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" && ValidToken(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return ErrNoPushTokens
	}

	title := "New Orders Received!"
	body := fmt.Sprintf("%d order(s) • ₹%.2f", ordersCount, float64(totalPaise)/100)

	messages := make([]Message, 0, len(valid))
	for _, token := range valid {
		messages = append(messages, Message{
			To:        token,
			Title:     title,
			Body:      body,
			Sound:     "default",
			Priority:  "high",
			ChannelID: "orders",
			Badge:     1,
			Vibrate:   []int{0, 500, 500, 500, 500, 500},
			// Critical alerts bypass Do Not Disturb on iOS.
			CategoryID:        "NEW_ORDER_CRITICAL",
			InterruptionLevel: "critical",
			Data: map[string]any{
				"type":             "new_orders",
				"orders_count":     ordersCount,
				"total_amount":     totalPaise,
				"restaurant_phone": restaurantPhone,
				"action":           "open_orders",
			},
		})
	}
	return c.Send(ctx, messages)
}

func (c *Client) Send(ctx context.Context, messages []Message) error {
	if len(messages) == 0 {
		return ErrNoPushTokens
	}
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return fmt.Errorf("expo push returned %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("expo push returned %d", resp.StatusCode)
	}
	return nil
}
