package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pushoverAPI = "https://api.pushover.net/1/messages.json"

// Priority levels for Pushover
const (
	PriorityLowest    = -2
	PriorityLow       = -1
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

// Notifier sends push notifications
type Notifier struct {
	appToken string
	userKey  string
	enabled  bool
	client   *http.Client
}

// New creates a new Pushover notifier
// If appToken or userKey is empty, notifications are disabled
func New(appToken, userKey string) *Notifier {
	return &Notifier{
		appToken: appToken,
		userKey:  userKey,
		enabled:  appToken != "" && userKey != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a notification with normal priority
func (n *Notifier) Send(title, message string) error {
	return n.SendWithPriority(title, message, PriorityNormal)
}

// SendWithPriority sends a notification with specified priority
func (n *Notifier) SendWithPriority(title, message string, priority int) error {
	if !n.enabled {
		return nil
	}

	data := url.Values{}
	data.Set("token", n.appToken)
	data.Set("user", n.userKey)
	data.Set("title", title)
	data.Set("message", message)
	data.Set("priority", fmt.Sprintf("%d", priority))

	// Emergency priority requires retry and expire parameters
	if priority == PriorityEmergency {
		data.Set("retry", "60")
		data.Set("expire", "3600")
	}

	resp, err := n.client.PostForm(pushoverAPI, data)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifySeedsFound sends a high-priority notification when a solve
// run recovers one or more candidate seeds.
func (n *Notifier) NotifySeedsFound(label string, candidates []string) error {
	title := "🎯 Seed Recovered"
	message := fmt.Sprintf("Transcript: %s\nCandidates: %d\nFirst: %s",
		label, len(candidates), firstOrEmpty(candidates))
	return n.SendWithPriority(title, message, PriorityHigh)
}

// NotifySolveExhausted sends a normal-priority notification when a
// solve run completes with no surviving candidates — every lattice
// point enumerated failed replay validation.
func (n *Notifier) NotifySolveExhausted(label string, enumerated int) error {
	title := "🔍 No Seeds Survived Validation"
	message := fmt.Sprintf("Transcript: %s\nCandidates enumerated: %d", label, enumerated)
	return n.Send(title, message)
}

func firstOrEmpty(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return shortenValue(vs[0])
}

// shortenValue returns a shortened decimal value (12345678...890123)
func shortenValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 16 {
		return v[:8] + "..." + v[len(v)-6:]
	}
	return v
}
