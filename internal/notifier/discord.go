package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pworker3/whispers/internal/model"
)

// Embed colors per sentiment.
const (
	colorPositive = 0x2ECC71
	colorNegative = 0xE74C3C
	colorNeutral  = 0x95A5A6
)

// DiscordNotifier sends notifications to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a notifier with optional proxy support.
func NewDiscordNotifier(webhookURL, proxyURL string) *DiscordNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

type embedAuthor struct {
	Name string `json:"name"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Author      embedAuthor  `json:"author"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Description string       `json:"description,omitempty"`
	Footer      embedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

type webhookPayload struct {
	Embeds          []embed `json:"embeds"`
	AllowedMentions struct {
		Parse []string `json:"parse"`
	} `json:"allowed_mentions"`
}

// Send posts one notification as a Discord embed. All recipient mentions are
// suppressed via allowed_mentions.
func (d *DiscordNotifier) Send(n model.Notification) error {
	e := embed{
		Title:       n.Title,
		URL:         n.URL,
		Author:      embedAuthor{Name: n.Author},
		Color:       sentimentColor(n.Sentiment),
		Description: n.Description,
		Footer:      embedFooter{Text: n.Footer},
		Timestamp:   n.Timestamp.UTC().Format(time.RFC3339),
	}
	for _, f := range n.Fields {
		e.Fields = append(e.Fields, embedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	payload := webhookPayload{Embeds: []embed{e}}
	payload.AllowedMentions.Parse = []string{}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error: status %d, body: %.200s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases idle connections to the webhook host.
func (d *DiscordNotifier) Close() {
	d.client.CloseIdleConnections()
}

func sentimentColor(s model.Sentiment) int {
	switch s {
	case model.SentimentPositive:
		return colorPositive
	case model.SentimentNegative:
		return colorNegative
	default:
		return colorNeutral
	}
}
