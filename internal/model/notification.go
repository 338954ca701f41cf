package model

import "time"

// Sentiment classifies a report by how the company did against expectations.
type Sentiment int

const (
	SentimentNeutral Sentiment = iota
	SentimentPositive
	SentimentNegative
)

func (s Sentiment) String() string {
	switch s {
	case SentimentPositive:
		return "POSITIVE"
	case SentimentNegative:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// Field is one labeled value in a notification.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Notification is the formatted payload for one report. It is derived from a
// ReportRecord, sent once, and never persisted.
type Notification struct {
	Title       string
	URL         string
	Author      string
	Sentiment   Sentiment
	Fields      []Field
	Description string
	Footer      string
	Timestamp   time.Time
}
