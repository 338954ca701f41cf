package notifier

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pworker3/whispers/internal/model"
)

const (
	stockURLPattern = "https://www.earningswhispers.com/stocks/%s"
	callURLPattern  = "https://files.earningswhispers.com/calls/%s"

	authorName = "Earnings Whispers"
	epsDateFmt = "2006-01-02T15:04:05"
	notAvail   = "N/A"
)

var anchorRe = regexp.MustCompile(`<a href="[^"]*"[^>]*>([^<]*)</a>`)

// Format maps one raw report into a notification payload. Pure: no I/O, the
// input record is not modified.
func Format(r *model.ReportRecord) model.Notification {
	n := model.Notification{
		Title:       fmt.Sprintf("%s (%s)", r.Name, r.Ticker),
		URL:         fmt.Sprintf(stockURLPattern, strings.ToLower(r.Ticker)),
		Author:      authorName,
		Sentiment:   Classify(r.Subject),
		Description: cleanSummary(r.Summary),
		Footer:      r.Subject,
		Timestamp:   parseEpsDate(r.EpsDate),
		Fields: []model.Field{
			{Name: "Estimate", Value: fmtEps(r.Estimate), Inline: true},
			{Name: "Whisper", Value: fmtEps(r.Whisper), Inline: true},
			{Name: "Actual", Value: fmtEps(r.Eps), Inline: true},
			{Name: "EPS Surprise", Value: fmtSurprise(r.EarningsSurprise), Inline: true},
			{Name: "EPS Growth", Value: fmtGrowth(r.PrevEarningsGrowth), Inline: true},
			{Name: "EPS Grade", Value: fmtGrade(r.EpsGrade), Inline: true},
			{Name: "Revenue", Value: fmtMoney(r.Revenue), Inline: true},
			{Name: "Revenue Est", Value: fmtMoney(r.RevenueEstimate), Inline: true},
			{Name: "Revenue Surprise", Value: fmtSurprise(r.RevenueSurprise), Inline: true},
			{Name: "Revenue Growth", Value: fmtGrowth(r.PrevRevenueGrowth), Inline: true},
			{Name: "Revenue Grade", Value: fmtGrade(r.RevGrade), Inline: true},
		},
	}
	if r.FileName != "" {
		call := fmt.Sprintf(callURLPattern, r.FileName)
		if n.Description != "" {
			n.Description += "\n\n"
		}
		n.Description += "Conference call: " + call
	}
	return n
}

// Classify derives the sentiment from the feed's subject line. Substring
// match is case-sensitive and Beat is checked before Missed, so a subject
// carrying both markers counts as positive.
func Classify(subject string) model.Sentiment {
	if strings.Contains(subject, "Beat Expectations") ||
		strings.Contains(subject, "Beat Consensus Estimates") {
		return model.SentimentPositive
	}
	if strings.Contains(subject, "Missed Expectations") ||
		strings.Contains(subject, "Missed Consensus Estimates") {
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

// fmtMoney renders a feed amount denominated in millions. Amounts above 999
// roll over to billions, amounts under 1 down to thousands.
func fmtMoney(m *float64) string {
	if m == nil {
		return notAvail
	}
	switch v := *m; {
	case v > 999:
		return fmt.Sprintf("$%.2fB", v/1000)
	case v >= 1:
		return fmt.Sprintf("$%.2fM", v)
	default:
		return fmt.Sprintf("$%.2fK", v*1000)
	}
}

func fmtEps(v *float64) string {
	if v == nil {
		return notAvail
	}
	return fmt.Sprintf("$%.2f", *v)
}

// fmtSurprise renders a fractional surprise as a percentage, two decimals.
func fmtSurprise(v *float64) string {
	if v == nil {
		return notAvail
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// fmtGrowth renders a fractional growth rate as a percentage, one decimal.
func fmtGrowth(v *float64) string {
	if v == nil {
		return notAvail
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func fmtGrade(g string) string {
	if g == "" {
		return notAvail
	}
	return g
}

// cleanSummary strips the feed's inline markup: <br /> tags become newlines
// and anchors collapse to their bracketed text. Anchor hrefs are dropped; the
// document reference, when present, is surfaced separately via fileName.
func cleanSummary(s string) string {
	s = strings.ReplaceAll(s, "<br />", "\n")
	return anchorRe.ReplaceAllString(s, "[$1]")
}

func parseEpsDate(s string) time.Time {
	t, err := time.Parse(epsDateFmt, s)
	if err != nil {
		return time.Now()
	}
	return t
}
