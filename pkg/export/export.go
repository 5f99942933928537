// Package export renders a session as a plain-text travel plan.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinItineraryLength is the length an assistant message must exceed to be
// exported as the itinerary. Shorter ones are interview questions.
const MinItineraryLength = 100

// Render builds the export document.
func Render(details domain.TravelDetails, messages []domain.Message, now time.Time) string {
	var b strings.Builder
	b.WriteString("Travel Itinerary Plan\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format("2006-01-02 15:04"))

	b.WriteString("Travel Details:\n")
	for _, f := range details.Fields() {
		fmt.Fprintf(&b, "- %s: %s\n", Humanize(f.Key), f.Value)
	}
	b.WriteString("\n---\n\n")

	if plan, ok := Itinerary(messages); ok {
		b.WriteString("Travel Itinerary:\n\n")
		b.WriteString(plan)
	}
	return b.String()
}

// Itinerary returns the longest assistant message over MinItineraryLength
// characters. The first one wins a tie.
func Itinerary(messages []domain.Message) (string, bool) {
	long := lo.Filter(messages, func(m domain.Message, _ int) bool {
		return m.Role == domain.RoleAssistant && utf8.RuneCountInString(m.Content) > MinItineraryLength
	})
	if len(long) == 0 {
		return "", false
	}
	best := lo.MaxBy(long, func(a, b domain.Message) bool {
		return utf8.RuneCountInString(a.Content) > utf8.RuneCountInString(b.Content)
	})
	return best.Content, true
}

// Humanize turns a field key into a title ("daily_budget" -> "Daily Budget").
func Humanize(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// FileName is the suggested name of the export file.
func FileName(now time.Time) string {
	return fmt.Sprintf("travel_plan_%s.txt", now.Format("20060102_150405"))
}
