package present

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/bugdash/engine"
)

// NewPrinter returns a printer for the given BCP 47 tag. An unparseable tag
// falls back to English.
func NewPrinter(tag string) *message.Printer {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.English
	}
	return message.NewPrinter(t)
}

// FormatCount renders n with locale grouping: 1234 → "1,234" in English.
func FormatCount(p *message.Printer, n int) string {
	return p.Sprintf("%d", n)
}

// BuildKPIs returns the headline cards in display order: total, one card per
// KPI severity, then distinct domains.
func BuildKPIs(r *engine.Result, p *message.Printer) []KPICard {
	cards := make([]KPICard, 0, len(r.KPIs.BySeverity)+2)
	cards = append(cards, KPICard{Label: "Total Bugs", Value: FormatCount(p, r.KPIs.TotalBugs), Raw: r.KPIs.TotalBugs})
	for _, s := range r.KPIs.BySeverity {
		cards = append(cards, KPICard{Label: s.Severity + " Bugs", Value: FormatCount(p, s.Count), Raw: s.Count})
	}
	cards = append(cards, KPICard{Label: "Bug Domains", Value: FormatCount(p, r.KPIs.Domains), Raw: r.KPIs.Domains})
	return cards
}
