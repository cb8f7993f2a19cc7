package web

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"

	"golang.org/x/text/message"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/present"
)

// filterSignals is the datastar signal shape sent by the filter form.
type filterSignals struct {
	Severities []string `json:"severities"`
	Domains    []string `json:"domains"`
}

func (f filterSignals) selection() engine.Selection {
	sel := engine.Selection{Severities: f.Severities, Domains: f.Domains}
	if sel.Severities == nil {
		sel.Severities = []string{}
	}
	if sel.Domains == nil {
		sel.Domains = []string{}
	}
	return sel
}

func signalsFor(sel engine.Selection) filterSignals {
	return filterSignals{Severities: sel.Severities, Domains: sel.Domains}
}

// sameSelection reports whether a and b hold the same values, in any order.
func sameSelection(a, b engine.Selection) bool {
	return sameValues(a.Severities, b.Severities) && sameValues(a.Domains, b.Domains)
}

func sameValues(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// missingLabel is shown for the empty value of a filter field.
const missingLabel = "(missing)"

// pageView is the data behind the full page.
type pageView struct {
	Title       string
	Description string
	Signals     string
	Options     []optionGroup
	Dashboard   dashboardView
	Report      present.Report
}

type optionGroup struct {
	Label  string
	Signal string
	Values []optionValue
}

type optionValue struct {
	Value   string
	Label   string
	Checked bool
}

// dashboardView is the data behind the #dashboard fragment.
type dashboardView struct {
	KPIs     []present.KPICard
	Charts   []chartView
	Tables   []*present.TableData
	Empty    bool
	Selected string
	Total    string
}

type chartView struct {
	Name    string
	Title   string
	Caption string
	URL     string
}

func buildPageView(r *engine.Result, palette string, p *message.Printer) (pageView, error) {
	signals, err := json.Marshal(signalsFor(r.Selection))
	if err != nil {
		return pageView{}, err
	}
	return pageView{
		Title:       present.DashboardTitle,
		Description: present.DashboardDescription,
		Signals:     string(signals),
		Options: []optionGroup{
			optionsFor("Select Severity Level", "severities", r.Options.Severities, r.Selection.Severities),
			optionsFor("Select Bug Domain", "domains", r.Options.Domains, r.Selection.Domains),
		},
		Dashboard: buildDashboardView(r, palette, p),
		Report:    present.BuildReport(r.TotalRows, p),
	}, nil
}

func optionsFor(label, signal string, all, selected []string) optionGroup {
	g := optionGroup{Label: label, Signal: signal, Values: make([]optionValue, len(all))}
	for i, v := range all {
		label := v
		if v == "" {
			label = missingLabel
		}
		g.Values[i] = optionValue{Value: v, Label: label, Checked: slices.Contains(selected, v)}
	}
	return g
}

func buildDashboardView(r *engine.Result, palette string, p *message.Printer) dashboardView {
	version := selectionVersion(r.Selection)
	charts := make([]chartView, 0, len(present.ChartNames))
	for _, name := range present.ChartNames {
		cfg, _ := present.DashboardChart(name, r, palette)
		charts = append(charts, chartView{
			Name:    name,
			Title:   cfg.Title,
			Caption: present.Captions[name],
			URL:     fmt.Sprintf("/charts/%s.svg?v=%s", name, version),
		})
	}

	return dashboardView{
		KPIs:   present.BuildKPIs(r, p),
		Charts: charts,
		Tables: []*present.TableData{
			present.BuildFrequencyTable("Most Common Bug Categories", "Bug Category", r.TopCategories, p),
			present.BuildFrequencyTable("Bug Severity Distribution", "Severity", r.SeverityDistribution, p),
			present.BuildCrossTabTable("Bug Severity by Environment", r.EnvironmentSeverity, p),
		},
		Empty:    r.KPIs.TotalBugs == 0,
		Selected: present.FormatCount(p, r.KPIs.TotalBugs),
		Total:    present.FormatCount(p, r.TotalRows),
	}
}

// selectionVersion changes whenever the selection does, so chart image URLs
// are refetched after a filter change.
func selectionVersion(sel engine.Selection) string {
	h := fnv.New32a()
	data, _ := json.Marshal(sel)
	_, _ = h.Write(data)
	return fmt.Sprintf("%08x", h.Sum32())
}
