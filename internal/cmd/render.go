package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"request-governor/dashboard"
	"request-governor/governance/domain"
	"request-governor/governance/infra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type loadReport struct {
	Fallback      bool                    `json:"fallback"`
	Error         string                  `json:"error,omitempty"`
	CorrelationID string                  `json:"correlation_id"`
	DurationMS    int64                   `json:"duration_ms"`
	Metrics       dashboard.Metrics       `json:"metrics"`
	Statuses      []dashboard.LinkStatus  `json:"statuses,omitempty"`
	Governance    map[string]kindCounters `json:"governance"`
	Data          *dashboard.Data         `json:"data"`
}

type kindCounters struct {
	OK    int64 `json:"ok"`
	NotOK int64 `json:"not_ok"`
	AvgMS int64 `json:"avg_ms"`
}

func newLoadReport(res dashboard.Result, m dashboard.Metrics, statuses []dashboard.LinkStatus, stats *infra.MemoryStatsStore) loadReport {
	rep := loadReport{
		Fallback:      res.Fallback,
		CorrelationID: res.CorrelationID,
		DurationMS:    res.Duration.Milliseconds(),
		Metrics:       m,
		Statuses:      statuses,
		Governance:    make(map[string]kindCounters),
		Data:          res.Data,
	}
	if res.Err != nil {
		rep.Error = res.Err.Error()
	}
	for kind, c := range stats.ByKind() {
		rep.Governance[string(kind)] = kindCounters{OK: c.OK, NotOK: c.NotOK, AvgMS: c.AvgDuration().Milliseconds()}
	}
	return rep
}

func renderLoadReport(w io.Writer, format string, rep loadReport) error {
	switch format {
	case formatJSON:
		payload, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(payload))
		return err
	case formatTable:
		renderLoadTable(w, rep)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderLoadTable(w io.Writer, rep loadReport) {
	db := rep.Data.Dashboard

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(db.Title)
	t.AppendHeader(table.Row{"Card", "Link", "URL", "Status"})
	for _, card := range db.Cards {
		if len(card.Links) == 0 {
			t.AppendRow(table.Row{card.Title, "-", "-", "-"})
			continue
		}
		for _, link := range card.Links {
			t.AppendRow(table.Row{card.Title, link.Text, link.URL, orDash(link.Status)})
		}
	}
	t.Render()

	if len(db.Stats) > 0 {
		s := table.NewWriter()
		s.SetOutputMirror(w)
		s.SetStyle(table.StyleRounded)
		s.AppendHeader(table.Row{"Stat", "Value"})
		for _, st := range db.Stats {
			s.AppendRow(table.Row{st.Label, st.Number})
		}
		s.Render()
	}

	m := table.NewWriter()
	m.SetOutputMirror(w)
	m.SetStyle(table.StyleRounded)
	m.AppendHeader(table.Row{"Metric", "Value"})
	m.AppendRow(table.Row{"Fallback", rep.Fallback})
	if rep.Error != "" {
		m.AppendRow(table.Row{"Error", rep.Error})
	}
	m.AppendRow(table.Row{"Correlation ID", rep.CorrelationID})
	m.AppendRow(table.Row{"Requests", rep.Metrics.RequestCount})
	m.AppendRow(table.Row{"Errors", rep.Metrics.ErrorCount})
	m.AppendRow(table.Row{"Avg response", rep.Metrics.AvgResponseTime})
	m.AppendSeparator()
	for _, kind := range sortedKeys(rep.Governance) {
		c := rep.Governance[kind]
		ok, notOK := outcomeNames(domain.EventKind(kind))
		m.AppendRow(table.Row{kind, fmt.Sprintf("%s=%d %s=%d", ok, c.OK, notOK, c.NotOK)})
	}
	m.Render()
}

func renderTotals(w io.Writer, format string, totals map[domain.EventKind]map[string]int64) error {
	if format == formatJSON {
		payload, err := json.MarshalIndent(totals, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(payload))
		return err
	}
	if format != formatTable {
		return fmt.Errorf("unsupported output format: %s", format)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Kind", "Field", "Count"})
	kinds := make([]string, 0, len(totals))
	for k := range totals {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fields := totals[domain.EventKind(kind)]
		if len(fields) == 0 {
			t.AppendRow(table.Row{kind, "-", 0})
			continue
		}
		for _, f := range sortedKeys(fields) {
			t.AppendRow(table.Row{kind, f, fields[f]})
		}
	}
	t.Render()
	return nil
}

// outcomeNames devolve os nomes usados pelos stores para OK e não OK.
func outcomeNames(kind domain.EventKind) (string, string) {
	return domain.StatsEvent{Kind: kind, OK: true}.Outcome(), domain.StatsEvent{Kind: kind}.Outcome()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
