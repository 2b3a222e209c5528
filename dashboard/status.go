package dashboard

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"request-governor/governance/domain"
)

const (
	OpStatusCheck domain.Key = "status-check"

	DefaultStatusInterval = 5 * time.Minute
	DefaultStatusTimeout  = 5 * time.Second

	localServicePrefix = "http://localhost"
)

type StatusMonitorOptions struct {
	// Client deve usar o transport governado (operação status-check).
	Client   *http.Client
	Interval time.Duration
	Timeout  time.Duration
	Logger   *zap.Logger
}

// StatusMonitor checa periodicamente os links externos que apontam para
// serviços locais e grava o resultado nos dados atuais do Loader.
type StatusMonitor struct {
	loader   *Loader
	client   *http.Client
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

func NewStatusMonitor(loader *Loader, opts StatusMonitorOptions) *StatusMonitor {
	m := &StatusMonitor{
		loader:   loader,
		client:   opts.Client,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		log:      opts.Logger,
	}
	if m.client == nil {
		m.client = http.DefaultClient
	}
	if m.interval <= 0 {
		m.interval = DefaultStatusInterval
	}
	if m.timeout <= 0 {
		m.timeout = DefaultStatusTimeout
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

func (m *StatusMonitor) Interval() time.Duration { return m.interval }

// LinkStatus é o resultado de uma checagem.
type LinkStatus struct {
	CardID string `json:"card_id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// CheckOnce checa os links elegíveis em sequência.
func (m *StatusMonitor) CheckOnce(ctx context.Context) []LinkStatus {
	type target struct{ cardID, url string }
	var targets []target
	m.loader.Current().Links(func(card *Card, link *Link) {
		if link.External && strings.HasPrefix(link.URL, localServicePrefix) {
			targets = append(targets, target{card.ID, link.URL})
		}
	})

	out := make([]LinkStatus, 0, len(targets))
	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		st := CheckHealth(ctx, m.client, t.url, m.timeout)
		m.loader.SetLinkStatus(t.cardID, t.url, st)
		m.log.Debug("service status", zap.String("card", t.cardID), zap.String("url", t.url), zap.String("status", st))
		out = append(out, LinkStatus{CardID: t.cardID, URL: t.url, Status: st})
	}
	return out
}

// Run chama CheckOnce a cada intervalo até o ctx ser cancelado.
func (m *StatusMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckOnce(ctx)
		}
	}
}

// CheckHealth faz um HEAD com timeout. Qualquer resposta conta como online,
// independente do status HTTP.
func CheckHealth(ctx context.Context, client *http.Client, target string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return StatusOffline
	}
	resp, err := client.Do(req)
	if err != nil {
		return StatusOffline
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return StatusOnline
}
