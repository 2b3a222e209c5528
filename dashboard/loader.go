package dashboard

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"request-governor/governance"
	"request-governor/governance/domain"
	"request-governor/governance/infra"
)

const (
	CacheKey = "dashboard-data"

	OpInit     domain.Key = "init"
	OpDataLoad domain.Key = "data-load"

	DefaultRequestTimeout = 10 * time.Second

	// EventLoad conta cada chamada de Load, inclusive as que caem no fallback.
	EventLoad domain.EventKind = "load"

	maxBodyBytes = 10 << 20
)

var ErrInitRateLimited = errors.New("rate limit exceeded for initialization")

type LoaderOptions struct {
	// URL absoluto (http/https) do dashboard-data.json.
	URL            string
	Client         *http.Client
	RequestTimeout time.Duration
	MaxInputLen    int
	Reporter       *Reporter
	// Stats recebe também os eventos de carga (ex.: Redis). Opcional.
	Stats  domain.StatsStore
	Logger *zap.Logger
	Clock  domain.Clock
}

// Result descreve uma carga. Data nunca é nil: em falha vem o fallback.
type Result struct {
	Data          *Data
	Fallback      bool
	Err           error
	CorrelationID string
	Duration      time.Duration
}

// Metrics resume as cargas feitas por um Loader.
type Metrics struct {
	RequestCount    int64         `json:"request_count"`
	ErrorCount      int64         `json:"error_count"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
}

// Loader busca os dados do painel pelo pipeline cache -> rate limit -> throttle
// do Governor e guarda a versão atual em memória.
type Loader struct {
	gov      *governance.Governor[*Data]
	client   *http.Client
	url      string
	timeout  time.Duration
	maxLen   int
	csrf     string
	reporter *Reporter
	metrics  *infra.MemoryStatsStore
	sink     domain.StatsStore
	log      *zap.Logger
	clock    domain.Clock

	mu      sync.RWMutex
	current *Data
}

func NewLoader(gov *governance.Governor[*Data], opts LoaderOptions) (*Loader, error) {
	if gov == nil {
		return nil, errors.New("governor is required")
	}
	u, err := url.Parse(opts.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid data url %q", opts.URL)
	}

	token, err := newCSRFToken()
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}

	l := &Loader{
		gov:      gov,
		client:   opts.Client,
		url:      opts.URL,
		timeout:  opts.RequestTimeout,
		maxLen:   opts.MaxInputLen,
		csrf:     token,
		reporter: opts.Reporter,
		metrics:  infra.NewMemoryStatsStore(),
		sink:     opts.Stats,
		log:      opts.Logger,
		clock:    opts.Clock,
	}
	if l.client == nil {
		l.client = http.DefaultClient
	}
	if l.timeout <= 0 {
		l.timeout = DefaultRequestTimeout
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l, nil
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (l *Loader) CSRFToken() string { return l.csrf }

// Init consome uma admissão da operação "init" antes da carga.
// Negado, reporta initialization_failure e devolve o fallback.
func (l *Loader) Init(ctx context.Context) Result {
	if !l.gov.TryAcquire(ctx, OpInit) {
		cid := uuid.NewString()
		l.log.Error("dashboard init failed", zap.String("correlation_id", cid), zap.Error(ErrInitRateLimited))
		l.reporter.Report(ctx, "initialization_failure", ErrInitRateLimited)
		l.record(ctx, false, 0)
		return l.fallback(ErrInitRateLimited, cid, 0)
	}
	return l.Load(ctx)
}

// Load busca os dados (ou devolve o cache). Qualquer falha, inclusive rate
// limit, resulta no fallback com Result.Fallback = true.
func (l *Loader) Load(ctx context.Context) Result {
	cid := uuid.NewString()
	log := l.log.With(zap.String("correlation_id", cid))
	start := l.now()

	data, err := l.gov.Fetch(ctx, CacheKey, OpDataLoad, func(ctx context.Context) (*Data, error) {
		return l.fetch(ctx, cid)
	})
	elapsed := l.now().Sub(start)
	l.record(ctx, err == nil, elapsed)

	if err != nil {
		log.Error("error loading dashboard data", zap.Error(err))
		l.reporter.Report(ctx, "data_load_failure", err)
		log.Warn("using fallback dashboard data")
		return l.fallback(err, cid, elapsed)
	}

	data = data.Clone()
	l.mu.Lock()
	carryStatuses(l.current, data)
	l.current = data
	l.mu.Unlock()
	log.Info("dashboard data loaded", zap.Duration("duration", elapsed))
	return Result{Data: data.Clone(), CorrelationID: cid, Duration: elapsed}
}

func (l *Loader) fetch(ctx context.Context, cid string) (*Data, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-Token", l.csrf)
	req.Header.Set("X-Correlation-ID", cid)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("http error: status %d", resp.StatusCode)
	}

	var d Data
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dashboard data: %w", err)
	}
	if err := Validate(&d, l.maxLen); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *Loader) fallback(err error, cid string, d time.Duration) Result {
	data := FallbackData()
	l.setCurrent(data)
	return Result{Data: data.Clone(), Fallback: true, Err: err, CorrelationID: cid, Duration: d}
}

func (l *Loader) record(ctx context.Context, ok bool, d time.Duration) {
	ev := domain.StatsEvent{Kind: EventLoad, Key: OpDataLoad, OK: ok, Duration: d, At: l.now()}
	_ = l.metrics.Record(ctx, ev)
	if l.sink == nil {
		return
	}
	if err := l.sink.Record(ctx, ev); err != nil {
		l.log.Debug("stats record failed", zap.String("kind", string(EventLoad)), zap.Error(err))
	}
}

func (l *Loader) Metrics() Metrics {
	c := l.metrics.Kind(EventLoad)
	return Metrics{
		RequestCount:    c.OK + c.NotOK,
		ErrorCount:      c.NotOK,
		AvgResponseTime: c.AvgDuration(),
	}
}

// Current devolve uma cópia dos dados atuais (nil antes da primeira carga).
func (l *Loader) Current() *Data {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current.Clone()
}

func (l *Loader) setCurrent(d *Data) {
	l.mu.Lock()
	l.current = d
	l.mu.Unlock()
}

// carryStatuses mantém o último status conhecido dos links que continuam
// presentes, já que o valor em cache não recebe as checagens.
func carryStatuses(prev, next *Data) {
	known := make(map[string]string)
	prev.Links(func(card *Card, link *Link) {
		if link.Status != "" {
			known[card.ID+"\x00"+link.URL] = link.Status
		}
	})
	next.Links(func(card *Card, link *Link) {
		if st, ok := known[card.ID+"\x00"+link.URL]; ok && link.Status == "" {
			link.Status = st
		}
	})
}

// SetLinkStatus atualiza o status dos links com essa URL no card indicado.
func (l *Loader) SetLinkStatus(cardID, linkURL, status string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	found := false
	l.current.Links(func(card *Card, link *Link) {
		if card.ID == cardID && link.URL == linkURL {
			link.Status = status
			found = true
		}
	})
	return found
}

func (l *Loader) now() time.Time {
	if l.clock == nil {
		return time.Now()
	}
	return l.clock.Now()
}
