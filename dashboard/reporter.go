package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"request-governor/governance/domain"
)

// ErrorReport é o corpo enviado para <base>/api/errors.
type ErrorReport struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ReporterOptions struct {
	// Enabled liga o envio remoto. Desligado, o relatório só vai para o log.
	Enabled bool
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
	Clock   domain.Clock
}

// Reporter registra erros no log e, quando habilitado, envia para o
// endpoint de monitoramento. Falhas de envio são apenas logadas.
type Reporter struct {
	enabled  bool
	endpoint string
	client   *http.Client
	log      *zap.Logger
	clock    domain.Clock
}

func NewReporter(opts ReporterOptions) *Reporter {
	r := &Reporter{
		enabled: opts.Enabled && strings.TrimSpace(opts.BaseURL) != "",
		client:  opts.Client,
		log:     opts.Logger,
		clock:   opts.Clock,
	}
	if r.enabled {
		r.endpoint = strings.TrimRight(opts.BaseURL, "/") + "/api/errors"
	}
	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

func (r *Reporter) Enabled() bool { return r != nil && r.enabled }

// Report monta o relatório e o envia quando habilitado. Nil-safe.
func (r *Reporter) Report(ctx context.Context, typ string, err error) ErrorReport {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	rep := ErrorReport{
		ID:      uuid.NewString(),
		Type:    typ,
		Message: SanitizeInput(msg, 0),
	}
	if r == nil {
		rep.Timestamp = time.Now().UTC()
		return rep
	}
	rep.Timestamp = r.now().UTC()

	r.log.Error("error reported",
		zap.String("report_id", rep.ID),
		zap.String("type", typ),
		zap.String("message", rep.Message),
	)

	if r.enabled {
		if sendErr := r.send(ctx, rep); sendErr != nil {
			r.log.Warn("error report not delivered", zap.String("report_id", rep.ID), zap.Error(sendErr))
		}
	}
	return rep
}

func (r *Reporter) send(ctx context.Context, rep ErrorReport) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("error report rejected: status %d", resp.StatusCode)
	}
	return nil
}

func (r *Reporter) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}
	return r.clock.Now()
}
