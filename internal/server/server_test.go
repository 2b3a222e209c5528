package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"request-governor/dashboard"
	"request-governor/governance"
)

func TestServer_Routes(t *testing.T) {
	s := New(Options{Data: SampleData("http://localhost:8081")})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard-data.json")
	require.NoError(t, err)
	var d dashboard.Data
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	resp.Body.Close()
	require.Equal(t, "Example Dashboard", d.Dashboard.Title)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, err = http.Head(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := json.Marshal(dashboard.ErrorReport{ID: "r1", Type: "data_load_failure", Message: "x", Timestamp: time.Now()})
	resp, err = http.Post(srv.URL+"/api/errors", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, int64(1), s.Reports())

	resp, err = http.Post(srv.URL+"/api/errors", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_RateLimited(t *testing.T) {
	s := New(Options{RateLimit: RateLimitOptions{Limits: newLimits(time.Minute, 1)}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard-data.json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/dashboard-data.json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

// O loader do dashboard consome o servidor de exemplo de ponta a ponta,
// incluindo a checagem de status do próprio servidor.
func TestServer_ServesDashboardLoader(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	s := New(Options{Data: SampleData(localhost(base))})
	srv := &httptest.Server{Listener: ln, Config: &http.Server{Handler: s.Handler()}}
	srv.Start()
	defer srv.Close()

	g, err := governance.New[*dashboard.Data](governance.Options{})
	require.NoError(t, err)
	rep := dashboard.NewReporter(dashboard.ReporterOptions{Enabled: true, BaseURL: base})
	l, err := dashboard.NewLoader(g, dashboard.LoaderOptions{URL: base + "/dashboard-data.json", Reporter: rep})
	require.NoError(t, err)

	res := l.Init(context.Background())
	require.False(t, res.Fallback)
	require.Equal(t, "Example Dashboard", res.Data.Dashboard.Title)

	m := dashboard.NewStatusMonitor(l, dashboard.StatusMonitorOptions{
		Client: &http.Client{Transport: g.Transport(nil, governance.StaticOperation(dashboard.OpStatusCheck))},
	})
	got := m.CheckOnce(context.Background())
	require.Len(t, got, 1)
	require.Equal(t, dashboard.StatusOnline, got[0].Status)

	rep.Report(context.Background(), "test", nil)
	require.Equal(t, int64(1), s.Reports())
}

func TestLoadDataFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"dashboard":{"title":"From file","cards":[]}}`), 0o600))
	d, err := LoadDataFile(good)
	require.NoError(t, err)
	require.Equal(t, "From file", d.Dashboard.Title)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{}`), 0o600))
	_, err = LoadDataFile(bad)
	require.ErrorIs(t, err, dashboard.ErrInvalidData)

	_, err = LoadDataFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func localhost(u string) string {
	return "http://localhost" + u[len("http://127.0.0.1"):]
}
