package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"request-governor/dashboard"
)

const maxReportBytes = 64 << 10

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.data); err != nil {
		s.log.Warn("write dashboard data", zap.Error(err))
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, "ok\n")
	}
}

func (s *Server) handleErrorReport(w http.ResponseWriter, r *http.Request) {
	var rep dashboard.ErrorReport
	if err := json.NewDecoder(io.LimitReader(r.Body, maxReportBytes)).Decode(&rep); err != nil {
		http.Error(w, "invalid error report", http.StatusBadRequest)
		return
	}

	s.log.Warn("client error report",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("report_id", rep.ID),
		zap.String("type", dashboard.SanitizeInput(rep.Type, 0)),
		zap.String("message", dashboard.SanitizeInput(rep.Message, 0)),
		zap.Time("reported_at", rep.Timestamp),
	)
	s.reports.Add(1)
	w.WriteHeader(http.StatusAccepted)
}
