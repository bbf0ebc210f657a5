package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/rates/internal/rates"
	"github.com/tournevent/rates/pkg/postalcode"
	"github.com/tournevent/rates/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 8 << 10
)

// RateService is the subset of rates.Service the HTTP layer depends on.
type RateService interface {
	CalculateRates(ctx context.Context, req rates.Request) (*shipper.RateQuoteResult, error)
	ResolvePostalCode(ctx context.Context, code string) (shipper.PostalAddress, error)
}

// Server is the HTTP server for the rates service.
type Server struct {
	port     int
	service  RateService
	logger   *otelzap.Logger
	gatherer prometheus.Gatherer
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance. Metrics are exposed from gatherer,
// or from the default registry when gatherer is nil.
func New(cfg Config, service RateService, logger *otelzap.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		port:     cfg.Port,
		service:  service,
		logger:   logger,
		gatherer: gatherer,
	}
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/postal-code/{code}", s.handlePostalCode)
	r.Post("/shipping/rates", s.handleShippingRates)
	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handlePostalCode(w http.ResponseWriter, r *http.Request) {
	addr, err := s.service.ResolvePostalCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

// shippingRatesRequest is the body of POST /shipping/rates. Omitted package
// fields take the service defaults.
type shippingRatesRequest struct {
	OriginCode      string  `json:"originCode"`
	DestinationCode string  `json:"destinationCode"`
	WeightGrams     float64 `json:"weightGrams,omitempty"`
	LengthCm        float64 `json:"lengthCm,omitempty"`
	HeightCm        float64 `json:"heightCm,omitempty"`
	WidthCm         float64 `json:"widthCm,omitempty"`
}

func (s *Server) handleShippingRates(w http.ResponseWriter, r *http.Request) {
	var body shippingRatesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorJSON(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeErrorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := s.service.CalculateRates(r.Context(), rates.Request{
		OriginCode:      body.OriginCode,
		DestinationCode: body.DestinationCode,
		Package: shipper.PackageSpec{
			WeightGrams: body.WeightGrams,
			LengthCm:    body.LengthCm,
			HeightCm:    body.HeightCm,
			WidthCm:     body.WidthCm,
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps a service error to its HTTP status and public message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, postalcode.ErrInvalidPostalCode):
		return http.StatusBadRequest, "invalid code"
	case errors.Is(err, postalcode.ErrPostalCodeNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, shipper.ErrInvalidPackage), errors.Is(err, shipper.ErrInternalComputation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, postalcode.ErrPostalCodeLookup):
		return http.StatusBadGateway, "postal code lookup failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Ctx(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeErrorJSON(w, status, message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestIDMiddleware propagates X-Request-ID from the request, generating a
// UUID when absent.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, rid)
		r.Header.Set(requestIDHeader, rid)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Ctx(r.Context()).Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get(requestIDHeader)),
		)
	})
}
