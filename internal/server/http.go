package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/stayscout/pkg/buildinfo"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// RequestIDHeader carries the per-request id on responses.
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = 0

// NewHandler returns the HTTP API over src:
//
//	GET /v1/search?location=...
//	GET /v1/stats?location=...
//	GET /v1/listings/{id}
//	GET /v1/listings/{id}/reviews?cursor=...
//	GET /v1/listings/{id}/calendar?months=...
//	GET /v1/listings/{id}/host
//	GET /v1/listings/{id}/occupancy?months=...
//	GET /healthz
func NewHandler(src integrations.Source, logger *log.Logger) http.Handler {
	logger = integrations.DefaultLogger(logger)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			buildinfo.Info
		}{"ok", buildinfo.Get()})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", endpoint(src, listing.OpSearch, logger))
		r.Get("/stats", endpoint(src, listing.OpStats, logger))
		r.Route("/listings/{id}", func(r chi.Router) {
			r.Get("/", endpoint(src, listing.OpDetail, logger))
			r.Get("/reviews", endpoint(src, listing.OpReviews, logger))
			r.Get("/calendar", endpoint(src, listing.OpCalendar, logger))
			r.Get("/host", endpoint(src, listing.OpHost, logger))
			r.Get("/occupancy", endpoint(src, listing.OpOccupancy, logger))
		})
	})
	return r
}

// Serve runs the HTTP API on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, src integrations.Source, logger *log.Logger) error {
	logger = integrations.DefaultLogger(logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(src, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func endpoint(src integrations.Source, op listing.Op, logger *log.Logger) http.HandlerFunc {
	o, _ := Lookup(op)
	return func(w http.ResponseWriter, r *http.Request) {
		args, err := argsFromRequest(r, op)
		if err != nil {
			writeError(w, err)
			return
		}
		rec, err := o.Run(r.Context(), src, args)
		if err != nil {
			logger.Warn("request failed", "op", op, "request_id", RequestID(r.Context()), "code", errors.GetCode(err), "err", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func argsFromRequest(r *http.Request, op listing.Op) (Args, error) {
	q := r.URL.Query()
	a := Args{
		ID:           chi.URLParam(r, "id"),
		Cursor:       q.Get("cursor"),
		Location:     q.Get("location"),
		Checkin:      q.Get("checkin"),
		Checkout:     q.Get("checkout"),
		PropertyType: q.Get("property_type"),
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"months", &a.Months},
		{"adults", &a.Adults},
		{"children", &a.Children},
		{"infants", &a.Infants},
		{"pets", &a.Pets},
		{"min_price", &a.MinPrice},
		{"max_price", &a.MaxPrice},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return a, errors.Validation(string(op), "%s must be a non-negative integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return a, nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)

	var e *errors.Error
	if goerrors.As(err, &e) && e.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(e.RetryAfter.Seconds())))
	}
	writeJSON(w, statusFor(body.Error.Code), body)
}

// statusFor maps an error code onto the HTTP status returned to callers.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTransport:
		return http.StatusGatewayTimeout
	case errors.ErrCodeAuth, errors.ErrCodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID assigns each request a UUID, reusing the caller's id when one
// is supplied.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func accessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"took", time.Since(start).Round(time.Millisecond),
				"request_id", RequestID(r.Context()),
			)
		})
	}
}
