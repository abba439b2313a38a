package health

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// LivenessHandler answers 200 while the process can serve HTTP at all.
// The body is empty unless the client asks for JSON.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &Report{Status: StatusHealthy})
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// ReadinessHandler runs checks on every request and answers 200 "OK" or
// 503 "Service Unavailable", or the full Report as JSON on request.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	rn := newRunner(checks, opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		report := rn.run(r.Context())

		code := http.StatusOK
		if !report.Healthy() {
			code = http.StatusServiceUnavailable
		}
		if wantsJSON(r) {
			writeJSON(w, code, report)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		if report.Healthy() {
			_, _ = io.WriteString(w, "OK")
			return
		}
		_, _ = io.WriteString(w, http.StatusText(code))
	}
}

// wantsJSON honours ?format=json as well as the Accept header.
func wantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == "json" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
