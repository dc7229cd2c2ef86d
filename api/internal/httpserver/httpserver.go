package httpserver

import (
	"log"
	"net/http"

	"waste-scan/api/internal/handle"
)

// NewMux wires the API routes onto a fresh mux.
func NewMux(h *handle.Handle, healthz http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/v1/classify", h.Classify)
	mux.HandleFunc("/v1/classify/labels", h.ClassifyLabels)
	mux.HandleFunc("/v1/clarify", h.Clarify)
	return mux
}

func Start(addr string, mux http.Handler) error {
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
