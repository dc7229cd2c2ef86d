package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"waste-scan/api/internal/imaging"
	"waste-scan/api/internal/rules"
	"waste-scan/api/internal/waste"
)

const maxUploadBytes = 8 << 20 // 8 MiB

// Classify accepts a multipart upload (image + jurisdiction_id), runs the
// vision provider and the profile decision engine, and returns the full
// decision envelope.
func (h *Handle) Classify(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()
	if r.Method != http.MethodPost {
		writeError(w, requestID, "POST only", http.StatusMethodNotAllowed, "http_error")
		return
	}

	// Parse bound: upload limit plus a little form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, requestID,
				fmt.Sprintf("File too large. Max %d MB.", maxUploadBytes>>20),
				http.StatusRequestEntityTooLarge, "http_error")
			return
		}
		writeError(w, requestID, "bad multipart form: "+err.Error(), http.StatusBadRequest, "validation_error")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, requestID, "missing image file", http.StatusBadRequest, "validation_error")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !imaging.Allowed(contentType) {
		writeError(w, requestID,
			fmt.Sprintf("Unsupported media type: %s. Use JPG or PNG.", contentType),
			http.StatusUnsupportedMediaType, "http_error")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, requestID, "read upload: "+err.Error(), http.StatusBadRequest, "validation_error")
		return
	}
	if len(raw) > maxUploadBytes {
		writeError(w, requestID,
			fmt.Sprintf("File too large. Max %d MB.", maxUploadBytes>>20),
			http.StatusRequestEntityTooLarge, "http_error")
		return
	}

	normalized, err := imaging.NormalizeJPEG(raw)
	if err != nil {
		writeError(w, requestID, err.Error(), http.StatusBadRequest, "validation_error")
		return
	}

	jurisdictionID := r.FormValue("jurisdiction_id")
	if jurisdictionID == "" {
		jurisdictionID = h.JurisdictionID
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r))
	defer cancel()

	profile, err := h.Engine.DetectItemProfile(ctx, normalized, "image/jpeg")
	if err != nil {
		writeError(w, requestID, "Vision provider error: "+err.Error(), http.StatusBadGateway, "provider_error")
		return
	}

	d := rules.DecideProfile(profile, jurisdictionID)
	h.attachDropoffLinks(ctx, jurisdictionID, d.SpecialHandling)

	writeJSON(w, http.StatusOK, ClassifyResponse{
		RequestID:          requestID,
		JurisdictionID:     jurisdictionID,
		Result:             d.Result,
		NeedsClarification: d.NeedsClarification,
		Clarification:      d.Clarification,
		SpecialHandling:    d.SpecialHandling,
	})
}

// ClassifyLabelsRequest is the legacy contract: callers that already have a
// ranked label list post it directly.
type ClassifyLabelsRequest struct {
	JurisdictionID string             `json:"jurisdiction_id"`
	Labels         []waste.LabelScore `json:"labels"`
}

// ClassifyLabels serves older integrations on the label-list engine. The
// behavior is frozen; new clients use Classify.
func (h *Handle) ClassifyLabels(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()
	if r.Method != http.MethodPost {
		writeError(w, requestID, "POST only", http.StatusMethodNotAllowed, "http_error")
		return
	}
	var req ClassifyLabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, "bad json: "+err.Error(), http.StatusBadRequest, "validation_error")
		return
	}
	if req.JurisdictionID == "" {
		req.JurisdictionID = h.JurisdictionID
	}

	d := rules.DecideLabels(req.Labels, req.JurisdictionID)
	h.attachDropoffLinks(r.Context(), req.JurisdictionID, d.SpecialHandling)

	writeJSON(w, http.StatusOK, ClassifyResponse{
		RequestID:          requestID,
		JurisdictionID:     req.JurisdictionID,
		Result:             d.Result,
		NeedsClarification: d.NeedsClarification,
		Clarification:      d.Clarification,
		SpecialHandling:    d.SpecialHandling,
	})
}

// attachDropoffLinks fills links from the directory when one is configured.
// Lookup failures only log; the decision always goes out.
func (h *Handle) attachDropoffLinks(ctx context.Context, jurisdictionID string, sh *waste.SpecialHandling) {
	if sh == nil || h.Dropoffs == nil {
		return
	}
	links, err := h.Dropoffs.Links(ctx, jurisdictionID, string(sh.Category))
	if err != nil {
		log.Printf("dropoff links lookup failed: %v", err)
		return
	}
	if len(links) > 0 {
		sh.Links = links
	}
}

func requestDeadline(r *http.Request) time.Duration {
	deadline := 60 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return deadline
}
