package handle

import (
	"encoding/json"
	"net/http"

	"waste-scan/api/internal/rules"
	"waste-scan/api/internal/waste"
)

// ClarifyRequest echoes back the question id from a previous classify
// response plus the user's answer. top_labels is optional context the
// client carries across the round trip; the server holds no session.
type ClarifyRequest struct {
	RequestID  string             `json:"request_id"`
	QuestionID string             `json:"question_id"`
	Answer     bool               `json:"answer"`
	TopLabels  []waste.LabelScore `json:"top_labels"`
}

// Clarify resolves a previously asked yes/no question into a final bin.
// Never asks a follow-up.
func (h *Handle) Clarify(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()
	if r.Method != http.MethodPost {
		writeError(w, requestID, "POST only", http.StatusMethodNotAllowed, "http_error")
		return
	}
	var req ClarifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, requestID, "bad json: "+err.Error(), http.StatusBadRequest, "validation_error")
		return
	}
	if req.RequestID != "" {
		requestID = req.RequestID
	}

	result := rules.ApplyClarification(req.QuestionID, req.Answer, req.TopLabels)

	writeJSON(w, http.StatusOK, ClassifyResponse{
		RequestID:          requestID,
		JurisdictionID:     h.JurisdictionID,
		Result:             result,
		NeedsClarification: false,
		Clarification:      nil,
		SpecialHandling:    nil,
	})
}
