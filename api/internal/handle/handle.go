// Package handle contains the HTTP surface: multipart classify, JSON
// clarify, and the legacy label-list endpoint. Transport concerns only;
// all decisions happen in the rules package.
package handle

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"waste-scan/api/internal/store"
	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/waste"
)

type Handle struct {
	Engine         vision.Engine
	Dropoffs       *store.DropoffRepo // optional
	JurisdictionID string             // default when the request omits one
}

func New(engine vision.Engine, dropoffs *store.DropoffRepo, jurisdictionID string) *Handle {
	return &Handle{
		Engine:         engine,
		Dropoffs:       dropoffs,
		JurisdictionID: jurisdictionID,
	}
}

// ClassifyResponse is the envelope for both classify and clarify answers.
type ClassifyResponse struct {
	RequestID          string                 `json:"request_id"`
	JurisdictionID     string                 `json:"jurisdiction_id"`
	Result             waste.Result           `json:"result"`
	NeedsClarification bool                   `json:"needs_clarification"`
	Clarification      *waste.Clarification   `json:"clarification"`
	SpecialHandling    *waste.SpecialHandling `json:"special_handling"`
}

type errorBody struct {
	RequestID string      `json:"request_id"`
	Error     errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func newRequestID() string {
	u := uuid.New()
	return fmt.Sprintf("req_%x", u[:6])
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, requestID, message string, code int, errType string) {
	writeJSON(w, code, errorBody{
		RequestID: requestID,
		Error:     errorDetail{Message: message, Code: code, Type: errType},
	})
}
