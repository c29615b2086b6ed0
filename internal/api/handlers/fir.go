// HTTP handlers for FIR record management.
// POST /api/v1/fir files a record; GET /api/v1/fir lists them.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/legal"
)

// FIRHandler handles FIR record HTTP requests.
type FIRHandler struct {
	firService *legal.FIRService
}

// NewFIRHandler creates an FIRHandler.
func NewFIRHandler(svc *legal.FIRService) *FIRHandler {
	return &FIRHandler{firService: svc}
}

// createFIRRequest is the JSON request body for POST /api/v1/fir.
type createFIRRequest struct {
	FIRNumber          string `json:"fir_number,omitempty"`
	IncidentType       string `json:"incident_type"`
	IncidentDesc       string `json:"incident_description"`
	IncidentLocation   string `json:"incident_location"`
	AccusedDescription string `json:"accused_description,omitempty"`
	ModusOperandi      string `json:"modus_operandi,omitempty"`
	Status             string `json:"status,omitempty"`
}

// Create handles POST /api/v1/fir.
func (h *FIRHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFIRRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IncidentDesc == "" {
		writeError(w, http.StatusBadRequest, "incident_description is required")
		return
	}

	rec, err := h.firService.Create(r.Context(), legal.CreateFIRInput{
		FIRNumber:          req.FIRNumber,
		IncidentType:       req.IncidentType,
		IncidentDesc:       req.IncidentDesc,
		IncidentLocation:   req.IncidentLocation,
		AccusedDescription: req.AccusedDescription,
		ModusOperandi:      req.ModusOperandi,
		Status:             req.Status,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to file FIR record")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// List handles GET /api/v1/fir.
func (h *FIRHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.firService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list FIR records")
		return
	}
	if records == nil {
		records = []*legal.FIRRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
