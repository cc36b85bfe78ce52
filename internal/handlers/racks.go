package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/yardpoint/pipeyardgo/internal/middleware"
	"github.com/yardpoint/pipeyardgo/internal/notify"
	"github.com/yardpoint/pipeyardgo/internal/printer"
)

// listRacks returns the racks in a yard area
func (r *Router) listRacks(w http.ResponseWriter, req *http.Request) {
	areaID := req.URL.Query().Get("area")
	if areaID == "" {
		respondError(w, http.StatusBadRequest, "area query parameter required")
		return
	}
	racks, err := r.yard.ListRacksByArea(req.Context(), areaID)
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, racks)
}

// getRack returns a single rack
func (r *Router) getRack(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	rack, err := r.yard.GetRack(req.Context(), vars["code"])
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rack)
}

type adjustRackRequest struct {
	NewOccupiedJoints int             `json:"new_occupied_joints" validate:"min=0"`
	NewOccupiedLength decimal.Decimal `json:"new_occupied_length_m"`
	Justification     string          `json:"justification" validate:"required"`
}

// adjustRack applies an audited manual occupancy correction
func (r *Router) adjustRack(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)

	var body adjustRackRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := r.yard.AdjustRackOccupancy(req.Context(), vars["code"],
		body.NewOccupiedJoints, body.NewOccupiedLength, ident.ActorID, body.Justification)
	if err != nil {
		respondYardError(w, err)
		return
	}

	// Post-commit, best-effort.
	r.notifier.Dispatch(notify.KindRackAdjusted, result.Audit)

	respondJSON(w, http.StatusOK, result)
}

// listAdjustments returns a rack's audit trail
func (r *Router) listAdjustments(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	entries, err := r.yard.ListRackAdjustments(req.Context(), vars["code"])
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type rackLabelsRequest struct {
	Area   string              `json:"area" validate:"required"`
	Layout printer.LabelConfig `json:"layout"`
}

// rackLabels renders a printable QR tag sheet for an area's racks
func (r *Router) rackLabels(w http.ResponseWriter, req *http.Request) {
	var body rackLabelsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	racks, err := r.yard.ListRacksByArea(req.Context(), body.Area)
	if err != nil {
		respondYardError(w, err)
		return
	}
	if len(racks) == 0 {
		respondError(w, http.StatusNotFound, "no racks in area")
		return
	}

	layout := body.Layout
	if layout.Cols == 0 || layout.Rows == 0 {
		layout = printer.DefaultLabelConfig()
	}
	if layout.BaseURL == "" {
		layout.BaseURL = r.cfg.Yard.LabelBaseURL
	}

	pdf, err := printer.GenerateRackLabelsPDF(racks, layout)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate labels")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rack-labels.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
