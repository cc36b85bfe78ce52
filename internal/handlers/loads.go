package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yardpoint/pipeyardgo/internal/middleware"
	"github.com/yardpoint/pipeyardgo/internal/models"
	"github.com/yardpoint/pipeyardgo/internal/notify"
	"github.com/yardpoint/pipeyardgo/internal/yard"
)

type scheduleLoadBody struct {
	RequestID     uuid.UUID            `json:"request_id" validate:"required"`
	Direction     models.LoadDirection `json:"direction" validate:"required,oneof=INBOUND OUTBOUND"`
	WindowStart   *time.Time           `json:"window_start"`
	WindowEnd     *time.Time           `json:"window_end"`
	PlannedJoints int                  `json:"planned_joints" validate:"min=0"`
	PlannedLength decimal.Decimal      `json:"planned_length_m"`
}

// scheduleLoad books a trucking slot against an approved request
func (r *Router) scheduleLoad(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())

	var body scheduleLoadBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	companyID := ident.CompanyID
	if ident.Role == "admin" {
		// Admins book on behalf of the owning company.
		var request models.StorageRequest
		if err := r.db.First(&request, "id = ?", body.RequestID).Error; err == nil {
			companyID = request.CompanyID
		}
	}

	load, err := r.yard.ScheduleLoad(req.Context(), yard.ScheduleLoadInput{
		RequestID:     body.RequestID,
		CompanyID:     companyID,
		Direction:     body.Direction,
		WindowStart:   body.WindowStart,
		WindowEnd:     body.WindowEnd,
		PlannedJoints: body.PlannedJoints,
		PlannedLength: body.PlannedLength,
	})
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, load)
}

type attachManifestBody struct {
	Lines []yard.ManifestLineInput `json:"lines" validate:"required,min=1"`
	Raw   datatypes.JSON           `json:"raw,omitempty"`
}

// attachManifest stores a structured manifest against a load
func (r *Router) attachManifest(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	loadID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid load id")
		return
	}

	var body attachManifestBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	companyID := ident.CompanyID
	if ident.Role == "admin" {
		var load models.TruckingLoad
		if err := r.db.Preload("Request").First(&load, "id = ?", loadID).Error; err == nil && load.Request != nil {
			companyID = load.Request.CompanyID
		}
	}

	doc, err := r.yard.AttachManifest(req.Context(), loadID, companyID, body.Lines, body.Raw)
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

type transitionLoadBody struct {
	Status models.LoadStatus `json:"status" validate:"required,oneof=APPROVED IN_TRANSIT CANCELLED"`
}

// transitionLoad applies a plain lifecycle transition (approve, in-transit, cancel)
func (r *Router) transitionLoad(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	loadID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid load id")
		return
	}

	var body transitionLoadBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	companyID := ident.CompanyID
	if ident.Role == "admin" {
		var load models.TruckingLoad
		if err := r.db.Preload("Request").First(&load, "id = ?", loadID).Error; err == nil && load.Request != nil {
			companyID = load.Request.CompanyID
		}
	}

	load, err := r.yard.TransitionLoad(req.Context(), loadID, companyID, body.Status)
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, load)
}

type completeInboundBody struct {
	CompanyID      uuid.UUID `json:"company_id" validate:"required"`
	RequestID      uuid.UUID `json:"request_id" validate:"required"`
	RackCode       string    `json:"rack_code" validate:"required"`
	ActualReceived int       `json:"actual_joints_received" validate:"required,min=1"`
	Notes          string    `json:"notes"`
}

// completeInbound receives an inbound load into a rack
func (r *Router) completeInbound(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	loadID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid load id")
		return
	}

	var body completeInboundBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := r.yard.CompleteInboundLoad(req.Context(), loadID, body.CompanyID, body.RequestID,
		body.RackCode, body.ActualReceived, ident.ActorID, body.Notes)
	if err != nil {
		respondYardError(w, err)
		return
	}

	// Post-commit, best-effort.
	r.notifier.Dispatch(notify.KindLoadCompleted, summary)

	respondJSON(w, http.StatusOK, summary)
}

type completeOutboundBody struct {
	CompanyID    uuid.UUID         `json:"company_id" validate:"required"`
	RequestID    uuid.UUID         `json:"request_id" validate:"required"`
	ItemIDs      []uuid.UUID       `json:"inventory_item_ids" validate:"required,min=1"`
	ActualLoaded int               `json:"actual_joints_loaded" validate:"required,min=1"`
	FinalStatus  models.LoadStatus `json:"final_status" validate:"required,oneof=IN_TRANSIT COMPLETED"`
	Notes        string            `json:"notes"`
}

// completeOutbound ships selected inventory out of the yard
func (r *Router) completeOutbound(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	loadID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid load id")
		return
	}

	var body completeOutboundBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := r.yard.CompleteOutboundLoad(req.Context(), loadID, body.CompanyID, body.RequestID,
		body.ItemIDs, body.ActualLoaded, body.FinalStatus, ident.ActorID, body.Notes)
	if err != nil {
		respondYardError(w, err)
		return
	}

	r.notifier.Dispatch(notify.KindLoadOutbound, summary)

	respondJSON(w, http.StatusOK, summary)
}
