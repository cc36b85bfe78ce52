package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/yardpoint/pipeyardgo/internal/middleware"
	"github.com/yardpoint/pipeyardgo/internal/models"
	"github.com/yardpoint/pipeyardgo/internal/notify"
	"github.com/yardpoint/pipeyardgo/internal/yard"
)

type submitRequestBody struct {
	PipeType     string          `json:"pipe_type" validate:"required"`
	Grade        string          `json:"grade"`
	DiameterIn   decimal.Decimal `json:"diameter_in"`
	UnitWeightKg decimal.Decimal `json:"unit_weight_kg"`
	UnitLengthM  decimal.Decimal `json:"unit_length_m"`
	TotalJoints  int             `json:"total_joints" validate:"required,min=1"`
	WindowStart  *time.Time      `json:"window_start"`
	WindowEnd    *time.Time      `json:"window_end"`
}

// submitRequest files a new storage request for the caller's company
func (r *Router) submitRequest(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	if ident.CompanyID == uuid.Nil {
		respondError(w, http.StatusForbidden, "a company account is required to submit requests")
		return
	}

	var body submitRequestBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := r.yard.SubmitStorageRequest(req.Context(), yard.SubmitRequestInput{
		CompanyID:    ident.CompanyID,
		PipeType:     body.PipeType,
		Grade:        body.Grade,
		DiameterIn:   body.DiameterIn,
		UnitWeightKg: body.UnitWeightKg,
		UnitLengthM:  body.UnitLengthM,
		TotalJoints:  body.TotalJoints,
		WindowStart:  body.WindowStart,
		WindowEnd:    body.WindowEnd,
	})
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// listRequests returns storage requests visible to the caller. Customers see
// their own company's requests; yard staff see everything, optionally
// filtered by status.
func (r *Router) listRequests(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())

	q := r.db.Model(&models.StorageRequest{}).Order("created_at DESC")
	if ident.Role != "admin" {
		if ident.CompanyID == uuid.Nil {
			respondError(w, http.StatusForbidden, "a company account is required")
			return
		}
		q = q.Where("company_id = ?", ident.CompanyID)
	}
	if status := req.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.StorageRequest
	if err := q.Find(&requests).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list requests")
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

// getRequest returns one storage request with its loads
func (r *Router) getRequest(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var request models.StorageRequest
	if err := r.db.Preload("Loads").First(&request, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}

	// Customers only see their own requests; yard staff see everything.
	ident, _ := middleware.IdentityFrom(req.Context())
	if ident.Role != "admin" && request.CompanyID != ident.CompanyID {
		respondError(w, http.StatusNotFound, "Request not found")
		return
	}
	respondJSON(w, http.StatusOK, request)
}

type approveRequestBody struct {
	RackCodes []string `json:"rack_codes"`
	Notes     string   `json:"notes"`
}

// approveRequest approves a pending storage request
func (r *Router) approveRequest(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body approveRequestBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	request, err := r.yard.ApproveStorageRequest(req.Context(), id, ident.ActorID, body.RackCodes, body.Notes)
	if err != nil {
		respondYardError(w, err)
		return
	}

	r.notifier.Dispatch(notify.KindRequestApproved, request)
	respondJSON(w, http.StatusOK, request)
}

type rejectRequestBody struct {
	Reason string `json:"reason" validate:"required"`
}

// rejectRequest rejects a pending storage request
func (r *Router) rejectRequest(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body rejectRequestBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := r.yard.RejectStorageRequest(req.Context(), id, ident.ActorID, body.Reason)
	if err != nil {
		respondYardError(w, err)
		return
	}

	r.notifier.Dispatch(notify.KindRequestRejected, request)
	respondJSON(w, http.StatusOK, request)
}

// listInventory returns the caller's inventory, optionally filtered by status
func (r *Router) listInventory(w http.ResponseWriter, req *http.Request) {
	ident, _ := middleware.IdentityFrom(req.Context())
	companyID := ident.CompanyID
	if ident.Role == "admin" {
		if q := req.URL.Query().Get("company"); q != "" {
			parsed, err := uuid.Parse(q)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid company id")
				return
			}
			companyID = parsed
		}
	}
	if companyID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "company required")
		return
	}

	items, err := r.yard.ListInventory(req.Context(), companyID, models.ItemStatus(req.URL.Query().Get("status")))
	if err != nil {
		respondYardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
