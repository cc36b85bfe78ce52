package handlers

import (
	"errors"
	"net/http"

	"github.com/yardpoint/pipeyardgo/internal/yard"
)

// respondYardError maps the core's typed errors onto HTTP responses. The
// structured variants keep their numbers in the body so the UI can render an
// actionable message; anything unrecognized is an opaque 500 (system down,
// not "your request is invalid").
func respondYardError(w http.ResponseWriter, err error) {
	var (
		crossTenant *yard.CrossTenantError
		mismatch    *yard.ManifestMismatchError
		capacity    *yard.CapacityError
		adjustment  *yard.InvalidAdjustmentError
		transition  *yard.InvalidTransitionError
		manifest    *yard.InvalidManifestError
	)

	switch {
	case errors.Is(err, yard.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, yard.ErrAlreadyCompleted):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &crossTenant):
		respondError(w, http.StatusForbidden, crossTenant.Error())
	case errors.As(err, &mismatch):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":           mismatch.Error(),
			"declared_joints": mismatch.DeclaredJoints,
			"actual_joints":   mismatch.ActualJoints,
		})
	case errors.As(err, &capacity):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":              capacity.Error(),
			"rack_code":          capacity.RackCode,
			"requested_joints":   capacity.RequestedJoints,
			"available_joints":   capacity.AvailableJoints,
			"requested_length_m": capacity.RequestedLength,
			"available_length_m": capacity.AvailableLength,
		})
	case errors.As(err, &adjustment):
		respondError(w, http.StatusUnprocessableEntity, adjustment.Error())
	case errors.As(err, &transition):
		respondError(w, http.StatusUnprocessableEntity, transition.Error())
	case errors.As(err, &manifest):
		respondError(w, http.StatusUnprocessableEntity, manifest.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
