package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yardpoint/pipeyardgo/internal/models"
	"github.com/yardpoint/pipeyardgo/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=8"`
	Name      string     `json:"name"`
	CompanyID *uuid.UUID `json:"company_id"`
}

// login authenticates a user and issues tokens
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user models.UserAuth
	if err := r.db.First(&user, "email = ? AND is_active = true", body.Email).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !utils.CheckPasswordHash(body.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	now := time.Now().UTC()
	r.db.Model(&user).Update("last_login_at", now)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// register creates a customer account
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.UserAuth{
		ID:           uuid.New(),
		Email:        body.Email,
		PasswordHash: hash,
		Name:         body.Name,
		Role:         "customer",
		CompanyID:    body.CompanyID,
		IsActive:     true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}
