package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"user-service/internal/httputil"
	"user-service/internal/logging"
)

// Handler contains HTTP handlers for the user endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateRequest represents the user creation request body
type CreateRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest represents the partial update request body
type UpdateRequest struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}

// DeleteResponse reports a soft-deleted user id
type DeleteResponse struct {
	DeletedUserID uuid.UUID `json:"deleted_user_id"`
}

// ActivateResponse reports a reactivated user id
type ActivateResponse struct {
	ActivatedUserID uuid.UUID `json:"activated_user_id"`
}

// UpdateResponse reports an updated user id
type UpdateResponse struct {
	UpdatedUserID uuid.UUID `json:"updated_user_id"`
}

// Create handles user creation
// @Summary      Create a new user
// @Description  Create a new active user record
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "User attributes"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      503 {object} httputil.ErrorResponse "Email collides with an existing user"
// @Router       /user/ [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Create(r.Context(), req.Name, req.Surname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// The store rejected the write; surfaced as a database error,
			// matching the service's conflict contract
			logger.Warn("user creation failed: email already exists")
			respondError(w, "database error: "+ErrDuplicateEmail.Error(), httputil.CodeDatabaseError, http.StatusServiceUnavailable)
			return
		}
		if isValidationError(err) {
			logger.Warn("user creation failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("user creation failed: internal error", "error", err.Error())
		respondError(w, "failed to create user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user created", "user_id", newUser.ID)

	respondJSON(w, mapUserToResponse(newUser), http.StatusOK)
}

// GetByID handles user lookup by id
// @Summary      Get a user by id
// @Tags         user
// @Produce      json
// @Param        user_id query string true "User id (uuid)"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing or malformed user_id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /user/ [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := userIDFromQuery(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("user lookup failed: internal error", "error", err.Error())
		respondError(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	respondJSON(w, mapUserToResponse(found), http.StatusOK)
}

// GetByEmail handles user lookup by email
// @Summary      Get a user by email
// @Tags         user
// @Produce      json
// @Param        email query string true "Email address"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing email"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /user/email/ [get]
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, "email is required", httputil.CodeEmailRequired, http.StatusBadRequest)
		return
	}

	found, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("user lookup failed: internal error", "error", err.Error())
		respondError(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	respondJSON(w, mapUserToResponse(found), http.StatusOK)
}

// Delete handles user soft deletion
// @Summary      Soft-delete a user
// @Description  Marks an active user inactive; the row is never removed
// @Tags         user
// @Produce      json
// @Param        user_id query string true "User id (uuid)"
// @Success      200 {object} DeleteResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing or malformed user_id"
// @Failure      404 {object} httputil.ErrorResponse "No active user with this id"
// @Router       /user/ [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := userIDFromQuery(w, r)
	if !ok {
		return
	}

	deletedID, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("user deletion failed: internal error", "error", err.Error())
		respondError(w, "failed to delete user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user soft-deleted", "user_id", deletedID)

	respondJSON(w, DeleteResponse{DeletedUserID: deletedID}, http.StatusOK)
}

// Activate handles user reactivation
// @Summary      Reactivate a soft-deleted user
// @Tags         user
// @Produce      json
// @Param        user_id query string true "User id (uuid)"
// @Success      200 {object} ActivateResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing or malformed user_id"
// @Failure      404 {object} httputil.ErrorResponse "No inactive user with this id"
// @Router       /user/ [put]
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := userIDFromQuery(w, r)
	if !ok {
		return
	}

	activatedID, err := h.service.Activate(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		logger.Error("user activation failed: internal error", "error", err.Error())
		respondError(w, "failed to activate user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user activated", "user_id", activatedID)

	respondJSON(w, ActivateResponse{ActivatedUserID: activatedID}, http.StatusOK)
}

// Update handles partial user updates
// @Summary      Update a user
// @Description  Applies a partial update (name, surname, email) to an active user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        user_id query string true "User id (uuid)"
// @Param        request body UpdateRequest true "Fields to update (at least one)"
// @Success      200 {object} UpdateResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing or malformed user_id, or invalid field value"
// @Failure      404 {object} httputil.ErrorResponse "No active user with this id"
// @Failure      422 {object} httputil.ErrorResponse "No fields to update"
// @Failure      503 {object} httputil.ErrorResponse "Email collides with an existing user"
// @Router       /user/ [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := userIDFromQuery(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updatedID, err := h.service.Update(r.Context(), id, UpdateParams{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
	})
	if err != nil {
		if errors.Is(err, ErrNoFieldsToUpdate) {
			logger.Warn("user update rejected: empty field set")
			respondError(w, ErrNoFieldsToUpdate.Error(), httputil.CodeNoFieldsToUpdate, http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, ErrNotFound) {
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("user update failed: email already exists")
			respondError(w, "database error: "+ErrDuplicateEmail.Error(), httputil.CodeDatabaseError, http.StatusServiceUnavailable)
			return
		}
		if isValidationError(err) {
			logger.Warn("user update failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("user update failed: internal error", "error", err.Error())
		respondError(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user updated", "user_id", updatedID)

	respondJSON(w, UpdateResponse{UpdatedUserID: updatedID}, http.StatusOK)
}

// userIDFromQuery parses the user_id query parameter, writing a 400
// response and returning ok=false when it is missing or malformed
func userIDFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		respondError(w, "user_id is required", httputil.CodeInvalidUserID, http.StatusBadRequest)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, "user_id must be a valid uuid", httputil.CodeInvalidUserID, http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrSurnameRequired) ||
		errors.Is(err, ErrEmailRequired) ||
		errors.Is(err, ErrInvalidEmailFormat) ||
		errors.Is(err, ErrPasswordRequired) ||
		errors.Is(err, ErrPasswordTooShort)
}

func mapUserToResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}

func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

func respondError(w http.ResponseWriter, message, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
