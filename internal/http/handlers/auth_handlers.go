package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

const RoleAdmin = "admin"

// LoginHandler godoc
// @Summary Authenticate operator and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials UserLogin
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateRequest(credentials); len(errs) > 0 {
		respond(w, r, http.StatusBadRequest, errs)
		return
	}

	user, err := userRepo.GetByUsername(credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, credentials.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info().Str("username", user.Username).Msg("operator logged in")
	respond(w, r, http.StatusOK, LoginResult{Token: token})
}

// CreateUserHandler godoc
// @Summary Create operator account with a role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User to create with role"
// @Success 201 {object} map[string]string
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Failure 500 {string} string "Server error"
// @Router /admin/users [post]
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok || id.Role != RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req CreateUserRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		respond(w, r, http.StatusBadRequest, errs)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         req.Role,
	}

	if _, err := userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			http.Error(w, "username already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	respond(w, r, http.StatusCreated, map[string]string{"message": "User created"})
}
