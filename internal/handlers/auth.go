package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aruana-vision/apiserver/internal/auth"
	"github.com/aruana-vision/apiserver/internal/services"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUserRole  = "user"
	adminRole        = "admin"
	resetTokenTTL    = time.Hour
	minPasswordChars = 6
)

// AuthHandler provides registration, login and account endpoints.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenService

	// adminEmail promotes a matching registration to admin, so a fresh
	// install can bootstrap its first administrator.
	adminEmail string

	// devMode returns password reset tokens in the response body instead
	// of delivering them out of band.
	devMode bool
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, tokens *auth.TokenService, adminEmail string, devMode bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		adminEmail:  strings.ToLower(strings.TrimSpace(adminEmail)),
		devMode:     devMode,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/login", handler.Login)
	r.Post("/auth/forgot-password", handler.ForgotPassword)
	r.Post("/auth/reset-password", handler.ResetPassword)
	r.With(handler.RequireAuth).Get("/auth/me", handler.Me)
	r.With(handler.RequireAuth).Put("/auth/profile", handler.UpdateProfile)
}

// RequireAuth enforces bearer token authentication and injects the
// caller identity into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := h.tokens.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		identity := Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireAdmin rejects callers whose stored account is not an active
// admin. It must run after RequireAuth.
func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := identityFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.userService.GetByID(r.Context(), identity.UserID)
		if err != nil || user.Role != adminRole || !user.IsActive {
			writeError(w, http.StatusForbidden, "acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Register creates a new account and returns a bearer token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "nome, email e senha são obrigatórios")
		return
	}
	if len(req.Password) < minPasswordChars {
		writeError(w, http.StatusBadRequest, "a senha deve ter pelo menos 6 caracteres")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao criar usuário")
		return
	}

	role := defaultUserRole
	if h.adminEmail != "" && req.Email == h.adminEmail {
		role = adminRole
	}

	user, err := h.userService.Create(r.Context(), types.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "email já cadastrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao criar usuário")
		return
	}

	h.respondWithToken(w, user)
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email e senha são obrigatórios")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "credenciais inválidas")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao autenticar")
		return
	}

	// Disabled accounts fail with the same message as bad credentials.
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "credenciais inválidas")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "credenciais inválidas")
		return
	}

	now := time.Now().UTC()
	if err := h.userService.SetLastLogin(r.Context(), user.ID, now); err == nil {
		user.LastLogin = &now
	}

	h.respondWithToken(w, user)
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao carregar usuário")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var update types.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), identity.UserID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "usuário não encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "falha ao atualizar perfil")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword issues a password reset token. The response does not
// reveal whether the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email é obrigatório")
		return
	}

	response := ForgotPasswordResponse{
		Message: "se o email estiver cadastrado, um link de recuperação será enviado",
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSON(w, http.StatusOK, response)
		return
	}

	token := newResetToken()
	expiry := time.Now().UTC().Add(resetTokenTTL)
	if err := h.userService.SetResetToken(r.Context(), user.ID, token, expiry); err != nil {
		writeJSON(w, http.StatusOK, response)
		return
	}

	if h.devMode {
		response.ResetToken = token
	}
	writeJSON(w, http.StatusOK, response)
}

// ResetPassword consumes a reset token and stores the new password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "requisição inválida")
		return
	}

	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "token e nova senha são obrigatórios")
		return
	}
	if len(req.NewPassword) < minPasswordChars {
		writeError(w, http.StatusBadRequest, "a senha deve ter pelo menos 6 caracteres")
		return
	}

	user, err := h.userService.GetByResetToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "token inválido ou expirado")
		return
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		writeError(w, http.StatusBadRequest, "token inválido ou expirado")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao redefinir senha")
		return
	}

	if err := h.userService.SetPassword(r.Context(), user.ID, string(hashed)); err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao redefinir senha")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "senha redefinida com sucesso"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user types.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "falha ao criar token")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        types.User `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}

func newResetToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
