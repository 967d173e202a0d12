package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiraws/ExploreTogoBack/internal/config"
	"github.com/Kiraws/ExploreTogoBack/internal/middleware"
	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
	"github.com/Kiraws/ExploreTogoBack/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

const minPasswordLen = 6

// normalizeGenre validates the optional gender field against the two
// accepted values and returns it in canonical lowercase form. A nil
// input stays nil; anything outside the enum is rejected.
func normalizeGenre(g *string) (*string, bool) {
	if g == nil {
		return nil, true
	}
	v := strings.ToLower(strings.TrimSpace(*g))
	if v != "masculin" && v != "feminin" {
		return nil, false
	}
	return &v, true
}

// ----- DTOs -----

type registerReq struct {
	Name      string  `json:"name"`
	Firstname string  `json:"firstname"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Genre     *string `json:"genre"`
	Role      string  `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
type profileReq struct {
	Name      *string `json:"name"`
	Firstname *string `json:"firstname"`
	Email     *string `json:"email"`
	Genre     *string `json:"genre"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Firstname string  `json:"firstname"`
	Email     string  `json:"email"`
	Genre     *string `json:"genre,omitempty"`
	Role      string  `json:"role"`
}
type authData struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func userPartFrom(u model.User) userPart {
	return userPart{
		ID:        serialize.FormatID(u.ID),
		Name:      u.Name,
		Firstname: u.Firstname,
		Email:     u.Email,
		Genre:     u.Genre,
		Role:      u.Role,
	}
}

// issuePair creates and stores a fresh access/refresh token pair.
func (h *AuthHandler) issuePair(ctx context.Context, userID int64, role string) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	if err := h.Sessions.StoreRefresh(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil
}

// Register creates the account and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Firstname == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "nom, prénom, email et mot de passe sont requis")
	}
	if len(req.Password) < minPasswordLen {
		return fail(c, http.StatusBadRequest, "le mot de passe doit contenir au moins 6 caractères")
	}
	genre, okGenre := normalizeGenre(req.Genre)
	if !okGenre {
		return fail(c, http.StatusBadRequest, "genre invalide, valeurs acceptées : masculin, feminin")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != middleware.RoleGerant {
		role = middleware.RoleUtilisateur
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Firstname, req.Email, req.Password, genre, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "cet email est déjà utilisé")
		}
		c.Logger().Errorf("register: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la création du compte")
	}

	access, refresh, err := h.issuePair(ctx, uid, role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de l'émission des jetons")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de la lecture du compte")
	}
	return okMsg(c, http.StatusCreated, authData{User: userPartFrom(u), Access: access, Refresh: refresh},
		"compte créé avec succès")
}

// Login verifies credentials and returns a fresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email et mot de passe sont requis")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !u.Active || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		// Same answer whether the account is missing, disabled or the
		// password is wrong.
		return fail(c, http.StatusUnauthorized, "email ou mot de passe incorrect")
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de l'émission des jetons")
	}
	return ok(c, http.StatusOK, authData{User: userPartFrom(u), Access: access, Refresh: refresh})
}

// Refresh rotates the pair: the presented refresh token is revoked and
// a new one issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "jeton de rafraîchissement requis")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Sessions.ValidateRefresh(ctx, hash)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "jeton invalide ou expiré")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil || !u.Active {
		return fail(c, http.StatusUnauthorized, "compte introuvable ou désactivé")
	}
	if err := h.Sessions.RevokeByHash(ctx, hash); err != nil {
		c.Logger().Errorf("refresh revoke: %v", err)
	}

	access, refresh, err := h.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "échec de l'émission des jetons")
	}
	return ok(c, http.StatusOK, authData{User: userPartFrom(u), Access: access, Refresh: refresh})
}

// Logout revokes the presented refresh token. The access token simply
// expires on its own.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "jeton de rafraîchissement requis")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Sessions.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		c.Logger().Errorf("logout: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la déconnexion")
	}
	return okMsg(c, http.StatusOK, nil, "déconnexion réussie")
}

// ForgotPassword issues a short-lived reset token for the account.
// The answer is identical whether the email exists or not, so the
// endpoint cannot be used to probe accounts. Without a mail service
// the token is returned in the response body.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fail(c, http.StatusBadRequest, "email requis")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	const answer = "si ce compte existe, un lien de réinitialisation a été envoyé"
	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil || !u.Active {
		return okMsg(c, http.StatusOK, nil, answer)
	}
	token, err := utils.NewResetToken(h.Cfg.JWTSecret, u.ID, h.Cfg.ResetTTLMin)
	if err != nil {
		c.Logger().Errorf("forgot-password: %v", err)
		return okMsg(c, http.StatusOK, nil, answer)
	}
	return okMsg(c, http.StatusOK, echo.Map{"resetToken": token}, answer)
}

// ResetPassword consumes a reset token, replaces the password and
// revokes every open session of the account.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || req.Token == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "jeton et nouveau mot de passe requis")
	}
	if len(req.Password) < minPasswordLen {
		return fail(c, http.StatusBadRequest, "le mot de passe doit contenir au moins 6 caractères")
	}

	uid, err := utils.ParseResetToken(h.Cfg.JWTSecret, req.Token)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "jeton invalide ou expiré")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Users.SetPassword(ctx, uid, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "compte introuvable")
		}
		c.Logger().Errorf("reset-password: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la réinitialisation")
	}
	if err := h.Sessions.RevokeAllForUser(ctx, uid); err != nil {
		c.Logger().Errorf("reset-password revoke: %v", err)
	}
	return okMsg(c, http.StatusOK, nil, "mot de passe réinitialisé avec succès")
}

// Profile returns the authenticated user's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, currentUserID(c))
	if err != nil {
		return fail(c, http.StatusNotFound, "compte introuvable")
	}
	return ok(c, http.StatusOK, userPartFrom(u))
}

// UpdateProfile applies the non-nil fields of the request body.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corps de requête invalide")
	}
	if req.Name == nil && req.Firstname == nil && req.Email == nil && req.Genre == nil {
		return fail(c, http.StatusBadRequest, "aucun champ à mettre à jour")
	}
	genre, okGenre := normalizeGenre(req.Genre)
	if !okGenre {
		return fail(c, http.StatusBadRequest, "genre invalide, valeurs acceptées : masculin, feminin")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, currentUserID(c), req.Name, req.Firstname, req.Email, genre)
	if err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "cet email est déjà utilisé")
		}
		c.Logger().Errorf("update-profile: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la mise à jour du profil")
	}
	return okMsg(c, http.StatusOK, userPartFrom(u), "profil mis à jour avec succès")
}

// DeleteAccount deactivates the account and revokes all sessions.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	uid := currentUserID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSec*time.Second)
	defer cancel()

	if err := h.Users.Deactivate(ctx, uid); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "compte introuvable")
		}
		c.Logger().Errorf("delete-account: %v", err)
		return fail(c, http.StatusInternalServerError, "échec de la suppression du compte")
	}
	if err := h.Sessions.RevokeAllForUser(ctx, uid); err != nil {
		c.Logger().Errorf("delete-account revoke: %v", err)
	}
	return okMsg(c, http.StatusOK, nil, "compte supprimé avec succès")
}
