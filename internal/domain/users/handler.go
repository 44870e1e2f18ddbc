package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/middleware"
	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
)

// RegisterRoutes monta /auth/*. Van fuera del grupo protegido: sin identidad, me => null.
// revoker puede ser nil (modo mock).
func RegisterRoutes(r chi.Router, svc *Service, revoker auth.Revoker, cookieName string, log logger.Logger) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Get("/me", meHandler(svc, log))
		ar.Post("/logout", logoutHandler(revoker, cookieName, log))
	})
}

type userResponse struct {
	ID           string    `json:"id"`
	OpenID       string    `json:"open_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LoginMethod  string    `json:"login_method"`
	Role         auth.Role `json:"role"`
	LastSignedIn time.Time `json:"last_signed_in"`
	CreatedAt    time.Time `json:"created_at"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

// @Summary Usuario actual
// @Description Devuelve el usuario de la sesión (y actualiza last_signed_in) o null si no hay identidad.
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Router /auth/me [get]
func meHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteJSON(w, http.StatusOK, nil)
			return
		}

		u, err := svc.Touch(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, userResponse{
			ID:           u.ID,
			OpenID:       u.OpenID,
			Name:         u.Name,
			Email:        u.Email,
			LoginMethod:  u.LoginMethod,
			Role:         u.Role,
			LastSignedIn: u.LastSignedIn,
			CreatedAt:    u.CreatedAt,
		})
	}
}

// @Summary Cerrar sesión
// @Description Borra la cookie de sesión y revoca el token en el servidor.
// @Tags auth
// @Produce json
// @Success 200 {object} logoutResponse
// @Router /auth/logout [post]
func logoutHandler(revoker auth.Revoker, cookieName string, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := middleware.GetClaims(r.Context()); ok && revoker != nil {
			if err := revoker.Revoke(r.Context(), claims); err != nil {
				log.Warn("revoke session failed", map[string]any{"error": err, "user_id": claims.UserID})
			}
		}

		if cookieName != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, logoutResponse{Success: true})
	}
}
