package http

import (
	"context"
	"net/http"

	"github.com/secmon-lab/memoryjar/pkg/domain/types"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
	"github.com/secmon-lab/memoryjar/pkg/utils/errutil"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

// SessionCookieName carries the signed access level
const SessionCookieName = "jar_session"

type ctxLevelKey struct{}

func withLevel(ctx context.Context, level types.AccessLevel) context.Context {
	return context.WithValue(ctx, ctxLevelKey{}, level)
}

// levelFrom returns the access level of the request, LOCKED when unknown
func levelFrom(ctx context.Context) types.AccessLevel {
	if level, ok := ctx.Value(ctxLevelKey{}).(types.AccessLevel); ok {
		return level
	}
	return types.AccessLevelLocked
}

// sessionMiddleware resolves the session cookie into an access level. A
// missing or invalid cookie is LOCKED, never an error.
func sessionMiddleware(gate *usecase.AccessGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := types.AccessLevelLocked
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				verified, err := gate.VerifySession(cookie.Value)
				if err != nil {
					logging.From(r.Context()).Debug("session rejected", "error", err.Error())
				} else {
					level = verified
				}
			}
			next.ServeHTTP(w, r.WithContext(withLevel(r.Context(), level)))
		})
	}
}

// requireLevel rejects requests below the required level. ADMIN satisfies
// USER routes.
func requireLevel(required types.AccessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level := levelFrom(r.Context())
			if level == types.AccessLevelLocked {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "Unlock required"})
				return
			}
			if !level.Allows(required) {
				writeJSON(r.Context(), w, http.StatusForbidden, errorResponse{Error: "Not allowed"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type unlockRequest struct {
	Date string `json:"date"`
}

type levelResponse struct {
	Level   types.AccessLevel `json:"level"`
	Message string            `json:"message,omitempty"`
}

func sessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, levelResponse{Level: levelFrom(r.Context())})
}

func unlockHandler(gate *usecase.AccessGate, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req unlockRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		level, message := gate.Resolve(req.Date)
		if level == types.AccessLevelLocked {
			logging.From(r.Context()).Info("unlock rejected")
			writeJSON(r.Context(), w, http.StatusOK, levelResponse{Level: level, Message: message})
			return
		}

		token, expiresAt, err := gate.IssueSession(level)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   secure || r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		logging.From(r.Context()).Info("unlocked", "level", level)
		writeJSON(r.Context(), w, http.StatusOK, levelResponse{Level: level})
	}
}

func lockHandler(secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure || r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		writeJSON(r.Context(), w, http.StatusOK, levelResponse{Level: types.AccessLevelLocked})
	}
}
