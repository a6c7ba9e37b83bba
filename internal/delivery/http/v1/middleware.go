package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-workspace/internal/services"
)

const (
	userIDCtxKey      = "user_id"
	sessionIDCtxKey   = "session_id"
	workspaceIDCtxKey = "workspace_id"
	accessLevelCtxKey = "access_level"
)

// HandleAuthMiddleware accepts the access token from the Authorization
// header or, failing that, from the access token cookie. An expired token
// is transparently refreshed when the refresh cookie is present.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, err := accessTokenFromRequest(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get access token")
		abort(c, newUnauthorizedError(err.Error()))
		return
	}

	var sessionID string
	claims, err := h.auth.ParseJWTToken(accessToken)
	switch {
	case err == nil:
		sessionID = claims.Subject
	case errors.Is(err, jwt.ErrTokenExpired):
		result, ok := h.refreshSession(c)
		if !ok {
			return
		}
		sessionID = result.SessionID
	default:
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(errInvalidAccessToken.Error()))
		return
	}

	session, err := h.sessions.GetSessionByID(c, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, services.ErrSessionExpired):
			abort(c, newUnauthorizedError(err.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to fetch session")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	browserFingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if browserFingerprint != session.Fingerprint {
		h.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		abort(c, newUnauthorizedError(errFingerprintMismatch.Error()))
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// HandleWorkspaceMiddleware admits only members of the workspace named by
// the workspace_id path parameter. It must run after HandleAuthMiddleware.
func (h *handlerImpl) HandleWorkspaceMiddleware(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return
	}

	workspaceID := c.Param("workspace_id")
	if workspaceID == "" {
		abort(c, newBadRequestError("workspace id is required"))
		return
	}

	member, err := h.workspaces.GetMembership(c, workspaceID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWorkspaceNotFound):
			abort(c, newNotFoundError(services.ErrWorkspaceNotFound.Error()))
		case errors.Is(err, services.ErrNotWorkspaceMember):
			abort(c, newForbiddenError(services.ErrNotWorkspaceMember.Error()))
		default:
			h.logger.Error().
				Err(err).
				Str("workspace_id", workspaceID).
				Msg("failed to check membership")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Set(workspaceIDCtxKey, workspaceID)
	c.Set(accessLevelCtxKey, string(member.AccessLevel))
	c.Next()
}

func accessTokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		token, err := c.Cookie(accessTokenCookie)
		if err != nil || token == "" {
			return "", errMissingAccessToken
		}
		return token, nil
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
