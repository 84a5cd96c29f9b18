package middleware

import (
	"net/http"

	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserKey   = "user"
	CallerKey = "caller"
	TokenKey  = "token"
	ClaimsKey = "claims"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, http.StatusUnauthorized); !ok {
			return
		}
		c.Next()
	}
}

// authenticate checks the token, loads the user and sets the context keys.
// invalidStatus is the status returned for a bad or expired token.
func authenticate(c *gin.Context, invalidStatus int) (jwt.MapClaims, bool) {
	tokenString, err := utils.ExtractToken(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, err.Error()))
		return nil, false
	}

	isDenylisted, err := services.IsDenylisted(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to check token status"))
		return nil, false
	}
	if isDenylisted {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Token has been revoked"))
		return nil, false
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(invalidStatus, utils.NewErrorResponse(invalidStatus, "Invalid or expired token"))
		return nil, false
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid user ID in token"))
		return nil, false
	}

	user, err := services.FindUserByID(uint(userIDFloat))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "User not found"))
		return nil, false
	}

	c.Set(UserKey, user)
	c.Set(CallerKey, services.Caller{UserID: user.ID, OrganizationID: user.OrganizationID})
	c.Set(TokenKey, tokenString)
	c.Set(ClaimsKey, claims)
	return claims, true
}

// CallerFrom returns the identity stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (services.Caller, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return services.Caller{}, false
	}
	caller, ok := v.(services.Caller)
	return caller, ok
}
