package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/arkandhani/roomtalk/pkg/helpers"
	"github.com/arkandhani/roomtalk/pkg/response"
)

// Auth validates the access token cookie and checks the session in Redis.
// The session's sid must match the token's, so logout and refresh rotation
// invalidate older tokens. On success userID and userName are set in the
// Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid access token")
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				abortUnauthorized(c, "session not found")
				return
			}
			c.Set("userName", data["username"])
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	resp := response.Error[any](c, http.StatusUnauthorized, msg, nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}
