package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rest-user-service/internal/domain/user"
	apperrors "rest-user-service/pkg/errors"
	"rest-user-service/pkg/logger"
)

// UserIDKey is the gin context key holding the parsed :id.
const UserIDKey = "user_id"

// UserIndexResolver finds the position of a user in the collection.
type UserIndexResolver interface {
	ResolveUserIndex(ctx context.Context, id int64) (int, error)
}

// ResolveUserIndex parses the :id path parameter and resolves it to a record
// index before the handler runs. A non-numeric id aborts with 400 and an
// unknown id with 404. The id is stored under UserIDKey and the index travels
// in the request context as a lookup hint for the repository.
func ResolveUserIndex(resolver UserIndexResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		idStr := c.Param("id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			logger.WithContext(ctx, log).Warn("invalid user id", zap.String("id", idStr))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_id",
				"message": "User ID must be a valid number",
			})
			return
		}

		idx, err := resolver.ResolveUserIndex(ctx, id)
		if err != nil {
			switch status := apperrors.StatusCode(err); status {
			case http.StatusNotFound:
				c.AbortWithStatusJSON(status, gin.H{
					"error":   "not_found",
					"message": err.Error(),
				})
			default:
				logger.WithContext(ctx, log).Error("failed to resolve user index", zap.Int64("id", id), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "An internal error occurred",
				})
			}
			return
		}

		c.Set(UserIDKey, id)
		c.Request = c.Request.WithContext(user.WithIndexHint(ctx, id, idx))
		c.Next()
	}
}

// UserID returns the id stored by ResolveUserIndex.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
