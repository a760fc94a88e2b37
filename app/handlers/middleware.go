package handlers

import (
	"net/http"
	"strconv"

	"remote-admin-svc/app/services"

	"github.com/gin-gonic/gin"
)

const (
	operatorKey  = "operator"
	workspaceKey = "workspaceGroupID"
)

// OperatorAuth validates the operator JWT and checks that the token grants
// the workspace named in the route. Ungranted workspaces read as 404 so the
// response does not confirm their existence.
func OperatorAuth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing token", nil)
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		workspaceGroupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid workspace id", nil)
			c.Abort()
			return
		}

		if !claims.HasWorkspace(workspaceGroupID) {
			respondError(c, http.StatusNotFound, "workspace not found", nil)
			c.Abort()
			return
		}

		c.Set(operatorKey, services.Operator{UserID: claims.UserID, Username: claims.Username})
		c.Set(workspaceKey, workspaceGroupID)
		c.Next()
	}
}

// operatorFrom returns the authenticated operator set by OperatorAuth.
func operatorFrom(c *gin.Context) services.Operator {
	op, _ := c.Get(operatorKey)
	operator, _ := op.(services.Operator)
	return operator
}

// workspaceFrom returns the granted workspace group id set by OperatorAuth.
func workspaceFrom(c *gin.Context) int64 {
	v, _ := c.Get(workspaceKey)
	id, _ := v.(int64)
	return id
}
