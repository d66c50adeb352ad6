package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/identity"
	"github.com/huangang/projectpulse/pkg/logger"
	"github.com/huangang/projectpulse/pkg/response"
)

const ContextIdentity = "identity"

// AuthRequired resolves the caller with resolver and stores the identity in the context.
func AuthRequired(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.ResolveIdentity(c.Request)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(ContextIdentity, id)
		c.Next()
	}
}

// EntitlementRequired must run after AuthRequired.
func EntitlementRequired(checker identity.EntitlementChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		allowed, err := checker.CheckEntitlement(c.Request.Context(), id)
		if err != nil {
			logger.Errorf("[Auth] Entitlement check failed for %s: %v", id.ID, err)
			response.Error(c, response.NewServiceUnavailable("entitlement check unavailable"))
			c.Abort()
			return
		}
		if !allowed {
			response.Forbidden(c, "active subscription required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthRequired.
func CurrentIdentity(c *gin.Context) (identity.Identity, bool) {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return identity.Identity{}, false
	}
	id, ok := v.(identity.Identity)
	return id, ok
}

// GetUserID returns the current user id, or "" outside an authenticated route.
func GetUserID(c *gin.Context) string {
	id, _ := CurrentIdentity(c)
	return id.ID
}
