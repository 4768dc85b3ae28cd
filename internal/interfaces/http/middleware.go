package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// Actor identity headers. Session management lives upstream; these
// headers only bind who acted, for trail entries and approval-role
// matching.
const (
	headerActorEmail = "X-Actor-Email"
	headerActorName  = "X-Actor-Name"
	headerActorRole  = "X-Actor-Role"
)

const actorContextKey = "actor"

// actorMiddleware binds the request's actor identity into the gin context.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := entity.Actor{
			Email: strings.TrimSpace(c.GetHeader(headerActorEmail)),
			Name:  strings.TrimSpace(c.GetHeader(headerActorName)),
			Role:  strings.ToLower(strings.TrimSpace(c.GetHeader(headerActorRole))),
		}
		if actor.Role == "" {
			actor.Role = entity.RoleEmployee
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// actorFrom retrieves the bound actor from the gin context.
func actorFrom(c *gin.Context) entity.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(entity.Actor); ok {
			return actor
		}
	}
	return entity.Actor{Role: entity.RoleEmployee}
}
