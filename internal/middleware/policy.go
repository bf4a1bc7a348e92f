package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/salesdesk-api/internal/metrics"
	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/pkg/logger"
)

// Operation names a protected route, e.g. "meetings.update".
type Operation string

// Policy maps each operation to the roles allowed to perform it. An
// operation that is absent or has no roles is denied to everyone.
type Policy map[Operation][]string

var (
	everyone  = []string{models.RoleAdmin, models.RoleSalesAdmin, models.RoleTeamLeader, models.RoleSalesRep}
	managers  = []string{models.RoleAdmin, models.RoleSalesAdmin, models.RoleTeamLeader}
	adminOnly = []string{models.RoleAdmin, models.RoleSalesAdmin}
)

// DefaultPolicy is the role table for every protected route.
var DefaultPolicy = Policy{
	"me.get": everyone,

	"users.create": adminOnly,
	"users.list":   managers,

	"projects.create": adminOnly,
	"projects.list":   everyone,
	"projects.get":    everyone,
	"projects.update": adminOnly,
	"projects.delete": adminOnly,

	"inventory.create": adminOnly,
	"inventory.list":   everyone,
	"inventory.get":    everyone,
	"inventory.update": adminOnly,
	"inventory.delete": adminOnly,

	"leads.create": everyone,
	"leads.list":   everyone,
	"leads.get":    everyone,
	"leads.update": everyone,
	"leads.delete": managers,
	"leads.export": managers,

	"meetings.create": everyone,
	"meetings.list":   everyone,
	"meetings.get":    everyone,
	"meetings.update": everyone,
	"meetings.delete": managers,

	"visits.create": everyone,
	"visits.list":   everyone,
	"visits.get":    everyone,
	"visits.update": everyone,
	"visits.delete": managers,

	"logs.list":   adminOnly,
	"logs.export": adminOnly,

	"notifications.list":     everyone,
	"notifications.mark":     everyone,
	"notifications.mark_all": everyone,

	"analytics.overview": managers,

	"jobs.status": adminOnly,
}

// Allows reports whether role may perform op. Authorization is set
// membership; no role implies another.
func (p Policy) Allows(op Operation, role string) bool {
	for _, r := range p[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns a middleware that admits only callers whose role is
// allowed for op. It runs after Auth and never touches storage.
func (p Policy) Require(op Operation) gin.HandlerFunc {
	if len(p[op]) == 0 {
		logger.Warn("operation has no allowed roles and is unreachable", "operation", string(op))
	}
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortUnauthenticated(c, "authentication required")
			return
		}
		if !p.Allows(op, identity.Role) {
			metrics.IncRoleDenial(string(op))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  http.StatusForbidden,
				"message": "you do not have access to this operation",
			})
			return
		}
		c.Next()
	}
}

// Validate returns the operations that no role can reach and roles that
// are not recognised.
func (p Policy) Validate(ops ...Operation) []string {
	var problems []string
	for _, op := range ops {
		roles, ok := p[op]
		if !ok || len(roles) == 0 {
			problems = append(problems, "operation "+string(op)+" has no allowed roles")
			continue
		}
		for _, r := range roles {
			if !models.IsValidRole(r) {
				problems = append(problems, "operation "+string(op)+" allows unknown role "+r)
			}
		}
	}
	return problems
}
