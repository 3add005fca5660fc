package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/models"
	"github.com/FontysVenlo/alda-appointmentplanner-api/internal/repository"
)

// Audit records an audit log entry after the wrapped handler succeeds.
// Appointment routes resolve their own appointmentId parameter, other
// routes fall back to the plan id, so every mutation can be traced to
// its target.
func Audit(repo *repository.UserRepository, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		detail, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		_ = repo.CreateAuditLog(c.Request.Context(), &models.AuditLog{
			UserID:     auditUserID(c),
			Action:     action,
			Resource:   resource,
			ResourceID: auditResourceID(c),
			NewValues:  detail,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		})
	}
}

func auditUserID(c *gin.Context) *string {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return &claims.UserID
}

func auditResourceID(c *gin.Context) *string {
	if id := c.Param("appointmentId"); id != "" {
		return &id
	}
	if id := c.Param("id"); id != "" {
		return &id
	}
	return nil
}
