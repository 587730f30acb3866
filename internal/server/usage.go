package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simplegeohq/simplegeoapi/internal/accountcontext"
)

func (s *Server) MonthlyUsage(c *gin.Context) {
	principal, ok := accountcontext.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	buckets, err := s.usageSvc.MonthlyStats(c.Request.Context(), principal.AccountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": buckets})
}

func (s *Server) DailyUsage(c *gin.Context) {
	principal, ok := accountcontext.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	buckets, err := s.usageSvc.DailyStats(c.Request.Context(), principal.AccountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": buckets})
}
