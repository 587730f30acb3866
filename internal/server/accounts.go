package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/simplegeohq/simplegeoapi/internal/account/domain"
)

type registerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type registerResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	APIKey    string `json:"api_key"`
}

// Register creates an account on the free plan. The raw API key appears in
// this response and nowhere else.
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.accountSvc.Register(c.Request.Context(), accountdomain.RegisterRequest{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		AccountID: resp.AccountID,
		Email:     resp.Email,
		Plan:      resp.Plan,
		APIKey:    resp.APIKey,
	})
}
