package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	participantdomain "github.com/smallbiznis/sambatan/internal/participant/domain"
)

func (s *Server) JoinCampaign(c *gin.Context) {
	var req participantdomain.JoinCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CampaignID = c.Param("id")

	joined, err := s.participantSvc.Join(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": joined})
}

func (s *Server) GetParticipantByID(c *gin.Context) {
	participant, err := s.participantSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": participant})
}

func (s *Server) CancelParticipation(c *gin.Context) {
	cancelled, err := s.participantSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cancelled})
}

func (s *Server) ConfirmParticipation(c *gin.Context) {
	confirmed, err := s.participantSvc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": confirmed})
}

func (s *Server) ListCampaignParticipants(c *gin.Context) {
	participants, err := s.participantSvc.ListByCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": participants})
}
