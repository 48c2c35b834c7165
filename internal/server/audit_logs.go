package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
)

type listAuditLogsQuery struct {
	Limit int `form:"limit"`
}

func (s *Server) ListCampaignAuditLog(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	campaignID, err := campaigndomain.ParseID(c.Param("id"), campaigndomain.ErrCampaignNotFound)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.auditSvc.ListByCampaign(c.Request.Context(), campaignID, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entries, err := s.auditSvc.List(c.Request.Context(), query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
