package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/sambatan/internal/lifecycle"
)

// RunLifecycleSweep triggers a sweep outside the timer, for operators and
// tests. A sweep already in flight yields 409 rather than queueing.
func (s *Server) RunLifecycleSweep(c *gin.Context) {
	transitions, err := s.sweeper.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, lifecycle.ErrSweepInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": gin.H{
				"type":    "conflict",
				"message": "sweep already in progress",
			}})
			return
		}
		AbortWithError(c, err)
		return
	}

	if transitions == nil {
		transitions = []lifecycle.Transition{}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"transitions": transitions,
	}})
}
