package handler

import (
	"errors"
	"net/http"

	"jobrelay/internal/api/dto"
	"jobrelay/internal/domain"
	"jobrelay/internal/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	service service.SubmitService
}

func NewJobHandler(svc service.SubmitService) *JobHandler {
	return &JobHandler{service: svc}
}

func (h *JobHandler) SubmitJob(c *gin.Context) {
	var req dto.SubmitJobRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "failure"})
		return
	}

	ack, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "status": "failure"})
			return
		}
		// Storage or submission failure: the caller gets a clear failure
		// status either way.
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "status": "failure"})
		return
	}

	c.JSON(http.StatusCreated, ack)
}
