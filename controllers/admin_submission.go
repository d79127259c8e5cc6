package controllers

import (
	"net/http"

	"procurify-api/services"
	"procurify-api/utils"

	"github.com/gin-gonic/gin"
)

// AdminSubmissionController holds the review actions on submissions.
type AdminSubmissionController struct {
	transitions *services.TransitionService
	batch       *services.BatchService
	ratings     *services.RatingService
}

func NewAdminSubmissionController(
	transitions *services.TransitionService,
	batch *services.BatchService,
	ratings *services.RatingService,
) *AdminSubmissionController {
	return &AdminSubmissionController{transitions: transitions, batch: batch, ratings: ratings}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (ctl *AdminSubmissionController) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}
	status, ok := utils.ParseSubmissionStatus(req.Status)
	if !ok {
		respondBadRequest(c, "Status must be one of PENDING, ACCEPTED or REJECTED")
		return
	}

	result, err := ctl.transitions.TransitionWithNotes(c.Request.Context(), c.Param("id"), status, actor, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchRejectRequest struct {
	SubmissionIDs []string `json:"submission_ids" binding:"required"`
}

// BatchReject rejects every listed submission it can and reports the rest.
func (ctl *AdminSubmissionController) BatchReject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req batchRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "submission_ids is required")
		return
	}

	result, err := ctl.batch.BatchReject(c.Request.Context(), req.SubmissionIDs, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rateVendorRequest struct {
	Stars int `json:"stars" binding:"required"`
}

func (ctl *AdminSubmissionController) Rate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req rateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "stars is required")
		return
	}

	rating, err := ctl.ratings.Rate(c.Request.Context(), c.Param("id"), req.Stars, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

func (ctl *AdminSubmissionController) VendorRating(c *gin.Context) {
	summary, err := ctl.ratings.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
