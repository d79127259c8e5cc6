package controllers

import (
	"net/http"
	"strings"

	"procurify-api/services"
	"procurify-api/store"
	"procurify-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type SubmissionController struct {
	submissions *services.SubmissionService
}

func NewSubmissionController(submissions *services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissions: submissions}
}

type submissionItemRequest struct {
	ProcurementItemID string          `json:"procurement_item_id" binding:"required"`
	OfferedPrice      decimal.Decimal `json:"offered_price"`
	Specification     string          `json:"specification"`
}

type createSubmissionRequest struct {
	ProcurementID      string                  `json:"procurement_id" binding:"required"`
	CompanyName        string                  `json:"company_name" binding:"required"`
	CompanyDescription string                  `json:"company_description"`
	Items              []submissionItemRequest `json:"items" binding:"dive"`
}

// Create files a bid for the calling vendor.
func (ctl *SubmissionController) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "procurement_id and company_name are required, every item needs a procurement_item_id")
		return
	}

	sub, err := ctl.submissions.Create(c.Request.Context(), services.CreateSubmissionParams{
		ProcurementID:      req.ProcurementID,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Items: lo.Map(req.Items, func(item submissionItemRequest, _ int) services.SubmissionItemParams {
			return services.SubmissionItemParams{
				ProcurementItemID: item.ProcurementItemID,
				OfferedPrice:      item.OfferedPrice,
				Specification:     item.Specification,
			}
		}),
	}, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

func (ctl *SubmissionController) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	filter := store.SubmissionFilter{
		ProcurementID: strings.TrimSpace(c.Query("procurement_id")),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := utils.ParseSubmissionStatus(raw)
		if !ok {
			respondBadRequest(c, "Unknown status filter")
			return
		}
		filter.Status = status
	}
	filter.Limit, filter.Offset = pageParams(c)

	items, total, err := ctl.submissions.List(c.Request.Context(), filter, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, offset := store.NormalizePage(filter.Limit, filter.Offset)
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (ctl *SubmissionController) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	detail, err := ctl.submissions.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": detail})
}

func (ctl *SubmissionController) History(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	entries, err := ctl.submissions.History(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
