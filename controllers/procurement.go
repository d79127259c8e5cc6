package controllers

import (
	"net/http"
	"strings"
	"time"

	"procurify-api/models"
	"procurify-api/services"
	"procurify-api/store"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ProcurementController struct {
	procurements *services.ProcurementService
}

func NewProcurementController(procurements *services.ProcurementService) *ProcurementController {
	return &ProcurementController{procurements: procurements}
}

func (ctl *ProcurementController) List(c *gin.Context) {
	filter := store.ProcurementFilter{}
	if raw := c.Query("status"); raw != "" {
		status, ok := parseProcurementStatus(raw)
		if !ok {
			respondBadRequest(c, "Unknown status filter")
			return
		}
		filter.Status = status
	}
	filter.Limit, filter.Offset = pageParams(c)

	items, total, err := ctl.procurements.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (ctl *ProcurementController) Get(c *gin.Context) {
	p, err := ctl.procurements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"procurement": p})
}

type procurementItemRequest struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Quantity       int              `json:"quantity" binding:"required"`
	Unit           string           `json:"unit"`
	EstimatedPrice *decimal.Decimal `json:"estimated_price"`
}

type createProcurementRequest struct {
	Title       string                   `json:"title" binding:"required"`
	Description string                   `json:"description"`
	Budget      decimal.Decimal          `json:"budget"`
	Currency    string                   `json:"currency"`
	Deadline    time.Time                `json:"deadline" binding:"required"`
	Location    string                   `json:"location"`
	Status      string                   `json:"status"`
	Items       []procurementItemRequest `json:"items" binding:"dive"`
}

func (ctl *ProcurementController) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req createProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and deadline are required, every item needs a name and quantity")
		return
	}
	var status models.ProcurementStatus
	if req.Status != "" {
		if status, ok = parseProcurementStatus(req.Status); !ok {
			respondBadRequest(c, "Status must be OPEN or DRAFT")
			return
		}
	}

	p, err := ctl.procurements.Create(c.Request.Context(), services.CreateProcurementParams{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Currency:    req.Currency,
		Deadline:    req.Deadline,
		Location:    req.Location,
		Status:      status,
		Items: lo.Map(req.Items, func(item procurementItemRequest, _ int) services.ProcurementItemParams {
			return services.ProcurementItemParams{
				Name:           item.Name,
				Description:    item.Description,
				Quantity:       item.Quantity,
				Unit:           item.Unit,
				EstimatedPrice: item.EstimatedPrice,
			}
		}),
	}, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"procurement": p})
}

type updateProcurementRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	Currency    *string          `json:"currency"`
	Deadline    *time.Time       `json:"deadline"`
	Location    *string          `json:"location"`
}

func (ctl *ProcurementController) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req updateProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid procurement fields")
		return
	}

	p, err := ctl.procurements.Update(c.Request.Context(), c.Param("id"), services.UpdateProcurementParams{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Currency:    req.Currency,
		Deadline:    req.Deadline,
		Location:    req.Location,
	}, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"procurement": p})
}

func (ctl *ProcurementController) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}
	status, ok := parseProcurementStatus(req.Status)
	if !ok {
		respondBadRequest(c, "Status must be one of OPEN, CLOSED or DRAFT")
		return
	}

	p, entry, err := ctl.procurements.SetStatus(c.Request.Context(), c.Param("id"), status, req.Notes, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"procurement": p, "history": entry})
}

func (ctl *ProcurementController) History(c *gin.Context) {
	entries, err := ctl.procurements.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func parseProcurementStatus(raw string) (models.ProcurementStatus, bool) {
	status := models.ProcurementStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.Valid()
}
