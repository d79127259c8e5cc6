package controllers

import (
	"net/http"
	"strings"

	"procurify-api/models"
	"procurify-api/services"
	"procurify-api/store"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activity *services.ActivityService
}

func NewActivityController(activity *services.ActivityService) *ActivityController {
	return &ActivityController{activity: activity}
}

func (ctl *ActivityController) List(c *gin.Context) {
	filter := store.ActivityFilter{
		UserID:     strings.TrimSpace(c.Query("user_id")),
		EntityType: models.EntityType(strings.ToUpper(strings.TrimSpace(c.Query("entity_type")))),
		EntityID:   strings.TrimSpace(c.Query("entity_id")),
	}
	filter.Limit, filter.Offset = pageParams(c)

	items, total, err := ctl.activity.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
