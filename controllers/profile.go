package controllers

import (
	"net/http"

	"procurify-api/store"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	users store.UserRepository
}

func NewProfileController(users store.UserRepository) *ProfileController {
	return &ProfileController{users: users}
}

// GetProfile returns the authenticated user.
func (ctl *ProfileController) GetProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := ctl.users.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
