package services

import (
	ierr "procurify-api/errors"
	"procurify-api/models"
)

func requireAdmin(actor models.Actor, action string) error {
	if !actor.Role.IsAdmin() {
		return ierr.Forbidden(action)
	}
	return nil
}
