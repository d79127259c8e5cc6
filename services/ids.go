package services

import (
	"strings"

	ierr "procurify-api/errors"

	"github.com/google/uuid"
)

func newSubmissionID() string {
	return shortID("SUB-")
}

func newProcurementID() string {
	return shortID("PROC-")
}

func shortID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:8])
}

// withFreshID calls create with an id from next. Short ids can collide, so
// on ErrAlreadyExists it draws one more id and tries again.
func withFreshID(next func() string, create func(id string) error) error {
	err := create(next())
	if ierr.IsAlreadyExists(err) {
		err = create(next())
	}
	return err
}
