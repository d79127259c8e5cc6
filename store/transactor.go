package store

import (
	"context"

	ierr "procurify-api/errors"

	"gorm.io/gorm"
)

type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTx(ctx context.Context, fn func(subs SubmissionRepository, ledger HistoryLedger) error) error {
	return t.run(ctx, func(tx *gorm.DB) error {
		return fn(NewSubmissionStore(tx), NewHistoryStore(tx))
	})
}

func (t *GormTransactor) WithinProcurementTx(ctx context.Context, fn func(procs ProcurementRepository, ledger HistoryLedger) error) error {
	return t.run(ctx, func(tx *gorm.DB) error {
		return fn(NewProcurementStore(tx), NewHistoryStore(tx))
	})
}

func (t *GormTransactor) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := t.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	// Errors from fn are already classified; anything else came from
	// begin/commit.
	if ierr.Code(err) != ierr.ErrCodeSystemError {
		return err
	}
	return ierr.Database(err, "commit transaction")
}
