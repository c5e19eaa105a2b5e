package testutil

import (
	"context"

	"github.com/alexanderramin/gantt/internal/db"
)

// FailingUoW is a UnitOfWork whose transactions never start. It lets
// tests exercise the error path of snapshot readers.
type FailingUoW struct {
	Err error
}

func (u FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Err
}
