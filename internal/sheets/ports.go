// Package sheets holds the outbound port for the spreadsheet mirror.
package sheets

import (
	"context"

	"moneywise/internal/core"
)

// TransactionAppender mirrors a transaction into an external sheet.
// The mirror is append-only; deletions are never propagated.
type TransactionAppender interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
