package warehouse

import (
	"context"
	"fmt"

	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"

	"github.com/google/uuid"
)

// Diagnostics resolves an execution id back to the statement record so a
// failure resumption can carry the run's actual status and error text.
type Diagnostics struct {
	statements ports.StatementStore
}

func NewDiagnostics(statements ports.StatementStore) *Diagnostics {
	return &Diagnostics{statements: statements}
}

func (d *Diagnostics) Describe(ctx context.Context, executionID string) (*domain.DiagnosticsDetail, error) {
	id, err := uuid.Parse(executionID)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: parse execution id %q: %w", executionID, err)
	}

	record, err := d.statements.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: describe %s: %w", executionID, err)
	}

	return &domain.DiagnosticsDetail{
		Status: string(record.Status),
		Error:  record.Error,
		Reason: fmt.Sprintf("procedure %s reached state %s", record.ProcedureName, record.Status),
	}, nil
}
