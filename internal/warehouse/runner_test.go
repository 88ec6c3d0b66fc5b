package warehouse

import (
	"testing"

	"jobrelay/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestValidateProcedureName(t *testing.T) {
	for _, name := range []string{"sp_load_data", "etl.sp_load_data", "_staging.refresh_totals"} {
		require.NoError(t, validateProcedureName(name), "procedure name %q must be accepted", name)
	}

	for _, name := range []string{
		"",
		"sp_load_data; drop table users",
		"sp load data",
		"etl.sp.load",
		"1sp_load",
		"sp_load_data('x')",
	} {
		err := validateProcedureName(name)

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr, "procedure name %q must be rejected", name)
	}
}
