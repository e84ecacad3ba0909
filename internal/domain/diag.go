package domain

import (
	"strings"

	"github.com/nexthub/intranet-backend/pkg/logger"
)

// diagnostics gates the missing-field warnings emitted by the view mappers.
// It is enabled from main in development environments only; production
// mapping stays silent.
var diagnostics bool

// EnableDiagnostics turns mapper missing-field warnings on or off.
func EnableDiagnostics(on bool) {
	diagnostics = on
}

// warnMissing logs which expected fields were absent on a row. recordID may
// be empty, in which case "unknown" is reported. Never called in production
// and never fails: it only ever writes a log line.
func warnMissing(entity, recordID string, missing []string) {
	if !diagnostics || len(missing) == 0 {
		return
	}
	if recordID == "" {
		recordID = "unknown"
	}
	logger.GetLogger().Warn().
		Str("entity", entity).
		Str("record_id", recordID).
		Str("missing_fields", strings.Join(missing, ",")).
		Msg("row is missing expected fields")
}
