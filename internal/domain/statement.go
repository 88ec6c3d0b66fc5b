package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StatementStatus string

const (
	StatementSubmitted StatementStatus = "SUBMITTED"
	StatementStarted   StatementStatus = "STARTED"
	StatementFinished  StatementStatus = "FINISHED"
	StatementFailed    StatementStatus = "FAILED"
	StatementAborted   StatementStatus = "ABORTED"
)

// IsTerminal reports whether the status is a final state of the statement.
func (s StatementStatus) IsTerminal() bool {
	switch s {
	case StatementFinished, StatementFailed, StatementAborted:
		return true
	}
	return false
}

// IsSuccess reports whether the status is the one terminal success state.
// Every other terminal state routes down the failure path.
func (s StatementStatus) IsSuccess() bool {
	return s == StatementFinished
}

// StatementRecord is the warehouse-side execution row for one submitted
// stored procedure call. Its Name carries the correlation key so the
// completion event can be joined back to the waiting continuation.
type StatementRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name          string          `gorm:"type:varchar(100);index;not null"`
	ProcedureName string          `gorm:"type:varchar(200);not null"`
	Status        StatementStatus `gorm:"type:varchar(20);index;default:'SUBMITTED'"`
	Payload       datatypes.JSON  `gorm:"type:jsonb"`
	Error         string          `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewStatementRecord(correlationKey, procedureName string, payload []byte) *StatementRecord {
	return &StatementRecord{
		ID:            uuid.New(),
		Name:          correlationKey,
		ProcedureName: procedureName,
		Status:        StatementSubmitted,
		Payload:       datatypes.JSON(payload),
		CreatedAt:     time.Now(),
	}
}

// DiagnosticsDetail is the serializable failure cause attached to a failure
// resumption. Shape mirrors what the statement store records for a run.
type DiagnosticsDetail struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}
