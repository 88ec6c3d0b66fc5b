package domain

import (
	"time"

	"github.com/google/uuid"
)

// CorrelationKeyPrefix marks every key this service generates so that
// downstream consumers can recognise the event family.
const CorrelationKeyPrefix = "job-evt-|"

// CorrelationRecord links one submitted warehouse job to the workflow
// continuation that is paused waiting for it. It is written once before the
// job is submitted and read once when the completion event arrives; it is
// never mutated or deleted by this service.
type CorrelationRecord struct {
	CorrelationKey    string `gorm:"type:varchar(100);primary_key" json:"correlationKey"`
	ContinuationToken string `gorm:"type:text;not null" json:"continuationToken"`

	CreatedAt time.Time `json:"-"`
}

// NewCorrelationKey returns a fresh globally-unique correlation key.
// A random UUID is used rather than a timestamp so that concurrent
// submissions within the same clock tick cannot collide.
func NewCorrelationKey() string {
	return CorrelationKeyPrefix + uuid.NewString()
}

func NewCorrelationRecord(continuationToken string) *CorrelationRecord {
	return &CorrelationRecord{
		CorrelationKey:    NewCorrelationKey(),
		ContinuationToken: continuationToken,
		CreatedAt:         time.Now(),
	}
}
