package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields returns audit fields stamped with the given actor and time.
func NewAuditFields(actor string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actor,
		LastUpdatedAt: at,
		LastUpdatedBy: actor,
	}
}
