package models

import (
	"time"
)

// Quote status values. A quote is mutated exactly once (pending -> accepted)
// by the order acceptance flow; "expired" is reported at read time, never
// written by a background job.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusExpired  = "expired"
)

// QuoteValidity is how long a quote can be accepted after creation
const QuoteValidity = 7 * 24 * time.Hour

// Quote represents a priced, time-bounded offer to print an uploaded mesh.
// The geometry snapshot and pricing breakdown are frozen at creation time:
// the stored total_price is authoritative at acceptance even if material
// prices change later.
type Quote struct {
	ID        string `gorm:"primaryKey" json:"quote_id"`
	SessionID string `gorm:"index" json:"session_id"`
	UserID    *uint  `gorm:"index" json:"user_id"` // nullable until claimed at acceptance
	User      *User  `gorm:"foreignKey:UserID" json:"-"`

	// Uploaded mesh file
	StlFilename string `gorm:"not null" json:"stl_filename"`
	S3Key       string `json:"s3_key"`

	// Geometry snapshot from the mesh analyzer
	VolumeCm3      float64 `gorm:"not null" json:"volume_cm3"`
	SurfaceAreaCm2 float64 `gorm:"not null" json:"surface_area_cm2"`
	BoundingBoxX   float64 `gorm:"not null" json:"bounding_box_x"`
	BoundingBoxY   float64 `gorm:"not null" json:"bounding_box_y"`
	BoundingBoxZ   float64 `gorm:"not null" json:"bounding_box_z"`

	MaterialID    uint         `gorm:"not null;index" json:"material_id"`
	Material      *Material    `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	PrintConfigID uint         `gorm:"not null;index" json:"print_config_id"`
	PrintConfig   *PrintConfig `gorm:"foreignKey:PrintConfigID" json:"print_config,omitempty"`

	// Pricing breakdown, rounded to 2 decimals at calculation time
	MaterialCost              float64 `gorm:"not null" json:"material_cost"`
	MachineCost               float64 `gorm:"not null" json:"machine_cost"`
	LaborCost                 float64 `gorm:"not null" json:"labor_cost"`
	TotalPrice                float64 `gorm:"not null" json:"total_price"`
	MaterialWeightGrams       float64 `gorm:"not null" json:"material_weight_grams"`
	EstimatedPrintTimeMinutes int     `gorm:"not null" json:"estimated_print_time_minutes"`

	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// IsExpired reports whether the quote can no longer be accepted at the given time
func (q *Quote) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// EffectiveStatus returns the status to report to callers: a pending quote
// past its expiry reads as expired without being rewritten in storage.
func (q *Quote) EffectiveStatus(now time.Time) string {
	if q.Status == QuoteStatusPending && q.IsExpired(now) {
		return QuoteStatusExpired
	}
	return q.Status
}
