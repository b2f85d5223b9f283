package models

import "time"

// Material represents a printable material and its pricing parameters.
// Reference data: read-only to the quoting engine.
type Material struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Type         string    `gorm:"not null" json:"type"` // PLA, PETG, ABS, TPU
	Density      float64   `gorm:"not null" json:"density"`       // g/cm³
	CostPerGram  float64   `gorm:"not null" json:"cost_per_gram"` // currency units per gram
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// PrintConfig represents a print quality preset.
// Reference data: read-only to the quoting engine.
type PrintConfig struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	LayerHeight      float64   `gorm:"not null" json:"layer_height"`      // mm
	InfillPercentage int       `gorm:"not null" json:"infill_percentage"` // 0..100
	TimeMultiplier   float64   `gorm:"not null" json:"time_multiplier"`   // print speed scaling
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PrintConfig model
func (PrintConfig) TableName() string {
	return "print_configs"
}
