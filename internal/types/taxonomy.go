package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepType decides which ladder of textual labels a taxonomy's parameter
// levels are translated into. Level 0 always means "ignore this aspect".
type StepType string

const (
	StepTypeLevel     StepType = "LEVEL"
	StepTypeAttention StepType = "ATTENTION"
)

var stepLabels = map[StepType][]string{
	StepTypeLevel:     {"disabled", "fundamental", "intermediate", "advanced", "specialised"},
	StepTypeAttention: {"disabled", "low attention", "medium attention", "high attention"},
}

// Steps returns the ordered label ladder for the step type. Unknown step
// types fall back to the LEVEL ladder.
func (s StepType) Steps() []string {
	if labels, ok := stepLabels[s]; ok {
		return labels
	}
	return stepLabels[StepTypeLevel]
}

type Taxonomy struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string              `gorm:"not null;uniqueIndex" json:"name"`
	ShortDescription string              `gorm:"column:short_description" json:"short_description"`
	Text             string              `gorm:"type:text" json:"text"`
	Priority         float64             `gorm:"not null;default:0" json:"priority"`
	StepType         StepType            `gorm:"column:step_type;not null;default:'LEVEL'" json:"step_type"`
	Parameters       []TaxonomyParameter `gorm:"constraint:OnDelete:CASCADE;foreignKey:TaxonomyID;references:ID" json:"parameters"`
	CreatedAt        time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"not null" json:"updated_at"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"deleted_at,omitempty"`
}

func (Taxonomy) TableName() string { return "taxonomy" }

func (t *Taxonomy) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TaxonomyParameter struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaxonomyID uuid.UUID `gorm:"type:uuid;not null;index" json:"taxonomy_id"`
	Name       string    `gorm:"not null" json:"name"`
	Disabled   bool      `gorm:"not null;default:false" json:"disabled"`
	// Position preserves the declared parameter order within a taxonomy.
	Position  int            `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TaxonomyParameter) TableName() string { return "taxonomy_parameter" }

func (p *TaxonomyParameter) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
