package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GenerationLog records one prompt-compilation or generation call: the tier,
// the raw options payload as submitted, and the outcome.
type GenerationLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Tier       string         `gorm:"not null;index" json:"tier"`
	Operation  string         `gorm:"not null" json:"operation"` // create_prompt|generate_response|start_stream
	Options    datatypes.JSON `gorm:"column:options" json:"options,omitempty"`
	PromptLen  int            `gorm:"not null;default:0" json:"prompt_len"`
	Model      string         `json:"model,omitempty"`
	DurationMs int64          `gorm:"not null;default:0" json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (GenerationLog) TableName() string { return "generation_log" }

func (g *GenerationLog) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
