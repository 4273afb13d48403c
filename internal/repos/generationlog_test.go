package repos

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/KasperFyhn/ulgis/internal/types"
)

func TestGenerationLogRepo_Create(t *testing.T) {
	db, log := testDB(t)
	repo := NewGenerationLogRepo(db, log)

	entry := &types.GenerationLog{
		Tier:       "Ample",
		Operation:  "generate_response",
		Options:    datatypes.JSON(`{"llmSettings":{"model":"gpt-4o"}}`),
		PromptLen:  512,
		Model:      "gpt-4o",
		DurationMs: 1200,
	}
	if err := repo.Create(context.Background(), nil, entry); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var count int64
	if err := db.Model(&types.GenerationLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows, want 1", count)
	}
}
