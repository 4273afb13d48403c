package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/llm"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Taxonomy{},
		&types.TaxonomyParameter{},
		&types.AdminUser{},
		&types.GenerationLog{},
	); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return db, log
}

func seedBloom(t *testing.T, db *gorm.DB, log *logger.Logger) repos.TaxonomyRepo {
	t.Helper()
	repo := repos.NewTaxonomyRepo(db, log)
	_, err := repo.Create(context.Background(), nil, []*types.Taxonomy{{
		Name:             "Bloom's Taxonomy",
		ShortDescription: "Cognitive objectives",
		Text:             "Bloom's taxonomy text.",
		Priority:         5,
		StepType:         types.StepTypeLevel,
		Parameters: []types.TaxonomyParameter{
			{Name: "remember", Position: 0},
			{Name: "analyze", Position: 1},
		},
	}})
	if err != nil {
		t.Fatalf("seeding taxonomy: %v", err)
	}
	return repo
}

// fakeGenerator is a canned Generator so service tests never talk to a
// provider.
type fakeGenerator struct {
	response string
	chunks   []string
	err      error

	lastPrompt   string
	lastSettings llm.Settings
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, settings llm.Settings) (string, error) {
	f.lastPrompt = prompt
	f.lastSettings = settings
	return f.response, f.err
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, prompt string, settings llm.Settings) (llm.Stream, error) {
	f.lastPrompt = prompt
	f.lastSettings = settings
	if f.err != nil {
		return nil, f.err
	}
	return &cannedStream{chunks: f.chunks}, nil
}

type cannedStream struct {
	chunks []string
	pos    int
	closed bool
}

func (s *cannedStream) Recv() (string, error) {
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *cannedStream) Close() error {
	s.closed = true
	return nil
}
