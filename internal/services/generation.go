package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/llm"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/options"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/streams"
	"github.com/KasperFyhn/ulgis/internal/types"
)

// GenerationService turns raw option payloads into metadata, prompts and
// model responses. Every generation attempt leaves a row in the generation
// log, including failed ones.
type GenerationService interface {
	OptionsMetadata(ctx context.Context, tier options.Tier) (options.Group, error)
	CreatePrompt(ctx context.Context, tier options.Tier, raw []byte) (string, error)
	GenerateResponse(ctx context.Context, tier options.Tier, raw []byte) (string, error)
	StartStream(ctx context.Context, tier options.Tier, raw []byte) (string, error)
}

type generationService struct {
	db              *gorm.DB
	log             *logger.Logger
	taxonomyService TaxonomyService
	generator       llm.Generator
	registry        *streams.Registry
	logRepo         repos.GenerationLogRepo
}

func NewGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	taxonomyService TaxonomyService,
	generator llm.Generator,
	registry *streams.Registry,
	logRepo repos.GenerationLogRepo,
) GenerationService {
	return &generationService{
		db:              db,
		log:             log.With("service", "GenerationService"),
		taxonomyService: taxonomyService,
		generator:       generator,
		registry:        registry,
		logRepo:         logRepo,
	}
}

func (gs *generationService) OptionsMetadata(ctx context.Context, tier options.Tier) (options.Group, error) {
	taxonomies, err := gs.taxonomyService.List(ctx)
	if err != nil {
		return nil, err
	}
	group, err := options.Compile(tier, taxonomies)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "metadata_compile_failed", err)
	}
	return group, nil
}

// parsePrompt validates the payload against the current taxonomy store and
// renders the prompt in one step.
func (gs *generationService) parsePrompt(ctx context.Context, tier options.Tier, raw []byte) (options.GenerationOptions, string, error) {
	docs, taxonomies, err := gs.taxonomyService.Docs(ctx)
	if err != nil {
		return options.GenerationOptions{}, "", err
	}
	opts, err := options.Parse(tier, raw, taxonomies)
	if err != nil {
		var verr *options.ValidationError
		if errors.As(err, &verr) {
			return options.GenerationOptions{}, "", apierr.New(
				http.StatusUnprocessableEntity, "invalid_options", verr)
		}
		return options.GenerationOptions{}, "", apierr.New(
			http.StatusInternalServerError, "options_parse_failed", err)
	}
	return opts, options.BuildPrompt(opts, docs), nil
}

func (gs *generationService) CreatePrompt(ctx context.Context, tier options.Tier, raw []byte) (string, error) {
	started := time.Now()
	opts, prompt, err := gs.parsePrompt(ctx, tier, raw)
	if err != nil {
		return "", err
	}
	gs.record(ctx, tier, "create_prompt", raw, len(prompt), gs.settings(opts).Model, time.Since(started), nil)
	return prompt, nil
}

func (gs *generationService) settings(opts options.GenerationOptions) llm.Settings {
	if s, ok := opts.Settings(); ok {
		return llm.Settings{Model: s.Model, Temperature: s.Temperature, FrequencyPenalty: s.FrequencyPenalty}
	}
	// The lower ui levels do not expose model settings.
	return llm.Settings{Model: "gpt-4o", Temperature: 0.7, FrequencyPenalty: 0.2}
}

func (gs *generationService) GenerateResponse(ctx context.Context, tier options.Tier, raw []byte) (string, error) {
	opts, prompt, err := gs.parsePrompt(ctx, tier, raw)
	if err != nil {
		return "", err
	}
	settings := gs.settings(opts)

	started := time.Now()
	response, genErr := gs.generator.Generate(ctx, prompt, settings)
	gs.record(ctx, tier, "generate_response", raw, len(prompt), settings.Model, time.Since(started), genErr)
	if genErr != nil {
		return "", apierr.New(http.StatusBadGateway, "generation_failed",
			fmt.Errorf("generating response: %w", genErr))
	}
	return response, nil
}

func (gs *generationService) StartStream(ctx context.Context, tier options.Tier, raw []byte) (string, error) {
	opts, prompt, err := gs.parsePrompt(ctx, tier, raw)
	if err != nil {
		return "", err
	}
	settings := gs.settings(opts)

	started := time.Now()
	// The stream must outlive this request; its lifetime is bound to the
	// registry entry, not to the POST that created it.
	stream, genErr := gs.generator.GenerateStream(context.WithoutCancel(ctx), prompt, settings)
	gs.record(ctx, tier, "start_stream", raw, len(prompt), settings.Model, time.Since(started), genErr)
	if genErr != nil {
		return "", apierr.New(http.StatusBadGateway, "generation_failed",
			fmt.Errorf("starting stream: %w", genErr))
	}
	token := gs.registry.Put(stream)
	gs.log.Info("stream started", "token", token, "ui_level", tier, "prompt_len", len(prompt))
	return token, nil
}

func (gs *generationService) record(
	ctx context.Context,
	tier options.Tier,
	operation string,
	raw []byte,
	promptLen int,
	model string,
	elapsed time.Duration,
	genErr error,
) {
	entry := &types.GenerationLog{
		Tier:       string(tier),
		Operation:  operation,
		Options:    datatypes.JSON(raw),
		PromptLen:  promptLen,
		Model:      model,
		DurationMs: elapsed.Milliseconds(),
	}
	if genErr != nil {
		entry.Error = genErr.Error()
	}
	if err := gs.logRepo.Create(ctx, nil, entry); err != nil {
		gs.log.Warn("writing generation log failed", "operation", operation, "error", err)
	}
}
