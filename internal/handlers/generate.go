package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/options"
	"github.com/KasperFyhn/ulgis/internal/services"
	"github.com/KasperFyhn/ulgis/internal/streams"
)

type GenerateHandler struct {
	log               *logger.Logger
	generationService services.GenerationService
	registry          *streams.Registry
}

func NewGenerateHandler(
	log *logger.Logger,
	generationService services.GenerationService,
	registry *streams.Registry,
) *GenerateHandler {
	return &GenerateHandler{
		log:               log.With("handler", "GenerateHandler"),
		generationService: generationService,
		registry:          registry,
	}
}

// tierFromQuery reads the ui_level path or query parameter; absent means
// Standard.
func tierFromQuery(c *gin.Context) (options.Tier, bool) {
	raw := c.Param("ui_level")
	if raw == "" {
		raw = c.Query("ui_level")
	}
	if raw == "" {
		return options.TierStandard, true
	}
	tier, err := options.ParseTier(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unknown_ui_level", err)
		return "", false
	}
	return tier, true
}

func (h *GenerateHandler) OptionsMetadata(c *gin.Context) {
	tier, ok := tierFromQuery(c)
	if !ok {
		return
	}
	metadata, err := h.generationService.OptionsMetadata(c.Request.Context(), tier)
	if err != nil {
		h.log.Error("OptionsMetadata failed", "ui_level", tier, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, metadata)
}

func (h *GenerateHandler) readOptions(c *gin.Context) (options.Tier, []byte, bool) {
	tier, ok := tierFromQuery(c)
	if !ok {
		return "", nil, false
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_body", err)
		return "", nil, false
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	return tier, raw, true
}

func (h *GenerateHandler) CreatePrompt(c *gin.Context) {
	tier, raw, ok := h.readOptions(c)
	if !ok {
		return
	}
	prompt, err := h.generationService.CreatePrompt(c.Request.Context(), tier, raw)
	if err != nil {
		h.log.Warn("CreatePrompt failed", "ui_level", tier, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompt)
}

func (h *GenerateHandler) GenerateResponse(c *gin.Context) {
	tier, raw, ok := h.readOptions(c)
	if !ok {
		return
	}
	response, err := h.generationService.GenerateResponse(c.Request.Context(), tier, raw)
	if err != nil {
		h.log.Error("GenerateResponse failed", "ui_level", tier, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"response": response})
}

func (h *GenerateHandler) StartStream(c *gin.Context) {
	tier, raw, ok := h.readOptions(c)
	if !ok {
		return
	}
	token, err := h.generationService.StartStream(c.Request.Context(), tier, raw)
	if err != nil {
		h.log.Error("StartStream failed", "ui_level", tier, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"token": token})
}

// StreamResponse drains a previously started stream as server-sent events.
// The token is single-use; the registry entry is removed once the stream
// ends, whether it completed or failed.
func (h *GenerateHandler) StreamResponse(c *gin.Context) {
	token := c.Param("token")
	stream, err := h.registry.Acquire(token)
	if err != nil {
		switch {
		case errors.Is(err, streams.ErrUnknownToken):
			RespondError(c, http.StatusNotFound, "unknown_token", err)
		case errors.Is(err, streams.ErrStreamBusy):
			RespondError(c, http.StatusConflict, "stream_busy", err)
		default:
			RespondServiceError(c, err)
		}
		return
	}
	defer h.registry.Remove(token)

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	// Recv blocks without honoring a context, so it runs in its own
	// goroutine. On disconnect the deferred Remove closes the stream, which
	// unblocks the pending Recv and lets the goroutine exit.
	type recvResult struct {
		chunk string
		err   error
	}
	results := make(chan recvResult)
	ctx := c.Request.Context()
	go func() {
		defer close(results)
		for {
			chunk, err := stream.Recv()
			select {
			case results <- recvResult{chunk: chunk, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("stream consumer disconnected", "token", token)
			return
		case res, ok := <-results:
			if !ok {
				return
			}
			if res.err != nil {
				if !errors.Is(res.err, io.EOF) {
					h.log.Error("stream receive failed", "token", token, "error", res.err)
				}
				return
			}
			if res.chunk == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", res.chunk); err != nil {
				h.log.Debug("stream write failed", "token", token, "error", err)
				return
			}
			w.Flush()
		}
	}
}
