package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/services"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type DataHandler struct {
	log             *logger.Logger
	taxonomyService services.TaxonomyService
}

func NewDataHandler(log *logger.Logger, taxonomyService services.TaxonomyService) *DataHandler {
	return &DataHandler{
		log:             log.With("handler", "DataHandler"),
		taxonomyService: taxonomyService,
	}
}

func (h *DataHandler) ListTaxonomies(c *gin.Context) {
	taxonomies, err := h.taxonomyService.List(c.Request.Context())
	if err != nil {
		h.log.Error("ListTaxonomies failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, taxonomies)
}

// TaxonomyDescriptions maps taxonomy names to their full description texts.
func (h *DataHandler) TaxonomyDescriptions(c *gin.Context) {
	docs, _, err := h.taxonomyService.Docs(c.Request.Context())
	if err != nil {
		h.log.Error("TaxonomyDescriptions failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	descriptions := make(map[string]string, len(docs))
	for name, doc := range docs {
		descriptions[name] = doc.Text
	}
	RespondOK(c, descriptions)
}

// TaxonomyInput is the admin write payload. Parameters are replaced
// wholesale on update; their order in the request is their display order.
type TaxonomyInput struct {
	Name             string         `json:"name" binding:"required"`
	ShortDescription string         `json:"short_description"`
	Text             string         `json:"text"`
	Priority         float64        `json:"priority"`
	StepType         types.StepType `json:"step_type"`
	Parameters       []struct {
		Name     string `json:"name" binding:"required"`
		Disabled bool   `json:"disabled"`
	} `json:"parameters"`
}

func (in *TaxonomyInput) toModel() *types.Taxonomy {
	stepType := in.StepType
	if stepType == "" {
		stepType = types.StepTypeLevel
	}
	taxonomy := &types.Taxonomy{
		Name:             in.Name,
		ShortDescription: in.ShortDescription,
		Text:             in.Text,
		Priority:         in.Priority,
		StepType:         stepType,
	}
	for i, param := range in.Parameters {
		taxonomy.Parameters = append(taxonomy.Parameters, types.TaxonomyParameter{
			Name:     param.Name,
			Disabled: param.Disabled,
			Position: i,
		})
	}
	return taxonomy
}

func (h *DataHandler) CreateTaxonomy(c *gin.Context) {
	var input TaxonomyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_taxonomy", err)
		return
	}
	created, err := h.taxonomyService.Create(c.Request.Context(), input.toModel())
	if err != nil {
		h.log.Error("CreateTaxonomy failed", "name", input.Name, "error", err)
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DataHandler) UpdateTaxonomy(c *gin.Context) {
	taxonomyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_taxonomy_id", err)
		return
	}
	var input TaxonomyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_taxonomy", err)
		return
	}
	taxonomy := input.toModel()
	taxonomy.ID = taxonomyID
	updated, err := h.taxonomyService.Update(c.Request.Context(), taxonomy)
	if err != nil {
		h.log.Error("UpdateTaxonomy failed", "taxonomy_id", taxonomyID, "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (h *DataHandler) DeleteTaxonomy(c *gin.Context) {
	taxonomyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_taxonomy_id", err)
		return
	}
	if err := h.taxonomyService.Delete(c.Request.Context(), taxonomyID); err != nil {
		h.log.Error("DeleteTaxonomy failed", "taxonomy_id", taxonomyID, "error", err)
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
