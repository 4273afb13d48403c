package options

import (
	"encoding/json"
	"fmt"
)

// ToggledGroup is the common head of every toggled option group: an on/off
// switch plus a display priority.
type ToggledGroup struct {
	Enabled  bool    `json:"enabled"`
	Priority float64 `json:"priority"`
}

type EducationInfo struct {
	EducationLevel     string `json:"educationLevel"`
	TargetName         string `json:"targetName"`
	ContextDescription string `json:"contextDescription"`
}

type ModularEducationInfo struct {
	EducationInfo
	TargetType            string `json:"targetType"`
	PreviousLearningGoals string `json:"previousLearningGoals"`
}

type BulletPointOptions struct {
	ToggledGroup
	NumberOfBullets int  `json:"numberOfBullets"`
	Nested          bool `json:"nested"`
}

type ProseDescriptionOptions struct {
	ToggledGroup
	NumberOfWords int  `json:"numberOfWords"`
	Headings      bool `json:"headings"`
}

type OutputOptions struct {
	LearningGoals     ToggledGroup `json:"learningGoals"`
	CompetencyProfile ToggledGroup `json:"competencyProfile"`
}

type AmpleOutputOptions struct {
	OutputOptions
	BulletPoints     BulletPointOptions      `json:"bulletPoints"`
	ProseDescription ProseDescriptionOptions `json:"proseDescription"`
}

type InspirationSeeds struct {
	Keywords []string `json:"keywords"`
}

type CustomInputs struct {
	CustomInstruction string   `json:"customInstruction"`
	ExtraInputs       []string `json:"extraInputs"`
}

type LlmSettings struct {
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
}

// StandardOptions is the field set of the Standard tier.
type StandardOptions struct {
	Taxonomies    TaxonomyArray `json:"taxonomies"`
	EducationInfo EducationInfo `json:"educationInfo"`
	OutputOptions OutputOptions `json:"outputOptions"`
}

// ModularOptions extends Standard with inspiration seeds and a richer
// education section.
type ModularOptions struct {
	Taxonomies       TaxonomyArray        `json:"taxonomies"`
	EducationInfo    ModularEducationInfo `json:"educationInfo"`
	InspirationSeeds InspirationSeeds     `json:"inspirationSeeds"`
	OutputOptions    OutputOptions        `json:"outputOptions"`
}

// AmpleOptions extends Modular with custom inputs, model settings, combinable
// taxonomies and two extra output formats. Education level moves to the EQF
// scale.
type AmpleOptions struct {
	Taxonomies       TaxonomyArray        `json:"taxonomies"`
	EducationInfo    ModularEducationInfo `json:"educationInfo"`
	LlmSettings      LlmSettings          `json:"llmSettings"`
	InspirationSeeds InspirationSeeds     `json:"inspirationSeeds"`
	OutputOptions    AmpleOutputOptions   `json:"outputOptions"`
	CustomInputs     CustomInputs         `json:"customInputs"`
}

// GenerationOptions is the tagged union over the three tiers. Exactly one of
// the variant pointers is non-nil, matching Tier. Downstream code reaches
// tier-specific fields through the accessors below; a field that a tier does
// not declare is absent, not nullable.
type GenerationOptions struct {
	Tier     Tier
	Standard *StandardOptions
	Modular  *ModularOptions
	Ample    *AmpleOptions
}

func (g GenerationOptions) Taxonomies() *TaxonomyArray {
	switch g.Tier {
	case TierStandard:
		return &g.Standard.Taxonomies
	case TierModular:
		return &g.Modular.Taxonomies
	case TierAmple:
		return &g.Ample.Taxonomies
	}
	panic(fmt.Sprintf("options: no variant for tier %q", g.Tier))
}

// Education returns the base education view shared by all tiers.
func (g GenerationOptions) Education() EducationInfo {
	switch g.Tier {
	case TierStandard:
		return g.Standard.EducationInfo
	case TierModular:
		return g.Modular.EducationInfo.EducationInfo
	case TierAmple:
		return g.Ample.EducationInfo.EducationInfo
	}
	panic(fmt.Sprintf("options: no variant for tier %q", g.Tier))
}

// ModularEducation widens to the Modular education view; ok is false on the
// Standard tier, where target type and previous goals do not exist.
func (g GenerationOptions) ModularEducation() (ModularEducationInfo, bool) {
	switch g.Tier {
	case TierModular:
		return g.Modular.EducationInfo, true
	case TierAmple:
		return g.Ample.EducationInfo, true
	}
	return ModularEducationInfo{}, false
}

// Output returns the two output formats every tier declares.
func (g GenerationOptions) Output() OutputOptions {
	switch g.Tier {
	case TierStandard:
		return g.Standard.OutputOptions
	case TierModular:
		return g.Modular.OutputOptions
	case TierAmple:
		return g.Ample.OutputOptions.OutputOptions
	}
	panic(fmt.Sprintf("options: no variant for tier %q", g.Tier))
}

func (g GenerationOptions) AmpleOutput() (AmpleOutputOptions, bool) {
	if g.Tier == TierAmple {
		return g.Ample.OutputOptions, true
	}
	return AmpleOutputOptions{}, false
}

func (g GenerationOptions) Seeds() (InspirationSeeds, bool) {
	switch g.Tier {
	case TierModular:
		return g.Modular.InspirationSeeds, true
	case TierAmple:
		return g.Ample.InspirationSeeds, true
	}
	return InspirationSeeds{}, false
}

func (g GenerationOptions) Customs() (CustomInputs, bool) {
	if g.Tier == TierAmple {
		return g.Ample.CustomInputs, true
	}
	return CustomInputs{}, false
}

func (g GenerationOptions) Settings() (LlmSettings, bool) {
	if g.Tier == TierAmple {
		return g.Ample.LlmSettings, true
	}
	return LlmSettings{}, false
}

// MarshalJSON serializes the active variant, so a parsed payload round-trips
// to the same logical value.
func (g GenerationOptions) MarshalJSON() ([]byte, error) {
	switch g.Tier {
	case TierStandard:
		return json.Marshal(g.Standard)
	case TierModular:
		return json.Marshal(g.Modular)
	case TierAmple:
		return json.Marshal(g.Ample)
	}
	return nil, fmt.Errorf("options: no variant for tier %q", g.Tier)
}
