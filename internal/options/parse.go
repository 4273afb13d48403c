package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/KasperFyhn/ulgis/internal/types"
)

// ValidationError reports a payload that violates the schema: the offending
// field (dotted path) and the constraint it broke. It is a user error, never
// a schema bug.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var unknownFieldRe = regexp.MustCompile(`unknown field "([^"]+)"`)

// Parse deserializes a raw options payload into the tier's variant and
// enforces every declared constraint. Unknown keys are rejected everywhere
// except inside the taxonomies container, whose membership is dynamic; in
// particular a field that only a higher tier declares is an unknown-field
// error, not something to be silently dropped.
func Parse(tier Tier, raw []byte, taxonomies []*types.Taxonomy) (GenerationOptions, error) {
	opts := GenerationOptions{Tier: tier}
	var err error
	switch tier {
	case TierStandard:
		v := defaultStandard()
		err = strictDecode(raw, &v)
		opts.Standard = &v
	case TierModular:
		v := defaultModular()
		err = strictDecode(raw, &v)
		opts.Modular = &v
	case TierAmple:
		v := defaultAmple()
		err = strictDecode(raw, &v)
		opts.Ample = &v
	default:
		return GenerationOptions{}, fmt.Errorf("parse options: unknown tier %q", tier)
	}
	if err != nil {
		return GenerationOptions{}, asValidationError(err)
	}

	// Multiple is a schema constant, not a client choice.
	opts.Taxonomies().Multiple = tier == TierAmple

	if err := validate(opts, taxonomies); err != nil {
		return GenerationOptions{}, err
	}
	return opts, nil
}

func strictDecode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func asValidationError(err error) error {
	msg := err.Error()
	if m := unknownFieldRe.FindStringSubmatch(msg); m != nil {
		return invalid(m[1], "unknown field for this ui level")
	}
	return &ValidationError{Message: msg}
}

func defaultStandard() StandardOptions {
	return StandardOptions{
		Taxonomies:    NewTaxonomyArray(false),
		EducationInfo: EducationInfo{EducationLevel: "Bachelor"},
		OutputOptions: defaultOutputOptions(),
	}
}

func defaultModular() ModularOptions {
	return ModularOptions{
		Taxonomies: NewTaxonomyArray(false),
		EducationInfo: ModularEducationInfo{
			EducationInfo: EducationInfo{EducationLevel: "Bachelor"},
		},
		OutputOptions: defaultOutputOptions(),
	}
}

func defaultAmple() AmpleOptions {
	return AmpleOptions{
		Taxonomies: NewTaxonomyArray(true),
		EducationInfo: ModularEducationInfo{
			EducationInfo: EducationInfo{EducationLevel: "6"},
		},
		LlmSettings: LlmSettings{Model: "gpt-4o", Temperature: 0.7, FrequencyPenalty: 0.2},
		OutputOptions: AmpleOutputOptions{
			OutputOptions: defaultOutputOptions(),
			BulletPoints: BulletPointOptions{
				NumberOfBullets: 10,
				Nested:          true,
			},
			ProseDescription: ProseDescriptionOptions{
				NumberOfWords: 250,
				Headings:      true,
			},
		},
	}
}

func defaultOutputOptions() OutputOptions {
	return OutputOptions{LearningGoals: ToggledGroup{Enabled: true}}
}

func validate(opts GenerationOptions, taxonomies []*types.Taxonomy) error {
	if err := validateEducation(opts); err != nil {
		return err
	}
	if err := validateOutput(opts); err != nil {
		return err
	}
	if err := validateSettings(opts); err != nil {
		return err
	}
	return validateTaxonomies(opts, taxonomies)
}

func validateEducation(opts GenerationOptions) error {
	levelOptions := []string{"Bachelor", "Master", "PhD"}
	if opts.Tier == TierAmple {
		levelOptions = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	}
	education := opts.Education()
	if !contains(levelOptions, education.EducationLevel) {
		return invalid("educationInfo.educationLevel",
			"must be one of %s", strings.Join(levelOptions, ", "))
	}
	if modular, ok := opts.ModularEducation(); ok && modular.TargetType != "" {
		targetOptions := []string{"Programme", "Course", "Lecture"}
		if !contains(targetOptions, modular.TargetType) {
			return invalid("educationInfo.targetType",
				"must be one of %s", strings.Join(targetOptions, ", "))
		}
	}
	return nil
}

func validateOutput(opts GenerationOptions) error {
	ample, ok := opts.AmpleOutput()
	if !ok {
		return nil
	}
	if err := checkRange("outputOptions.bulletPoints.numberOfBullets",
		float64(ample.BulletPoints.NumberOfBullets), 5, 25); err != nil {
		return err
	}
	return checkRange("outputOptions.proseDescription.numberOfWords",
		float64(ample.ProseDescription.NumberOfWords), 50, 500)
}

func validateSettings(opts GenerationOptions) error {
	settings, ok := opts.Settings()
	if !ok {
		return nil
	}
	modelOptions := []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini"}
	if !contains(modelOptions, settings.Model) {
		return invalid("llmSettings.model", "must be one of %s", strings.Join(modelOptions, ", "))
	}
	if err := checkRange("llmSettings.temperature", settings.Temperature, 0.1, 2); err != nil {
		return err
	}
	return checkRange("llmSettings.frequencyPenalty", settings.FrequencyPenalty, 0, 1)
}

func validateTaxonomies(opts GenerationOptions, taxonomies []*types.Taxonomy) error {
	byName := make(map[string]*types.Taxonomy, len(taxonomies))
	for _, taxonomy := range taxonomies {
		byName[taxonomy.Name] = taxonomy
	}

	array := opts.Taxonomies()
	for _, entry := range array.All() {
		path := "taxonomies." + entry.Name
		if entry.Name == NoneTaxonomyName {
			if opts.Tier == TierAmple {
				return invalid(path, "not available on this ui level")
			}
			continue
		}
		record, known := byName[entry.Name]
		if !known {
			if entry.Selection.Enabled {
				return invalid(path, "unknown taxonomy")
			}
			// A disabled leftover from a since-deleted taxonomy is harmless.
			continue
		}
		steps := record.StepType.Steps()
		paramNames := make(map[string]bool, len(record.Parameters))
		for _, param := range record.Parameters {
			paramNames[param.Name] = true
		}
		for _, level := range entry.Selection.Params() {
			paramPath := path + "." + level.Name
			if !paramNames[level.Name] {
				return invalid(paramPath, "unknown taxonomy parameter")
			}
			if err := checkRange(paramPath, float64(level.Level), 0, float64(len(steps)-1)); err != nil {
				return err
			}
		}
	}

	if !array.Multiple && array.EnabledCount() > 1 {
		return invalid("taxonomies", "at most one taxonomy may be enabled on this ui level")
	}
	return nil
}

func checkRange(field string, value, min, max float64) error {
	if value < min || value > max {
		return invalid(field, "must be between %v and %v", min, max)
	}
	return nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
