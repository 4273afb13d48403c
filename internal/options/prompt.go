package options

import (
	"fmt"
	"strings"

	"github.com/KasperFyhn/ulgis/internal/types"
)

// TaxonomyDoc carries the pieces of a stored taxonomy the prompt needs: its
// full description text and the competency step ladder of its parameters.
type TaxonomyDoc struct {
	Text  string
	Steps []string
}

// BuildPrompt renders validated options into the final LLM prompt. It is a
// total function: every validated options value produces a prompt, and values
// that slipped past validation degrade gracefully (missing docs render empty,
// out-of-range levels clamp to the ladder) rather than erroring mid-request.
func BuildPrompt(opts GenerationOptions, docs map[string]TaxonomyDoc) string {
	var b strings.Builder
	enabled := opts.Taxonomies().Enabled()

	if len(enabled) > 0 {
		b.WriteString("Below are descriptions of educational taxonomies as background information:\n\n")
		for _, entry := range enabled {
			fmt.Fprintf(&b, "Title: %s\n\n", entry.Name)
			if doc, ok := docs[entry.Name]; ok {
				b.WriteString(doc.Text)
			}
			b.WriteString("\n\n")
		}
	}

	if customs, ok := opts.Customs(); ok && len(customs.ExtraInputs) > 0 {
		b.WriteString("Also pay heed to the following information:\n\n")
		for _, value := range customs.ExtraInputs {
			if value != "" {
				fmt.Fprintf(&b, "%s:\n\n", value)
			}
		}
	}

	if len(enabled) > 0 {
		b.WriteString("Your response should be based on the provided taxonomies where you aim for the " +
			"following levels of competency for the described aspects:\n")
		for _, entry := range enabled {
			fmt.Fprintf(&b, "- %s\n", entry.Name)
			steps := docs[entry.Name].Steps
			for _, param := range entry.Selection.Params() {
				if param.Level == 0 {
					fmt.Fprintf(&b, "\t- Ignore '%s'.\n", param.Name)
				} else {
					fmt.Fprintf(&b, "\t- Aim for a %s level for '%s'.\n", stepLabel(steps, param.Level), param.Name)
				}
			}
		}
		b.WriteString("\n\n")
	}

	education := opts.Education()
	targetType := "education"
	if modular, ok := opts.ModularEducation(); ok && modular.TargetType != "" {
		targetType = strings.ToLower(modular.TargetType)
	}
	targetName := strings.TrimSpace(education.TargetName)
	var level string
	if opts.Tier == TierAmple {
		level = "EQF level " + education.EducationLevel
	} else {
		level = education.EducationLevel + " level"
	}

	if education.ContextDescription != "" {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Your response should fit with the %s", targetType)
		if targetName != "" {
			b.WriteString(" called " + targetName)
		}
		fmt.Fprintf(&b, " at %s where you take into account the following contextual information: %s",
			level, education.ContextDescription)
		b.WriteString("\n\n")
	}

	if modular, ok := opts.ModularEducation(); ok && modular.PreviousLearningGoals != "" {
		b.WriteString("Take into account these previous learning goals:\n")
		b.WriteString(modular.PreviousLearningGoals)
		b.WriteString("\n\n")
	}

	if customs, ok := opts.Customs(); ok && customs.CustomInstruction != "" {
		b.WriteString(customs.CustomInstruction)
		b.WriteString("\n\n")
	}

	var targetPhrase string
	if targetName != "" {
		targetPhrase = fmt.Sprintf("for the %s %s at %s.", targetType, targetName, level)
	} else {
		targetPhrase = fmt.Sprintf("for any %s at %s.", targetType, level)
	}

	output := opts.Output()
	ample, hasAmple := opts.AmpleOutput()
	switch {
	case output.LearningGoals.Enabled:
		b.WriteString("Create a list of learning goals " + targetPhrase)
	case output.CompetencyProfile.Enabled:
		b.WriteString("Create a 200 word competency profile " + targetPhrase)
	case hasAmple && ample.BulletPoints.Enabled:
		negation := ""
		if !ample.BulletPoints.Nested {
			negation = "NOT"
		}
		fmt.Fprintf(&b, "Create learning outcomes in %d bullet points which can %s be nested %s",
			ample.BulletPoints.NumberOfBullets, negation, targetPhrase)
	case hasAmple && ample.ProseDescription.Enabled:
		headings := "Include"
		if !ample.ProseDescription.Headings {
			headings = "Do NOT include"
		}
		fmt.Fprintf(&b, "Create a prose description of %d words and NOT bullet points which addresses "+
			"learning outcomes %s %s headings.",
			ample.ProseDescription.NumberOfWords, targetPhrase, headings)
	}
	b.WriteString("\n\n")

	if seeds, ok := opts.Seeds(); ok && len(seeds.Keywords) > 0 {
		b.WriteString("Use these keywords as seed for inspiration: " + strings.Join(seeds.Keywords, ", "))
	}

	return strings.TrimSpace(b.String())
}

func stepLabel(steps []string, level int) string {
	if len(steps) == 0 {
		steps = types.StepTypeLevel.Steps()
	}
	if level < 0 {
		level = 0
	}
	if level >= len(steps) {
		level = len(steps) - 1
	}
	return steps[level]
}
