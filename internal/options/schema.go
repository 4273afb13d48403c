package options

// Kind discriminates the node kinds of the option schema. The string values
// double as the "type" tag in metadata JSON.
type Kind string

const (
	KindBoolean           Kind = "boolean"
	KindString            Kind = "string"
	KindStringArray       Kind = "stringArray"
	KindNumber            Kind = "number"
	KindGroup             Kind = "optionGroup"
	KindToggledGroup      Kind = "toggledOptionGroup"
	KindToggledGroupArray Kind = "toggledOptionGroupArray"
)

// Field is one declared node of the option schema. Leaves carry constraints;
// containers carry sub-fields in declaration order. A toggled-group array
// with Dynamic set is additionally populated from the taxonomy store when
// metadata is compiled.
type Field struct {
	Key         string
	Name        string
	Description string
	Kind        Kind

	// Leaf constraints.
	Default any
	Min     *float64
	Max     *float64
	Step    *float64
	Options []string
	Short   bool

	// Container properties.
	DefaultEnabled bool
	Multiple       bool
	Dynamic        bool
	Fields         []Field
}

func f64(v float64) *float64 { return &v }

// priorityField is the display-priority number every toggled option group
// carries next to its enable switch.
func priorityField(def float64) Field {
	return Field{Key: "priority", Name: "priority", Kind: KindNumber, Default: def}
}

func taxonomiesField(tier Tier) Field {
	field := Field{
		Key:     "taxonomies",
		Name:    "Taxonomies",
		Kind:    KindToggledGroupArray,
		Dynamic: true,
	}
	if tier == TierAmple {
		field.Multiple = true
		return field
	}
	field.Description = "Taxonomies"
	field.Fields = []Field{{
		Key:         NoneTaxonomyName,
		Name:        "No Taxonomy",
		Description: "By toggling this, no background taxonomy is considered.",
		Kind:        KindToggledGroup,
		Fields:      []Field{priorityField(-1000)},
	}}
	return field
}

func educationInfoField(tier Tier) Field {
	level := Field{
		Key:     "educationLevel",
		Name:    "Level",
		Kind:    KindString,
		Default: "Bachelor",
		Options: []string{"Bachelor", "Master", "PhD"},
	}
	if tier == TierAmple {
		level.Name = "EQF Education Level"
		level.Description = "Education level in EQF standards."
		level.Default = "6"
		level.Options = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	}

	fields := []Field{level}
	if tier.AtLeast(TierModular) {
		fields = append(fields, Field{
			Key:  "targetType",
			Name: "Target",
			Description: "The target type of the learning goals, either a full programme, " +
				"a course or a single lecture.",
			Options: []string{"Programme", "Course", "Lecture"},
			Kind:    KindString,
		})
	}
	fields = append(fields,
		Field{Key: "targetName", Name: "Name", Kind: KindString, Short: true},
		Field{
			Key:  "contextDescription",
			Name: "Context Description",
			Description: "Extra information about the context or setting " +
				"which is relevant to the generated learning goals.",
			Kind: KindString,
		},
	)
	if tier.AtLeast(TierModular) {
		fields = append(fields, Field{
			Key:  "previousLearningGoals",
			Name: "Previous Learning Goals",
			Description: "Add previous learning learning goals from study regulations or " +
				"the like to draw inspiration from.",
			Kind: KindString,
		})
	}

	name := "Education Information"
	if tier == TierAmple {
		name = "Education Info"
	}
	return Field{Key: "educationInfo", Name: name, Kind: KindGroup, Fields: fields}
}

func llmSettingsField() Field {
	return Field{
		Key:  "llmSettings",
		Name: "Model Settings",
		Kind: KindGroup,
		Fields: []Field{
			{
				Key:         "model",
				Name:        "Model",
				Description: "Name of the underlying model that generates the learning outcomes.",
				Kind:        KindString,
				Default:     "gpt-4o",
				Options:     []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini"},
			},
			{
				Key:     "temperature",
				Name:    "Temperature",
				Kind:    KindNumber,
				Default: 0.7,
				Min:     f64(0.1),
				Max:     f64(2),
				Step:    f64(0.1),
			},
			{
				Key:     "frequencyPenalty",
				Name:    "Frequency penalty",
				Kind:    KindNumber,
				Default: 0.2,
				Min:     f64(0),
				Max:     f64(1),
				Step:    f64(0.1),
			},
		},
	}
}

func inspirationSeedsField() Field {
	return Field{
		Key:  "inspirationSeeds",
		Name: "Inspiration Seeds",
		Kind: KindGroup,
		Fields: []Field{{
			Key:         "keywords",
			Name:        "Keywords",
			Description: "Keywords used to generate the learning outcomes.",
			Kind:        KindStringArray,
			Short:       true,
		}},
	}
}

func outputOptionsField(tier Tier) Field {
	fields := []Field{
		{
			Key:            "learningGoals",
			Name:           "Learning Goals",
			Description:    "Instruct the LLM to write out a list of learning goals.",
			Kind:           KindToggledGroup,
			DefaultEnabled: true,
			Fields:         []Field{priorityField(0)},
		},
		{
			Key:         "competencyProfile",
			Name:        "Competency Profile",
			Description: "Instruct the LLM to write out a competency profile.",
			Kind:        KindToggledGroup,
			Fields:      []Field{priorityField(0)},
		},
	}
	if tier == TierAmple {
		fields = append(fields,
			Field{
				Key:         "bulletPoints",
				Name:        "Bullet Points",
				Description: "Instruct the LLM to write in bullet points.",
				Kind:        KindToggledGroup,
				Fields: []Field{
					priorityField(0),
					{
						Key:         "numberOfBullets",
						Name:        "Number of Bullets",
						Description: "The number of bullets that the LLM is instructed to write out.",
						Kind:        KindNumber,
						Default:     10,
						Min:         f64(5),
						Max:         f64(25),
					},
					{
						Key:         "nested",
						Name:        "Nested",
						Description: "Whether the LLM is instructed to write out nested bullet points.",
						Kind:        KindBoolean,
						Default:     true,
					},
				},
			},
			Field{
				Key:         "proseDescription",
				Name:        "Prose Description",
				Description: "Instruct the LLM to write a prose description.",
				Kind:        KindToggledGroup,
				Fields: []Field{
					priorityField(0),
					{
						Key:         "numberOfWords",
						Name:        "Number of Words",
						Description: "The number of words that the LLM is instructed to write out.",
						Kind:        KindNumber,
						Default:     250,
						Min:         f64(50),
						Max:         f64(500),
					},
					{
						Key:         "headings",
						Name:        "Headings",
						Description: "Whether the LLM is instructed to write out headings.",
						Kind:        KindBoolean,
						Default:     true,
					},
				},
			},
		)
	}
	return Field{Key: "outputOptions", Name: "Output Options", Kind: KindToggledGroupArray, Fields: fields}
}

func customInputsField() Field {
	return Field{
		Key:  "customInputs",
		Name: "Custom Inputs",
		Kind: KindGroup,
		Fields: []Field{
			{
				Key:         "customInstruction",
				Name:        "Custom Instruction",
				Description: "Custom instructions for the LLM, for example: a specific context, language, situation, etc.",
				Kind:        KindString,
			},
			{
				Key:  "extraInputs",
				Name: "Extra Inputs",
				Description: "Extra inputs akin to taxonomies that the LLM should take into account, for example: previous " +
					"learning outcomes from study regulations, programme or course descriptions, etc.",
				Kind: KindStringArray,
			},
		},
	}
}

// Built once; the schema is constant for the process lifetime.
var schemas = map[Tier][]Field{
	TierStandard: {
		taxonomiesField(TierStandard),
		educationInfoField(TierStandard),
		outputOptionsField(TierStandard),
	},
	TierModular: {
		taxonomiesField(TierModular),
		educationInfoField(TierModular),
		inspirationSeedsField(),
		outputOptionsField(TierModular),
	},
	TierAmple: {
		taxonomiesField(TierAmple),
		educationInfoField(TierAmple),
		llmSettingsField(),
		inspirationSeedsField(),
		outputOptionsField(TierAmple),
		customInputsField(),
	},
}

// Schema returns the declared root fields of a tier in declaration order.
func Schema(tier Tier) []Field {
	return schemas[tier]
}
