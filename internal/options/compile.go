package options

import (
	"fmt"
	"sort"

	"github.com/KasperFyhn/ulgis/internal/types"
)

// Compile walks the tier's schema declaration and produces the UI-facing
// metadata tree. Toggled-group arrays marked Dynamic are merged with one
// group per taxonomy record: the member key is the taxonomy name, its
// description is the short description, and its sub-fields are one number
// field per parameter whose range is derived from the taxonomy's step ladder.
//
// An unrecognized field kind means the schema declaration itself is broken;
// it surfaces as an error rather than a silently dropped field.
func Compile(tier Tier, taxonomies []*types.Taxonomy) (Group, error) {
	if _, ok := tierRank[tier]; !ok {
		return nil, fmt.Errorf("compile metadata: unknown tier %q", tier)
	}
	return compileFields(Schema(tier), taxonomies)
}

func compileFields(fields []Field, taxonomies []*types.Taxonomy) (Group, error) {
	group := make(Group, 0, len(fields))
	for _, field := range fields {
		node, err := compileField(field, taxonomies)
		if err != nil {
			return nil, err
		}
		group = append(group, GroupEntry{Key: field.Key, Value: node})
	}
	return group, nil
}

func compileField(field Field, taxonomies []*types.Taxonomy) (any, error) {
	base := metadataBase{Type: field.Kind, Name: field.Name, Description: field.Description}
	switch field.Kind {
	case KindBoolean:
		node := BooleanMetadata{metadataBase: base}
		if v, ok := field.Default.(bool); ok {
			node.Default = &v
		}
		return node, nil

	case KindString:
		node := StringMetadata{metadataBase: base, Options: field.Options, Short: field.Short}
		if v, ok := field.Default.(string); ok {
			node.Default = &v
		}
		return node, nil

	case KindStringArray:
		node := StringArrayMetadata{metadataBase: base, Options: field.Options}
		if v, ok := field.Default.([]string); ok {
			node.Default = v
		}
		return node, nil

	case KindNumber:
		node := NumberMetadata{
			metadataBase: base,
			Default:      numericDefault(field.Default),
			Min:          field.Min,
			Max:          field.Max,
			Step:         1,
		}
		if field.Step != nil {
			node.Step = *field.Step
		}
		return node, nil

	case KindGroup:
		sub, err := compileFields(field.Fields, taxonomies)
		if err != nil {
			return nil, err
		}
		return GroupMetadata{metadataBase: base, Group: sub}, nil

	case KindToggledGroup:
		sub, err := compileFields(field.Fields, taxonomies)
		if err != nil {
			return nil, err
		}
		return ToggledGroupMetadata{metadataBase: base, Default: field.DefaultEnabled, Group: sub}, nil

	case KindToggledGroupArray:
		sub, err := compileFields(field.Fields, taxonomies)
		if err != nil {
			return nil, err
		}
		if field.Dynamic {
			sub = append(sub, taxonomyGroups(taxonomies)...)
		}
		return ToggledGroupArrayMetadata{metadataBase: base, Multiple: field.Multiple, Groups: sub}, nil

	default:
		return nil, fmt.Errorf("compile metadata: unsupported field kind %q for %q", field.Kind, field.Key)
	}
}

func numericDefault(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

// taxonomyGroups materializes store records as toggled-group metadata,
// ordered by priority (highest first) with name as tiebreaker.
func taxonomyGroups(taxonomies []*types.Taxonomy) Group {
	sorted := make([]*types.Taxonomy, len(taxonomies))
	copy(sorted, taxonomies)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})

	group := make(Group, 0, len(sorted))
	for _, taxonomy := range sorted {
		steps := taxonomy.StepType.Steps()
		params := make(Group, 0, len(taxonomy.Parameters))
		for _, param := range taxonomy.Parameters {
			if param.Disabled {
				continue
			}
			params = append(params, GroupEntry{Key: param.Name, Value: NumberMetadata{
				metadataBase: metadataBase{Type: KindNumber, Name: param.Name},
				Default:      0,
				Min:          f64(0),
				Max:          f64(float64(len(steps) - 1)),
				Step:         1,
				Steps:        steps,
			}})
		}
		group = append(group, GroupEntry{Key: taxonomy.Name, Value: ToggledGroupMetadata{
			metadataBase: metadataBase{
				Type:        KindToggledGroup,
				Name:        taxonomy.Name,
				Description: taxonomy.ShortDescription,
			},
			Default: false,
			Group:   params,
		}})
	}
	return group
}
