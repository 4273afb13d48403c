package options

import (
	"testing"

	"github.com/KasperFyhn/ulgis/internal/types"
)

func compileFor(t *testing.T, tier Tier) Group {
	t.Helper()
	group, err := Compile(tier, testTaxonomies())
	if err != nil {
		t.Fatalf("Compile(%s): %v", tier, err)
	}
	return group
}

func taxonomyArrayNode(t *testing.T, group Group) ToggledGroupArrayMetadata {
	t.Helper()
	node, ok := group.Get("taxonomies")
	if !ok {
		t.Fatal("metadata has no taxonomies entry")
	}
	array, ok := node.(ToggledGroupArrayMetadata)
	if !ok {
		t.Fatalf("taxonomies node is %T", node)
	}
	return array
}

func TestCompile_TopLevelKeysPerTier(t *testing.T) {
	cases := []struct {
		tier Tier
		keys []string
	}{
		{TierStandard, []string{"taxonomies", "educationInfo", "outputOptions"}},
		{TierModular, []string{"taxonomies", "educationInfo", "inspirationSeeds", "outputOptions"}},
		{TierAmple, []string{
			"taxonomies", "educationInfo", "llmSettings",
			"inspirationSeeds", "outputOptions", "customInputs",
		}},
	}
	for _, tc := range cases {
		keys := compileFor(t, tc.tier).Keys()
		if len(keys) != len(tc.keys) {
			t.Fatalf("%s: keys %v, want %v", tc.tier, keys, tc.keys)
		}
		for i := range tc.keys {
			if keys[i] != tc.keys[i] {
				t.Fatalf("%s: keys %v, want %v", tc.tier, keys, tc.keys)
			}
		}
	}
}

func TestCompile_RefinementInvariant(t *testing.T) {
	// Every field a lower tier declares exists with the same kind in the
	// higher tiers.
	kindOf := func(node any) Kind {
		switch n := node.(type) {
		case BooleanMetadata:
			return n.Type
		case StringMetadata:
			return n.Type
		case StringArrayMetadata:
			return n.Type
		case NumberMetadata:
			return n.Type
		case GroupMetadata:
			return n.Type
		case ToggledGroupMetadata:
			return n.Type
		case ToggledGroupArrayMetadata:
			return n.Type
		}
		return ""
	}
	pairs := []struct{ lower, higher Tier }{
		{TierStandard, TierModular},
		{TierModular, TierAmple},
	}
	for _, pair := range pairs {
		lower := compileFor(t, pair.lower)
		higher := compileFor(t, pair.higher)
		for _, key := range lower.Keys() {
			lowerNode, _ := lower.Get(key)
			higherNode, ok := higher.Get(key)
			if !ok {
				t.Fatalf("%s lacks %q declared by %s", pair.higher, key, pair.lower)
			}
			if kindOf(lowerNode) != kindOf(higherNode) {
				t.Fatalf("%q changes kind between %s and %s", key, pair.lower, pair.higher)
			}
		}
	}
}

func TestCompile_UnknownTier(t *testing.T) {
	if _, err := Compile(Tier("expert"), nil); err == nil {
		t.Fatal("expected an error for an unknown tier")
	}
}

func TestCompile_TaxonomiesMergeStoreRecords(t *testing.T) {
	array := taxonomyArrayNode(t, compileFor(t, TierStandard))
	if array.Multiple {
		t.Fatal("standard tier must compile as single-choice")
	}
	keys := array.Groups.Keys()
	// The static none member first, then store records by priority.
	want := []string{"none", "Bloom's Taxonomy", "SOLO Taxonomy"}
	if len(keys) != len(want) {
		t.Fatalf("member keys %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("member keys %v, want %v", keys, want)
		}
	}

	node, _ := array.Groups.Get("none")
	none := node.(ToggledGroupMetadata)
	prioNode, ok := none.Group.Get("priority")
	if !ok {
		t.Fatal("none member has no priority field")
	}
	if prio := prioNode.(NumberMetadata); prio.Default != -1000 {
		t.Fatalf("none priority default = %v, want -1000", prio.Default)
	}
}

func TestCompile_AmpleHasNoNoneMember(t *testing.T) {
	array := taxonomyArrayNode(t, compileFor(t, TierAmple))
	if !array.Multiple {
		t.Fatal("ample tier must compile as combinable")
	}
	if _, ok := array.Groups.Get("none"); ok {
		t.Fatal("combinable tier must not offer the none pseudo-taxonomy")
	}
}

func TestCompile_ParameterFieldsFollowStepLadder(t *testing.T) {
	array := taxonomyArrayNode(t, compileFor(t, TierAmple))

	node, ok := array.Groups.Get("SOLO Taxonomy")
	if !ok {
		t.Fatal("SOLO Taxonomy missing from metadata")
	}
	group := node.(ToggledGroupMetadata)
	paramNode, ok := group.Group.Get("structure")
	if !ok {
		t.Fatal("structure parameter missing")
	}
	param := paramNode.(NumberMetadata)
	if param.Min == nil || *param.Min != 0 || param.Max == nil || *param.Max != 3 {
		t.Fatalf("attention ladder range wrong: %+v", param)
	}
	if len(param.Steps) != 4 || param.Steps[3] != "high attention" {
		t.Fatalf("attention ladder labels wrong: %v", param.Steps)
	}
}

func TestCompile_DisabledParametersAreHidden(t *testing.T) {
	taxonomies := []*types.Taxonomy{{
		Name:     "Bloom's Taxonomy",
		StepType: types.StepTypeLevel,
		Parameters: []types.TaxonomyParameter{
			{Name: "remember"},
			{Name: "legacy", Disabled: true},
		},
	}}
	group, err := Compile(TierAmple, taxonomies)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	array := taxonomyArrayNode(t, group)
	node, _ := array.Groups.Get("Bloom's Taxonomy")
	members := node.(ToggledGroupMetadata).Group.Keys()
	if len(members) != 1 || members[0] != "remember" {
		t.Fatalf("disabled parameter leaked into metadata: %v", members)
	}
}
