package options

import (
	"bytes"
	"encoding/json"
)

// Metadata nodes mirror the option schema for UI consumption. They marshal to
// camelCased JSON discriminated by "type". Group members keep declaration
// order, which is meaningful for rendering; plain Go maps would lose it, so
// groups marshal through the ordered Group type.

type GroupEntry struct {
	Key   string
	Value any
}

// Group is an ordered JSON object of named metadata nodes.
type Group []GroupEntry

func (g Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get looks a member up by key; order-preserving lookup helper for tests and
// the compiler's dynamic merge.
func (g Group) Get(key string) (any, bool) {
	for _, entry := range g {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

func (g Group) Keys() []string {
	keys := make([]string, len(g))
	for i, entry := range g {
		keys[i] = entry.Key
	}
	return keys
}

type metadataBase struct {
	Type        Kind   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type BooleanMetadata struct {
	metadataBase
	Default *bool `json:"default,omitempty"`
}

type StringMetadata struct {
	metadataBase
	Default *string  `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
	Short   bool     `json:"short,omitempty"`
}

type StringArrayMetadata struct {
	metadataBase
	Default []string `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
}

type NumberMetadata struct {
	metadataBase
	Default float64  `json:"default"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    float64  `json:"step"`
	Steps   []string `json:"steps,omitempty"`
}

type GroupMetadata struct {
	metadataBase
	Group Group `json:"group"`
}

type ToggledGroupMetadata struct {
	metadataBase
	Default bool  `json:"default"`
	Group   Group `json:"group"`
}

type ToggledGroupArrayMetadata struct {
	metadataBase
	Multiple bool  `json:"multiple"`
	Groups   Group `json:"groups"`
}
