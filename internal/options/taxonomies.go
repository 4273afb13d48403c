package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// NoneTaxonomyName is the reserved pseudo-taxonomy representing "no background
// taxonomy selected". It exists on the Standard and Modular tiers only.
const NoneTaxonomyName = "none"

// ParamLevel is one taxonomy parameter with its requested competency level.
type ParamLevel struct {
	Name  string
	Level int
}

// TaxonomySelection is the value of one named entry in the taxonomies
// container. Besides the toggled-group head, every other key of the inbound
// object is a parameter level; this is the single open extension point of the
// options payload since taxonomy names and parameters live in the database.
type TaxonomySelection struct {
	Enabled  bool
	Priority float64

	levels map[string]int
	order  []string
}

func NewTaxonomySelection(enabled bool, priority float64, params []ParamLevel) TaxonomySelection {
	s := TaxonomySelection{Enabled: enabled, Priority: priority}
	for _, p := range params {
		s.SetLevel(p.Name, p.Level)
	}
	return s
}

func (s *TaxonomySelection) SetLevel(param string, level int) {
	if s.levels == nil {
		s.levels = map[string]int{}
	}
	if _, seen := s.levels[param]; !seen {
		s.order = append(s.order, param)
	}
	s.levels[param] = level
}

func (s TaxonomySelection) Level(param string) (int, bool) {
	v, ok := s.levels[param]
	return v, ok
}

// Params returns the parameter levels in the order they were submitted.
func (s TaxonomySelection) Params() []ParamLevel {
	out := make([]ParamLevel, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, ParamLevel{Name: name, Level: s.levels[name]})
	}
	return out
}

func (s *TaxonomySelection) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("taxonomy selection: expected an object")
	}
	*s = TaxonomySelection{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		switch key {
		case "enabled":
			if err := dec.Decode(&s.Enabled); err != nil {
				return fmt.Errorf("taxonomy selection: enabled: %w", err)
			}
		case "priority":
			if err := dec.Decode(&s.Priority); err != nil {
				return fmt.Errorf("taxonomy selection: priority: %w", err)
			}
		default:
			var num json.Number
			if err := dec.Decode(&num); err != nil {
				return fmt.Errorf("taxonomy parameter %q: expected a number", key)
			}
			level, err := strconv.Atoi(num.String())
			if err != nil {
				return fmt.Errorf("taxonomy parameter %q: level must be an integer", key)
			}
			s.SetLevel(key, level)
		}
	}
	return nil
}

func (s TaxonomySelection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	fmt.Fprintf(&buf, `"enabled":%t,"priority":%s`,
		s.Enabled, strconv.FormatFloat(s.Priority, 'f', -1, 64))
	for _, name := range s.order {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(s.levels[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NamedSelection pairs a taxonomy name with its selection.
type NamedSelection struct {
	Name      string
	Selection TaxonomySelection
}

// TaxonomyArray is the root taxonomies container: a toggled option group
// array whose membership comes from the taxonomy store at runtime. Multiple
// governs whether more than one member may be enabled at once.
type TaxonomyArray struct {
	Multiple bool

	groups map[string]TaxonomySelection
	order  []string
}

func NewTaxonomyArray(multiple bool) TaxonomyArray {
	return TaxonomyArray{Multiple: multiple}
}

func (a *TaxonomyArray) Set(name string, sel TaxonomySelection) {
	if a.groups == nil {
		a.groups = map[string]TaxonomySelection{}
	}
	if _, seen := a.groups[name]; !seen {
		a.order = append(a.order, name)
	}
	a.groups[name] = sel
}

func (a TaxonomyArray) Get(name string) (TaxonomySelection, bool) {
	sel, ok := a.groups[name]
	return sel, ok
}

// All returns every submitted selection, including the reserved "none" entry,
// in submission order.
func (a TaxonomyArray) All() []NamedSelection {
	out := make([]NamedSelection, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, NamedSelection{Name: name, Selection: a.groups[name]})
	}
	return out
}

// Enabled returns the enabled real taxonomies (the "none" pseudo-taxonomy is
// skipped) ordered by priority, highest first, name as tiebreaker. The fixed
// order keeps prompt rendering deterministic.
func (a TaxonomyArray) Enabled() []NamedSelection {
	var out []NamedSelection
	for _, name := range a.order {
		if name == NoneTaxonomyName {
			continue
		}
		if sel := a.groups[name]; sel.Enabled {
			out = append(out, NamedSelection{Name: name, Selection: sel})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Selection.Priority != out[j].Selection.Priority {
			return out[i].Selection.Priority > out[j].Selection.Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IsAnyEnabled reports whether some taxonomy other than "none" is enabled.
func (a TaxonomyArray) IsAnyEnabled() bool {
	for name, sel := range a.groups {
		if name != NoneTaxonomyName && sel.Enabled {
			return true
		}
	}
	return false
}

// EnabledCount counts enabled entries including "none"; non-combinable tiers
// allow at most one.
func (a TaxonomyArray) EnabledCount() int {
	n := 0
	for _, sel := range a.groups {
		if sel.Enabled {
			n++
		}
	}
	return n
}

func (a *TaxonomyArray) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("taxonomies: expected an object")
	}
	multiple := a.Multiple
	*a = TaxonomyArray{Multiple: multiple}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		if key == "multiple" {
			if err := dec.Decode(&a.Multiple); err != nil {
				return fmt.Errorf("taxonomies: multiple: %w", err)
			}
			continue
		}
		var sel TaxonomySelection
		if err := dec.Decode(&sel); err != nil {
			return fmt.Errorf("taxonomy %q: %w", key, err)
		}
		a.Set(key, sel)
	}
	return nil
}

func (a TaxonomyArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	fmt.Fprintf(&buf, `"multiple":%t`, a.Multiple)
	for _, name := range a.order {
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.groups[name])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
