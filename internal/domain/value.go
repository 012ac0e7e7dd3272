package domain

import (
	"fmt"
	"math"
	"strings"
)

// ValueName identifies a user-defined value such as "Family" or "Health".
type ValueName string

// ParseValueName trims and validates a raw value name.
func ParseValueName(raw string) (ValueName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrInvalidValueName
	}
	return ValueName(name), nil
}

// ValueNames converts raw strings into validated names, preserving order.
func ValueNames(raw []string) ([]ValueName, error) {
	out := make([]ValueName, 0, len(raw))
	for _, r := range raw {
		name, err := ParseValueName(r)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// ValueProfile is the user's selected values, their priority weights and the
// activity labels associated with each value.
type ValueProfile struct {
	Values      []ValueName            `json:"values"`
	Priorities  map[ValueName]float64  `json:"priorities"`
	Definitions map[ValueName][]string `json:"definitions"`
}

// NewValueProfile validates the supplied maps against the ordered value list.
// Keys that are not part of values are rejected here so lookups never have to.
// The sum of priorities is not checked; the priority normalizer owns that.
func NewValueProfile(values []ValueName, priorities map[ValueName]float64, definitions map[ValueName][]string) (*ValueProfile, error) {
	seen := make(map[ValueName]struct{}, len(values))
	ordered := make([]ValueName, 0, len(values))
	for _, v := range values {
		name, err := ParseValueName(string(v))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateValue, name)
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}

	profile := &ValueProfile{
		Values:      ordered,
		Priorities:  make(map[ValueName]float64, len(ordered)),
		Definitions: make(map[ValueName][]string, len(ordered)),
	}

	for key, weight := range priorities {
		if _, ok := seen[key]; !ok {
			return nil, fmt.Errorf("%w: priority for %q", ErrUnknownValue, key)
		}
		if math.IsNaN(weight) || weight < 0 || weight > 100 {
			return nil, fmt.Errorf("%w: %q=%v", ErrInvalidPriority, key, weight)
		}
		profile.Priorities[key] = weight
	}

	for key, labels := range definitions {
		if _, ok := seen[key]; !ok {
			return nil, fmt.Errorf("%w: definitions for %q", ErrUnknownValue, key)
		}
		cleaned := make([]string, 0, len(labels))
		for _, label := range labels {
			label = strings.TrimSpace(label)
			if label != "" && !containsString(cleaned, label) {
				cleaned = append(cleaned, label)
			}
		}
		profile.Definitions[key] = cleaned
	}

	return profile, nil
}

// NewOnboardedProfile builds the profile created at the end of onboarding:
// equal priority shares and a placeholder definition per value.
func NewOnboardedProfile(values []ValueName) (*ValueProfile, error) {
	if len(values) == 0 {
		return nil, ErrNoValuesSelected
	}
	share := 100 / float64(len(values))
	priorities := make(map[ValueName]float64, len(values))
	definitions := make(map[ValueName][]string, len(values))
	for _, v := range values {
		priorities[v] = share
		definitions[v] = []string{fmt.Sprintf("Define what %s means to you", v)}
	}
	return NewValueProfile(values, priorities, definitions)
}

// Has reports whether v is one of the profile's values.
func (p *ValueProfile) Has(v ValueName) bool {
	for _, existing := range p.Values {
		if existing == v {
			return true
		}
	}
	return false
}

// Priority returns the configured weight for v, or 0 when unset.
func (p *ValueProfile) Priority(v ValueName) float64 {
	if p.Priorities == nil {
		return 0
	}
	return p.Priorities[v]
}

// AddDefinition appends an activity label to a value's definitions. Duplicates are ignored.
func (p *ValueProfile) AddDefinition(v ValueName, label string) error {
	if !p.Has(v) {
		return fmt.Errorf("%w: %q", ErrUnknownValue, v)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyDefinition
	}
	if p.Definitions == nil {
		p.Definitions = make(map[ValueName][]string)
	}
	if containsString(p.Definitions[v], label) {
		return nil
	}
	p.Definitions[v] = append(p.Definitions[v], label)
	return nil
}

// RemoveDefinition drops an activity label from a value's definitions.
func (p *ValueProfile) RemoveDefinition(v ValueName, label string) error {
	if !p.Has(v) {
		return fmt.Errorf("%w: %q", ErrUnknownValue, v)
	}
	if p.Definitions == nil {
		return nil
	}
	current := p.Definitions[v]
	kept := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != label {
			kept = append(kept, existing)
		}
	}
	p.Definitions[v] = kept
	return nil
}

// QuickActivities flattens definitions in profile order, dropping duplicates.
func (p *ValueProfile) QuickActivities(limit int) []string {
	out := make([]string, 0)
	for _, v := range p.Values {
		for _, label := range p.Definitions[v] {
			if containsString(out, label) {
				continue
			}
			out = append(out, label)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate without touching stored snapshots.
func (p *ValueProfile) Clone() *ValueProfile {
	if p == nil {
		return nil
	}
	out := &ValueProfile{
		Values:      append([]ValueName(nil), p.Values...),
		Priorities:  make(map[ValueName]float64, len(p.Priorities)),
		Definitions: make(map[ValueName][]string, len(p.Definitions)),
	}
	for k, v := range p.Priorities {
		out.Priorities[k] = v
	}
	for k, v := range p.Definitions {
		out.Definitions[k] = append([]string(nil), v...)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
