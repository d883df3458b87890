package frontmatter

import "gopkg.in/yaml.v3"

// ToMap converts Metadata back into the mapping form it was parsed from.
// Extra keys are included only when they were preserved.
func (m Metadata) ToMap() map[string]any {
	out := map[string]any{}
	if len(m.Tags) > 0 {
		tags := make([]any, len(m.Tags))
		for i, t := range m.Tags {
			tags[i] = t
		}
		out["tags"] = tags
	}
	if m.Source != "" {
		out["source"] = m.Source
	}
	for k, v := range m.Extra {
		out[k] = v
	}
	return out
}

// Serialize emits Metadata as a YAML block suitable for re-parsing.
// yaml.v3 sorts mapping keys, so output is deterministic.
func Serialize(m Metadata) ([]byte, error) {
	return yaml.Marshal(m.ToMap())
}
