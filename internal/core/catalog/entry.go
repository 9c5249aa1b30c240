// Package catalog provides the component catalog: the immutable set of
// templates a pipeline node can be instantiated from.
package catalog

import "fmt"

// Role tells whether a handle receives or emits data
type Role string

const (
	// RoleInput is a handle on the left edge of a node card
	RoleInput Role = "input"
	// RoleOutput is a handle on the right edge of a node card
	RoleOutput Role = "output"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleInput || r == RoleOutput
}

// Opposite returns the role a compatible handle must have
func (r Role) Opposite() Role {
	if r == RoleInput {
		return RoleOutput
	}
	return RoleInput
}

// Kind is the coarse component type shown in exported pipelines
type Kind string

const (
	KindSource    Kind = "Source"
	KindFilter    Kind = "Filter"
	KindAggregate Kind = "Aggregate"
	KindJoin      Kind = "Join"
	KindTransform Kind = "Transform"
	KindOutput    Kind = "Output"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindSource, KindFilter, KindAggregate, KindJoin, KindTransform, KindOutput:
		return true
	}
	return false
}

// Handle is a named connection point declared by an entry
type Handle struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Entry is the template a node is created from
// PRINCIPLES:
// - KISS: Pure data, no behaviour beyond lookups
// - Immutable once registered in a Catalog
type Entry struct {
	Name          string                 `json:"name" yaml:"name"`
	Kind          Kind                   `json:"kind,omitempty" yaml:"kind"`
	Description   string                 `json:"description,omitempty" yaml:"description"`
	Icon          Icon                   `json:"icon" yaml:"icon"`
	Category      Category               `json:"category" yaml:"category"`
	Inputs        []Handle               `json:"inputs" yaml:"inputs"`
	Outputs       []Handle               `json:"outputs" yaml:"outputs"`
	DefaultConfig map[string]interface{} `json:"defaultConfig" yaml:"defaultConfig"`
}

// Validate ensures entry integrity
func (e *Entry) Validate() error {
	if e.Name == "" {
		return ErrInvalidEntryName
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q (component %q)", ErrUnknownCategory, e.Category, e.Name)
	}
	if !e.Icon.Valid() {
		return fmt.Errorf("%w: %q (component %q)", ErrUnknownIcon, e.Icon, e.Name)
	}
	if e.Kind != "" && !e.Kind.Valid() {
		return fmt.Errorf("%w: %q (component %q)", ErrUnknownKind, e.Kind, e.Name)
	}
	if err := validateHandles(e.Name, e.Inputs); err != nil {
		return err
	}
	if err := validateHandles(e.Name, e.Outputs); err != nil {
		return err
	}
	if name, ok := e.DefaultConfig["name"].(string); !ok || name == "" {
		return fmt.Errorf("%w (component %q)", ErrMissingName, e.Name)
	}
	return nil
}

func validateHandles(component string, handles []Handle) error {
	seen := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		if h.ID == "" {
			return fmt.Errorf("%w (component %q)", ErrInvalidHandleID, component)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("%w: %q (component %q)", ErrDuplicateHandle, h.ID, component)
		}
		seen[h.ID] = struct{}{}
	}
	return nil
}

// Handles returns the ordered handle list for role
func (e *Entry) Handles(role Role) []Handle {
	if role == RoleInput {
		return e.Inputs
	}
	return e.Outputs
}

// HandleIndex returns the position of handle id in the role's list, or -1
func (e *Entry) HandleIndex(role Role, id string) int {
	for i, h := range e.Handles(role) {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// HasHandle reports whether the entry declares handle id for role
func (e *Entry) HasHandle(role Role, id string) bool {
	return e.HandleIndex(role, id) >= 0
}

// NewConfig returns a detached copy of the default configuration
func (e *Entry) NewConfig() map[string]interface{} {
	return CloneConfig(e.DefaultConfig)
}

func (e Entry) clone() Entry {
	out := e
	out.Inputs = append([]Handle{}, e.Inputs...)
	out.Outputs = append([]Handle{}, e.Outputs...)
	out.DefaultConfig = CloneConfig(e.DefaultConfig)
	return out
}

// CloneConfig deep-copies a node configuration. Nested maps and slices are
// copied and numbers become float64, the type an imported document decodes
// them to, so a config compares equal after export and import.
func CloneConfig(cfg map[string]interface{}) map[string]interface{} {
	if cfg == nil {
		return nil
	}
	out := make(map[string]interface{}, len(cfg))
	for k, v := range cfg {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return CloneConfig(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}
