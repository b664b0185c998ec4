package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"labstore/internal/domain/lab"
)

// Handle is a validated schema. Entities are kept in dependency order:
// every parent precedes the entities that reference it.
type Handle struct {
	enums    []EnumDomain
	entities []Entity
	byName   map[string]int
}

// Build validates a declaration and returns its handle. All failures match
// lab.ErrSchemaDefinition.
func Build(enums []EnumDomain, entities []Entity) (*Handle, error) {
	enumByName := make(map[string]EnumDomain, len(enums))
	for _, d := range enums {
		if strings.TrimSpace(d.Name) == "" {
			return nil, definitionError("enum domain name is empty")
		}
		if _, dup := enumByName[d.Name]; dup {
			return nil, definitionError("enum domain %q declared twice", d.Name)
		}
		if len(d.Values) == 0 {
			return nil, definitionError("enum domain %q has no values", d.Name)
		}
		seen := make(map[string]struct{}, len(d.Values))
		for _, v := range d.Values {
			if _, dup := seen[v]; dup {
				return nil, definitionError("enum domain %q repeats value %q", d.Name, v)
			}
			seen[v] = struct{}{}
		}
		enumByName[d.Name] = d
	}

	entityIndex := make(map[string]int, len(entities))
	for i, e := range entities {
		if strings.TrimSpace(e.Name) == "" {
			return nil, definitionError("entity name is empty")
		}
		if _, dup := entityIndex[e.Name]; dup {
			return nil, definitionError("entity %q declared twice", e.Name)
		}
		if _, clash := enumByName[e.Name]; clash {
			return nil, definitionError("entity %q collides with enum domain of the same name", e.Name)
		}
		entityIndex[e.Name] = i
	}

	for _, e := range entities {
		if err := validateEntity(e, enumByName, entityIndex); err != nil {
			return nil, err
		}
	}

	ordered, err := dependencyOrder(entities, entityIndex)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		enums:    append([]EnumDomain(nil), enums...),
		entities: ordered,
		byName:   make(map[string]int, len(ordered)),
	}
	for i, e := range ordered {
		h.byName[e.Name] = i
	}
	return h, nil
}

func validateEntity(e Entity, enums map[string]EnumDomain, entities map[string]int) error {
	fields := make(map[string]struct{}, len(e.Fields))
	primaryKeys := 0
	for _, f := range e.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return definitionError("entity %q has a field with no name", e.Name)
		}
		if _, dup := fields[f.Name]; dup {
			return definitionError("entity %q declares field %q twice", e.Name, f.Name)
		}
		fields[f.Name] = struct{}{}

		if f.PrimaryKey {
			primaryKeys++
			if f.Nullable {
				return definitionError("primary key %s.%s cannot be nullable", e.Name, f.Name)
			}
		}

		switch f.Type {
		case TypeInteger, TypeFloat, TypeString, TypeBool, TypeDate:
			if f.Enum != "" {
				return definitionError("field %s.%s names enum %q but is %s", e.Name, f.Name, f.Enum, f.Type)
			}
		case TypeEnum:
			domain, ok := enums[f.Enum]
			if !ok {
				return definitionError("field %s.%s uses unknown enum domain %q", e.Name, f.Name, f.Enum)
			}
			if f.Default != "" && !domain.Contains(f.Default) {
				return definitionError("default %q of %s.%s is outside domain %q", f.Default, e.Name, f.Name, f.Enum)
			}
		default:
			return definitionError("field %s.%s has unknown type %q", e.Name, f.Name, f.Type)
		}

		if f.IsForeignKey() {
			if _, ok := entities[f.References]; !ok {
				return definitionError("field %s.%s references unknown entity %q", e.Name, f.Name, f.References)
			}
			if f.Type != TypeInteger {
				return definitionError("foreign key %s.%s must be an integer", e.Name, f.Name)
			}
		}
	}
	if primaryKeys != 1 {
		return definitionError("entity %q must declare exactly one primary key, found %d", e.Name, primaryKeys)
	}
	return nil
}

// dependencyOrder is a stable topological sort: among ready entities the
// declaration order wins.
func dependencyOrder(entities []Entity, index map[string]int) ([]Entity, error) {
	pending := make([]int, len(entities))
	dependents := make(map[int][]int, len(entities))
	for i, e := range entities {
		parents := map[int]struct{}{}
		for _, fk := range e.ForeignKeys() {
			p := index[fk.References]
			if p == i {
				return nil, definitionError("entity %q references itself", e.Name)
			}
			parents[p] = struct{}{}
		}
		pending[i] = len(parents)
		for p := range parents {
			dependents[p] = append(dependents[p], i)
		}
	}

	var ready []int
	for i := range entities {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]Entity, 0, len(entities))
	for len(ready) > 0 {
		sort.Ints(ready)
		next := ready[0]
		ready = ready[1:]
		out = append(out, entities[next])
		for _, d := range dependents[next] {
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(out) != len(entities) {
		return nil, definitionError("reference cycle between entities")
	}
	return out, nil
}

func definitionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", lab.ErrSchemaDefinition, fmt.Sprintf(format, args...))
}

func (h *Handle) Entities() []Entity {
	return append([]Entity(nil), h.entities...)
}

func (h *Handle) Entity(name string) (Entity, bool) {
	i, ok := h.byName[name]
	if !ok {
		return Entity{}, false
	}
	return h.entities[i], true
}

func (h *Handle) Enums() []EnumDomain {
	return append([]EnumDomain(nil), h.enums...)
}

func (h *Handle) Enum(name string) (EnumDomain, bool) {
	for _, d := range h.enums {
		if d.Name == name {
			return d, true
		}
	}
	return EnumDomain{}, false
}

// Children lists the foreign keys that point at parent.
func (h *Handle) Children(parent string) []ChildRef {
	var out []ChildRef
	for _, e := range h.entities {
		for _, fk := range e.ForeignKeys() {
			if fk.References == parent {
				out = append(out, ChildRef{Entity: e.Name, Field: fk.Name})
			}
		}
	}
	return out
}

// Fingerprint is a stable digest of the declaration, recorded by the store
// at materialization.
func (h *Handle) Fingerprint() string {
	var b strings.Builder
	for _, d := range h.enums {
		fmt.Fprintf(&b, "enum %s %s\n", d.Name, strings.Join(d.Values, ","))
	}
	for _, e := range h.entities {
		fmt.Fprintf(&b, "entity %s\n", e.Name)
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "  %s %s pk=%t null=%t enum=%s default=%s ref=%s del=%s upd=%s\n",
				f.Name, f.Type, f.PrimaryKey, f.Nullable, f.Enum, f.Default, f.References, f.OnDelete, f.OnUpdate)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
