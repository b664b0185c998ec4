package schema

// FieldType is the storage-neutral type of a declared column.
type FieldType string

const (
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeString  FieldType = "string"
	TypeBool    FieldType = "bool"
	TypeDate    FieldType = "date"
	TypeEnum    FieldType = "enum"
)

// RefAction is what a foreign key does when its parent changes.
type RefAction string

const (
	ActionRestrict RefAction = "RESTRICT"
	ActionCascade  RefAction = "CASCADE"
)

// Field declares one column. Enum names the domain for TypeEnum fields and
// References names the parent entity for foreign keys.
type Field struct {
	Name       string    `yaml:"name" toml:"name"`
	Type       FieldType `yaml:"type" toml:"type"`
	PrimaryKey bool      `yaml:"primary_key,omitempty" toml:"primary_key,omitempty"`
	Nullable   bool      `yaml:"nullable" toml:"nullable"`
	Enum       string    `yaml:"enum,omitempty" toml:"enum,omitempty"`
	Default    string    `yaml:"default,omitempty" toml:"default,omitempty"`
	References string    `yaml:"references,omitempty" toml:"references,omitempty"`
	OnDelete   RefAction `yaml:"on_delete,omitempty" toml:"on_delete,omitempty"`
	OnUpdate   RefAction `yaml:"on_update,omitempty" toml:"on_update,omitempty"`
}

func (f Field) IsForeignKey() bool { return f.References != "" }

// Entity declares one persistent collection.
type Entity struct {
	Name   string  `yaml:"name" toml:"name"`
	Doc    string  `yaml:"doc,omitempty" toml:"doc,omitempty"`
	Fields []Field `yaml:"fields" toml:"fields"`
}

func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ForeignKeys returns the entity's reference fields in declaration order.
func (e Entity) ForeignKeys() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.IsForeignKey() {
			out = append(out, f)
		}
	}
	return out
}

// EnumDomain is a named closed set of string literals.
type EnumDomain struct {
	Name   string   `yaml:"name" toml:"name"`
	Values []string `yaml:"values" toml:"values"`
}

func (d EnumDomain) Contains(v string) bool {
	for _, candidate := range d.Values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ChildRef points at a foreign key column referencing some parent entity.
type ChildRef struct {
	Entity string
	Field  string
}

func primaryKey() Field {
	return Field{Name: "id", Type: TypeInteger, PrimaryKey: true}
}

func column(name string, typ FieldType) Field {
	return Field{Name: name, Type: typ, Nullable: true}
}

func enumColumn(name, domain, def string) Field {
	return Field{Name: name, Type: TypeEnum, Nullable: true, Enum: domain, Default: def}
}

func reference(name, parent string) Field {
	return Field{
		Name:       name,
		Type:       TypeInteger,
		References: parent,
		OnDelete:   ActionRestrict,
		OnUpdate:   ActionCascade,
	}
}
