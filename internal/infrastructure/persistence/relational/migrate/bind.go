package migrate

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"

	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/infrastructure/persistence/relational/model"
)

// Binding pairs a declared entity with the row model that stores it.
type Binding struct {
	Entity schema.Entity
	Model  any
	// relations maps each foreign key column to the model association
	// that carries its constraint.
	relations map[string]string
}

// Bind resolves a row model for every declared entity and checks that the
// model's columns, nullability, defaults and enum checks match the
// declaration. Mismatches match lab.ErrSchemaDefinition.
func Bind(db *gorm.DB, h *schema.Handle) ([]Binding, error) {
	entities := h.Entities()
	out := make([]Binding, 0, len(entities))
	for _, entity := range entities {
		m, ok := model.ForEntity(entity.Name)
		if !ok {
			return nil, bindError(entity.Name, "no row model registered")
		}
		relations, err := checkModel(db, entity, m)
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Entity: entity, Model: m, relations: relations})
	}
	return out, nil
}

func checkModel(db *gorm.DB, entity schema.Entity, m any) (map[string]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(m); err != nil {
		return nil, bindError(entity.Name, "parse model: "+err.Error())
	}
	parsed := stmt.Schema
	if parsed.Table != entity.Name {
		return nil, bindError(entity.Name, fmt.Sprintf("model table is %q", parsed.Table))
	}

	checks := parsed.ParseCheckConstraints()
	for _, fd := range entity.Fields {
		f := parsed.LookUpField(fd.Name)
		if f == nil || f.DBName != fd.Name {
			return nil, bindError(entity.Name, fmt.Sprintf("model has no column %q", fd.Name))
		}
		if f.PrimaryKey != fd.PrimaryKey {
			return nil, bindError(entity.Name, fmt.Sprintf("primary key mismatch on %q", fd.Name))
		}
		if !fd.PrimaryKey && f.NotNull == fd.Nullable {
			return nil, bindError(entity.Name, fmt.Sprintf("nullability mismatch on %q", fd.Name))
		}
		if fd.Default != "" && strings.Trim(f.DefaultValue, `'"`) != fd.Default {
			return nil, bindError(entity.Name, fmt.Sprintf("default of %q is %q, want %q", fd.Name, f.DefaultValue, fd.Default))
		}
		if fd.Type == schema.TypeEnum {
			chk, ok := checks[fd.Enum]
			if !ok || chk.Field == nil || chk.Field.DBName != fd.Name {
				return nil, bindError(entity.Name, fmt.Sprintf("column %q lacks check constraint %q", fd.Name, fd.Enum))
			}
		}
	}

	relations := make(map[string]string)
	for _, fk := range entity.ForeignKeys() {
		name, err := checkRelation(parsed, entity.Name, fk)
		if err != nil {
			return nil, err
		}
		relations[fk.Name] = name
	}

	for _, dbName := range parsed.DBNames {
		if _, ok := entity.Field(dbName); !ok {
			return nil, bindError(entity.Name, fmt.Sprintf("model column %q is not declared", dbName))
		}
	}
	return relations, nil
}

// checkRelation finds the belongs-to association whose constraint
// implements fk and returns its name.
func checkRelation(parsed *gormschema.Schema, entity string, fk schema.Field) (string, error) {
	for name, rel := range parsed.Relationships.Relations {
		if rel.Type != gormschema.BelongsTo || len(rel.References) != 1 {
			continue
		}
		if rel.References[0].ForeignKey.DBName != fk.Name {
			continue
		}
		c := rel.ParseConstraint()
		switch {
		case c == nil:
			return "", bindError(entity, fmt.Sprintf("association %s has no constraint", name))
		case c.ReferenceSchema.Table != fk.References:
			return "", bindError(entity, fmt.Sprintf("%s references %q, want %q", fk.Name, c.ReferenceSchema.Table, fk.References))
		case !strings.EqualFold(c.OnDelete, string(fk.OnDelete)) || !strings.EqualFold(c.OnUpdate, string(fk.OnUpdate)):
			return "", bindError(entity, fmt.Sprintf("%s actions are delete %s update %s", fk.Name, c.OnDelete, c.OnUpdate))
		}
		return name, nil
	}
	return "", bindError(entity, fmt.Sprintf("no association carries foreign key %q", fk.Name))
}

func bindError(entity, detail string) error {
	return fmt.Errorf("%w: bind %s: %s", lab.ErrSchemaDefinition, entity, detail)
}
