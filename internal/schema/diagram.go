package schema

import (
	"fmt"
	"strings"
)

// Mermaid relationship markers, read from the referenced table to the
// referencing one.
const (
	relOneToOne       = "||--||"
	relOneToMany      = "||--o{"
	relOptionalToOne  = "|o--||"
	relOptionalToMany = "|o--o{"
)

// Relationship is an edge of the ER diagram
type Relationship struct {
	FromTable string // referenced table
	ToTable   string // referencing table
	Column    string
	Type      string
}

// Relationships derives one edge per foreign key. A unique foreign key is
// one-to-one, a nullable one is optional on the referenced side.
func Relationships(tables []Table) []Relationship {
	var rels []Relationship
	for _, t := range tables {
		for _, c := range t.Columns {
			if c.References == nil {
				continue
			}
			var relType string
			switch {
			case c.Unique && c.Nullable:
				relType = relOptionalToOne
			case c.Unique:
				relType = relOneToOne
			case c.Nullable:
				relType = relOptionalToMany
			default:
				relType = relOneToMany
			}
			rels = append(rels, Relationship{
				FromTable: c.References.Table,
				ToTable:   t.Name,
				Column:    c.Name,
				Type:      relType,
			})
		}
	}
	return rels
}

// Mermaid renders tables as a Mermaid erDiagram
func Mermaid(tables []Table) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	rels := Relationships(tables)
	for _, rel := range rels {
		sb.WriteString(fmt.Sprintf("    %s %s %s : %s\n",
			strings.ToUpper(rel.FromTable),
			rel.Type,
			strings.ToUpper(rel.ToTable),
			rel.Column))
	}
	if len(rels) > 0 {
		sb.WriteString("\n")
	}

	for _, t := range tables {
		sb.WriteString(fmt.Sprintf("    %s {\n", strings.ToUpper(t.Name)))
		for _, c := range t.Columns {
			var keys []string
			if c.Type == TypeID {
				keys = append(keys, "PK")
			}
			if c.References != nil {
				keys = append(keys, "FK")
			}
			if c.Unique {
				keys = append(keys, "UK")
			}

			line := fmt.Sprintf("        %s %s", diagramType(c), c.Name)
			if len(keys) > 0 {
				line += " " + strings.Join(keys, ", ")
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("    }\n")
	}

	return sb.String()
}

func diagramType(c Column) string {
	switch c.Type {
	case TypeID, TypeForeignID:
		return "bigint"
	case TypeString, TypeEnum:
		return "varchar"
	default:
		return string(c.Type)
	}
}
