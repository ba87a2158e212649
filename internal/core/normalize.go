package core

import "strings"

// Field is a target field of WorkerRecord that can be resolved from a RawRow.
type Field string

const (
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldAddress  Field = "address"
	FieldCategory Field = "category"
)

// FieldAliases lists the source headers accepted for one field, in priority order.
type FieldAliases struct {
	Field   Field
	Aliases []string
}

// defaultAliases holds the English and Spanish header names seen in exported rosters.
// Aliases are lowercase because the parser lowercases headers.
var defaultAliases = []FieldAliases{
	{Field: FieldName, Aliases: []string{"name", "nombre", "full name", "full_name", "nombres y apellidos"}},
	{Field: FieldPhone, Aliases: []string{"phone", "telefono", "celular", "mobile"}},
	{Field: FieldEmail, Aliases: []string{"email", "correo", "mail"}},
	{Field: FieldAddress, Aliases: []string{"address", "direccion"}},
	{Field: FieldCategory, Aliases: []string{"category", "categoria_laboral", "categoria", "ocupacion", "job", "trade"}},
}

func isKnownField(f Field) bool {
	switch f {
	case FieldName, FieldPhone, FieldEmail, FieldAddress, FieldCategory:
		return true
	}
	return false
}

// Normalize converts a RawRow into a WorkerRecord using the default aliases and rules.
func Normalize(row RawRow, source string) WorkerRecord {
	return defaultPipeline.Normalize(row, source)
}

// Normalize converts a RawRow into a WorkerRecord.
//
// Each field takes the value of the first alias present in the row, even if
// that value is empty. Fields with no present alias are "". Source is always
// the caller's label, never read from the row.
func (p *Pipeline) Normalize(row RawRow, source string) WorkerRecord {
	return WorkerRecord{
		Name:     p.Resolve(row, FieldName),
		Phone:    p.Resolve(row, FieldPhone),
		Email:    p.Resolve(row, FieldEmail),
		Address:  p.Resolve(row, FieldAddress),
		Category: p.Classify(p.Resolve(row, FieldCategory)),
		Source:   source,
	}
}

// Resolve returns the trimmed value of the first alias of field present in row.
func (p *Pipeline) Resolve(row RawRow, field Field) string {
	for _, alias := range p.aliases[field] {
		if v, ok := row[alias]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Recognizes reports whether any header name is an alias of some field.
func (p *Pipeline) Recognizes(header []string) bool {
	for _, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, aliases := range p.aliases {
			for _, a := range aliases {
				if a == h {
					return true
				}
			}
		}
	}
	return false
}
