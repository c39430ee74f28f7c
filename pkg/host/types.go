package host

import "errors"

// ErrNotFound is returned by host implementations when a table, record or
// field does not exist.
var ErrNotFound = errors.New("not found")

// FieldType is the host's field type tag.
type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeText
	FieldTypeNumber
	FieldTypeCurrency
	FieldTypePercent
	FieldTypeSingleSelect
	FieldTypeMultiSelect
	FieldTypeCheckbox
	FieldTypeDateTime
	FieldTypeCreatedTime
	FieldTypeModifiedTime
	FieldTypeAttachment
	FieldTypeUser
	FieldTypeCreatedUser
	FieldTypeModifiedUser
	FieldTypePhone
	FieldTypeURL
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeUnknown:      "unknown",
	FieldTypeText:         "text",
	FieldTypeNumber:       "number",
	FieldTypeCurrency:     "currency",
	FieldTypePercent:      "percent",
	FieldTypeSingleSelect: "single_select",
	FieldTypeMultiSelect:  "multi_select",
	FieldTypeCheckbox:     "checkbox",
	FieldTypeDateTime:     "datetime",
	FieldTypeCreatedTime:  "created_time",
	FieldTypeModifiedTime: "modified_time",
	FieldTypeAttachment:   "attachment",
	FieldTypeUser:         "user",
	FieldTypeCreatedUser:  "created_user",
	FieldTypeModifiedUser: "modified_user",
	FieldTypePhone:        "phone",
	FieldTypeURL:          "url",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseFieldType maps a type name (as written in fixtures and config) to a FieldType.
func ParseFieldType(name string) FieldType {
	for t, n := range fieldTypeNames {
		if n == name {
			return t
		}
	}
	return FieldTypeUnknown
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(b []byte) error {
	*t = ParseFieldType(string(b))
	return nil
}

// IsTextual reports whether values of this type are read as strings.
func (t FieldType) IsTextual() bool {
	return t == FieldTypeText || t == FieldTypePhone || t == FieldTypeURL
}

// IsNumeric reports whether values of this type are read as numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeNumber || t == FieldTypeCurrency || t == FieldTypePercent
}

// IsSelect reports whether values of this type are option references.
func (t FieldType) IsSelect() bool {
	return t == FieldTypeSingleSelect || t == FieldTypeMultiSelect
}

// IsTime reports whether values of this type are timestamps.
func (t FieldType) IsTime() bool {
	return t == FieldTypeDateTime || t == FieldTypeCreatedTime || t == FieldTypeModifiedTime
}

// IsUser reports whether values of this type are user references.
func (t FieldType) IsUser() bool {
	return t == FieldTypeUser || t == FieldTypeCreatedUser || t == FieldTypeModifiedUser
}

// TableMeta identifies a selectable table.
type TableMeta struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ViewMeta identifies one view of a table.
type ViewMeta struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// FieldMeta describes one column of a table.
type FieldMeta struct {
	ID   string    `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Type FieldType `json:"type" yaml:"type"`
}

// TableRecord is one row. Fields returned by a host may be keyed by field ID;
// everything above the host layer keys them by field name.
type TableRecord struct {
	RecordID string         `json:"recordId"`
	Fields   map[string]any `json:"fields"`
}

// FieldNameIndex maps field IDs to field names.
func FieldNameIndex(fields []FieldMeta) map[string]string {
	idx := make(map[string]string, len(fields))
	for _, f := range fields {
		idx[f.ID] = f.Name
	}
	return idx
}

// KeyByName rewrites a fields map keyed by field ID so that it is keyed by
// field name. Keys that are not a known field ID are kept as is.
func KeyByName(values map[string]any, fields []FieldMeta) map[string]any {
	idx := FieldNameIndex(fields)
	out := make(map[string]any, len(values))
	for k, v := range values {
		if name, ok := idx[k]; ok {
			out[name] = v
			continue
		}
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}
