// Package host describes the data surface exposed by the embedding base
// platform. Base and Table are the operations every host provides; the
// remaining interfaces are optional capabilities that callers discover with a
// type assertion, in the style of io.WriterTo.
package host

import (
	"context"
	"time"
)

// Base is the top-level connection to a host base.
type Base interface {
	GetTableMetaList(ctx context.Context) ([]TableMeta, error)
	GetTable(ctx context.Context, tableID string) (Table, error)
}

// Table is a handle to one host table.
type Table interface {
	ID() string
	GetName(ctx context.Context) (string, error)
	GetViewMetaList(ctx context.Context) ([]ViewMeta, error)
	GetFieldMetaList(ctx context.Context) ([]FieldMeta, error)
	GetRecordIDList(ctx context.Context) ([]string, error)
	// GetRecords returns every record visible in the view.
	GetRecords(ctx context.Context, viewID string) ([]TableRecord, error)
	GetCellValue(ctx context.Context, fieldID, recordID string) (any, error)
}

// --- Table capabilities ---

// CellByNameReader reads a cell addressed by field name.
type CellByNameReader interface {
	GetCellValueByName(ctx context.Context, fieldName, recordID string) (any, error)
}

// CellStringReader reads a cell rendered as display text.
type CellStringReader interface {
	GetCellString(ctx context.Context, fieldID, recordID string) (string, error)
}

// RecordByIDGetter fetches one whole record.
type RecordByIDGetter interface {
	GetRecordByID(ctx context.Context, recordID string) (map[string]any, error)
}

// RecordGetter is an alternate whole-record accessor exposed by some hosts.
type RecordGetter interface {
	GetRecord(ctx context.Context, recordID string) (any, error)
}

// RowGetter reads a record through the host's row API.
type RowGetter interface {
	GetRow(ctx context.Context, recordID string) (any, error)
}

// RecordsByIDsGetter fetches several records in one call.
type RecordsByIDsGetter interface {
	GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]TableRecord, error)
}

// ValueReader reads a cell through the host's generic value API.
type ValueReader interface {
	GetValue(ctx context.Context, recordID, fieldKey string) (any, error)
}

// Option is a select field option.
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Attachment is one file attached to a cell.
type Attachment struct {
	Token string `json:"token" yaml:"token"`
	Name  string `json:"name" yaml:"name"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// User is a user reference stored in a cell.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// TypedFieldReader exposes the type-specific accessors of a host field.
// A cell without a value is reported as an error wrapping ErrNotFound, never
// as the zero value of the scalar readers (false, 0).
type TypedFieldReader interface {
	ReadText(ctx context.Context, fieldID, recordID string) (string, error)
	ReadNumber(ctx context.Context, fieldID, recordID string) (float64, error)
	ReadSelect(ctx context.Context, fieldID, recordID string) ([]Option, error)
	ReadCheckbox(ctx context.Context, fieldID, recordID string) (bool, error)
	ReadDateTime(ctx context.Context, fieldID, recordID string) (time.Time, error)
	ReadAttachments(ctx context.Context, fieldID, recordID string) ([]Attachment, error)
	ReadUsers(ctx context.Context, fieldID, recordID string) ([]User, error)
}

// --- Base capabilities ---

// BaseRecordReader reads a record through the base connection.
type BaseRecordReader interface {
	GetRecord(ctx context.Context, tableID, recordID string) (map[string]any, error)
}

// BaseCellReader reads a cell through the base connection.
type BaseCellReader interface {
	GetCellValue(ctx context.Context, tableID, recordID, fieldKey string) (any, error)
}

// BaseTableDumper dumps a whole table keyed by record ID.
type BaseTableDumper interface {
	GetTableData(ctx context.Context, tableID string) (map[string]map[string]any, error)
}
