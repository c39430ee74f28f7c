package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-tablechat-be/pkg/host"
)

var errStub = errors.New("stub failure")

var testFields = []host.FieldMeta{
	{ID: "fldName", Name: "Name", Type: host.FieldTypeText},
	{ID: "fldAge", Name: "Age", Type: host.FieldTypeNumber},
	{ID: "fldTeam", Name: "Team", Type: host.FieldTypeSingleSelect},
	{ID: "fldNote", Name: "Note", Type: host.FieldTypeText},
}

// plainTable implements only host.Table. Cells are keyed by field ID.
type plainTable struct {
	cells map[string]any
	panic bool
}

func (t *plainTable) ID() string { return "tblStub" }
func (t *plainTable) GetName(ctx context.Context) (string, error) { return "Stub", nil }
func (t *plainTable) GetRecordIDList(ctx context.Context) ([]string, error) {
	return []string{"rec1"}, nil
}
func (t *plainTable) GetViewMetaList(ctx context.Context) ([]host.ViewMeta, error) {
	return []host.ViewMeta{{ID: "vew", Name: "Grid"}}, nil
}
func (t *plainTable) GetFieldMetaList(ctx context.Context) ([]host.FieldMeta, error) {
	return testFields, nil
}
func (t *plainTable) GetRecords(ctx context.Context, viewID string) ([]host.TableRecord, error) {
	return nil, nil
}
func (t *plainTable) GetCellValue(ctx context.Context, fieldID, recordID string) (any, error) {
	if t.panic {
		panic("binding exploded")
	}
	v, ok := t.cells[fieldID]
	if !ok {
		return nil, fmt.Errorf("field %s: %w", fieldID, host.ErrNotFound)
	}
	return v, nil
}

// namedTable adds GetCellValueByName.
type namedTable struct {
	plainTable
	byName map[string]any
}

func (t *namedTable) GetCellValueByName(ctx context.Context, fieldName, recordID string) (any, error) {
	return t.byName[fieldName], nil
}

// typedTable adds the typed accessors on top of namedTable.
type typedTable struct {
	namedTable
	text   map[string]string
	number map[string]float64
	opts   map[string][]host.Option
}

func (t *typedTable) ReadText(ctx context.Context, fieldID, recordID string) (string, error) {
	return t.text[fieldID], nil
}
func (t *typedTable) ReadNumber(ctx context.Context, fieldID, recordID string) (float64, error) {
	n, ok := t.number[fieldID]
	if !ok {
		return 0, errStub
	}
	return n, nil
}
func (t *typedTable) ReadSelect(ctx context.Context, fieldID, recordID string) ([]host.Option, error) {
	return t.opts[fieldID], nil
}
func (t *typedTable) ReadCheckbox(ctx context.Context, fieldID, recordID string) (bool, error) {
	return false, errStub
}
func (t *typedTable) ReadDateTime(ctx context.Context, fieldID, recordID string) (time.Time, error) {
	return time.Time{}, errStub
}
func (t *typedTable) ReadAttachments(ctx context.Context, fieldID, recordID string) ([]host.Attachment, error) {
	return nil, errStub
}
func (t *typedTable) ReadUsers(ctx context.Context, fieldID, recordID string) ([]host.User, error) {
	return nil, errStub
}

// recordTable exposes only the alternate whole-record accessors.
type recordTable struct {
	plainTable
	record any
	row    any
	batch  []host.TableRecord
}

func (t *recordTable) GetRecord(ctx context.Context, recordID string) (any, error) {
	return t.record, nil
}
func (t *recordTable) GetRow(ctx context.Context, recordID string) (any, error) {
	if t.row == nil {
		return nil, errStub
	}
	return t.row, nil
}
func (t *recordTable) GetRecordsByIDs(ctx context.Context, recordIDs []string) ([]host.TableRecord, error) {
	return t.batch, nil
}

// stringTable renders cells only through GetCellString.
type stringTable struct {
	plainTable
	strings map[string]string
}

func (t *stringTable) GetCellString(ctx context.Context, fieldID, recordID string) (string, error) {
	return t.strings[fieldID], nil
}
