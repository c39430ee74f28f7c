package memory

import (
	"context"
	"testing"
	"time"

	"ai-tablechat-be/pkg/host"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = `
tables:
  - id: tblPeople
    name: People
    views:
      - {id: vewGrid, name: Grid}
    fields:
      - {id: fldName, name: Name, type: text}
      - {id: fldAge, name: Age, type: number}
      - {id: fldTeam, name: Team, type: single_select}
      - {id: fldTags, name: Tags, type: multi_select}
      - {id: fldActive, name: Active, type: checkbox}
      - {id: fldJoined, name: Joined, type: datetime}
      - {id: fldOwner, name: Owner, type: user}
      - {id: fldFiles, name: Files, type: attachment}
    records:
      - id: rec1
        fields:
          Name: [{text: "Ali"}, {text: "ce"}]
          fldAge: 30
          Team: Platform
          Tags: [a, b]
          Active: true
          Joined: 1672531200000
          Owner: [{id: ou_1, name: Alice}]
          Files: [{token: f1, name: plan.pdf}]
      - id: rec2
        fields:
          Name: Bob
  - id: tblHidden
    name: Hidden
    hide_record_values: true
    views:
      - {id: vewA, name: A}
    fields:
      - {id: fldX, name: X, type: text}
    records:
      - id: recX
        fields: {X: secret}
`

func newTestBase(t *testing.T) *Base {
	t.Helper()
	f, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	return NewBase(f)
}

func TestParseFixture_FieldTypes(t *testing.T) {
	f, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	require.Len(t, f.Tables, 2)

	fields := f.Tables[0].Fields
	assert.Equal(t, host.FieldTypeText, fields[0].Type)
	assert.Equal(t, host.FieldTypeNumber, fields[1].Type)
	assert.Equal(t, host.FieldTypeSingleSelect, fields[2].Type)
	assert.Equal(t, host.FieldTypeAttachment, fields[7].Type)
	assert.True(t, f.Tables[1].HideRecordValues)
}

func TestParseFixture_Invalid(t *testing.T) {
	_, err := ParseFixture([]byte("tables: [unclosed"))
	assert.Error(t, err)
}

func TestBase_TablesAndRecords(t *testing.T) {
	ctx := context.Background()
	b := newTestBase(t)

	metas, err := b.GetTableMetaList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []host.TableMeta{{ID: "tblPeople", Name: "People"}, {ID: "tblHidden", Name: "Hidden"}}, metas)

	_, err = b.GetTable(ctx, "missing")
	assert.ErrorIs(t, err, host.ErrNotFound)

	table, err := b.GetTable(ctx, "tblPeople")
	require.NoError(t, err)

	ids, err := table.GetRecordIDList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rec1", "rec2"}, ids)

	records, err := table.GetRecords(ctx, "vewGrid")
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Values are stored keyed by field ID whatever the fixture used.
	assert.Equal(t, 30, records[0].Fields["fldAge"])
	assert.Equal(t, "Bob", records[1].Fields["fldName"])

	_, err = table.GetRecords(ctx, "vewNope")
	assert.ErrorIs(t, err, host.ErrNotFound)
}

func TestTable_HiddenRecordValues(t *testing.T) {
	ctx := context.Background()
	b := newTestBase(t)
	table, err := b.GetTable(ctx, "tblHidden")
	require.NoError(t, err)

	records, err := table.GetRecords(ctx, "vewA")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Fields)

	v, err := table.GetCellValue(ctx, "fldX", "recX")
	require.NoError(t, err)
	assert.Equal(t, "secret", v)
}

func TestTable_CellAccessors(t *testing.T) {
	ctx := context.Background()
	table, err := newTestBase(t).table("tblPeople")
	require.NoError(t, err)

	v, err := table.GetCellValueByName(ctx, "Team", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "Platform", v)

	s, err := table.GetCellString(ctx, "fldAge", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "30", s)

	v, err = table.GetValue(ctx, "rec1", "Team")
	require.NoError(t, err)
	assert.Equal(t, "Platform", v)

	_, err = table.GetCellValue(ctx, "Team", "rec1")
	assert.ErrorIs(t, err, host.ErrNotFound, "GetCellValue only accepts field IDs")

	_, err = table.GetCellValue(ctx, "fldName", "recMissing")
	assert.ErrorIs(t, err, host.ErrNotFound)
}

func TestTable_TypedReaders(t *testing.T) {
	ctx := context.Background()
	table, err := newTestBase(t).table("tblPeople")
	require.NoError(t, err)

	text, err := table.ReadText(ctx, "fldName", "rec1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", text)

	n, err := table.ReadNumber(ctx, "fldAge", "rec1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, n)

	opts, err := table.ReadSelect(ctx, "fldTags", "rec1")
	require.NoError(t, err)
	assert.Equal(t, []host.Option{{Text: "a"}, {Text: "b"}}, opts)

	ok, err := table.ReadCheckbox(ctx, "fldActive", "rec1")
	require.NoError(t, err)
	assert.True(t, ok)

	ts, err := table.ReadDateTime(ctx, "fldJoined", "rec1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ts)

	users, err := table.ReadUsers(ctx, "fldOwner", "rec1")
	require.NoError(t, err)
	assert.Equal(t, []host.User{{ID: "ou_1", Name: "Alice"}}, users)

	files, err := table.ReadAttachments(ctx, "fldFiles", "rec1")
	require.NoError(t, err)
	assert.Equal(t, []host.Attachment{{Token: "f1", Name: "plan.pdf"}}, files)

	_, err = table.ReadNumber(ctx, "fldName", "rec2")
	assert.Error(t, err)

	// Empty cells are absent, not false or zero.
	_, err = table.ReadCheckbox(ctx, "fldActive", "rec2")
	assert.ErrorIs(t, err, host.ErrNotFound)
	_, err = table.ReadNumber(ctx, "fldAge", "rec2")
	assert.ErrorIs(t, err, host.ErrNotFound)
}

func TestBase_Capabilities(t *testing.T) {
	ctx := context.Background()
	b := newTestBase(t)

	rec, err := b.GetRecord(ctx, "tblPeople", "rec2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", rec["fldName"])

	v, err := b.GetCellValue(ctx, "tblPeople", "rec2", "Name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)

	data, err := b.GetTableData(ctx, "tblHidden")
	require.NoError(t, err)
	assert.Equal(t, "secret", data["recX"]["fldX"])
}
