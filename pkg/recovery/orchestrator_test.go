package recovery

import (
	"context"
	"errors"
	"testing"

	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/extraction"
	"ai-tablechat-be/pkg/host"
	"ai-tablechat-be/pkg/host/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns canned fields per record ID and counts its calls.
type scripted struct {
	name    string
	records map[string]map[string]any
	fail    map[string]bool
	panics  bool
	calls   int
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Extract(ctx context.Context, src *extraction.Source, recordID string) (extraction.Result, error) {
	s.calls++
	if s.panics {
		panic("strategy exploded")
	}
	if s.fail[recordID] {
		return extraction.Result{}, errors.New("extraction failed")
	}
	fields := s.records[recordID]
	if fields == nil {
		fields = map[string]any{}
	}
	return extraction.Result{
		Fields:  fields,
		Method:  s.name,
		Success: extraction.CountUsable(fields) > 0,
	}, nil
}

func src() *extraction.Source {
	return &extraction.Source{}
}

func TestRecover_AliceBob(t *testing.T) {
	direct := &scripted{name: "direct", records: map[string]map[string]any{
		"r1": {"Name": "Alice", "Age": 30},
		"r2": {"Name": "Bob", "Age": nil},
	}}
	batch := &scripted{name: "batch", records: map[string]map[string]any{
		"r1": {"Name": "Alice"},
	}}

	report, err := NewOrchestrator(logger.NewNopLogger(), direct, batch).Recover(context.Background(), src(), []string{"r1", "r2"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.RecordsProcessed)
	assert.Equal(t, 2, report.RecordsWithData)
	assert.Equal(t, 3, report.TotalDataFound)
	assert.Equal(t, 1.5, report.AvgFieldsPerRecord)
	assert.Equal(t, "direct", report.BestMethod)
	assert.Equal(t, StatusAllData, report.Status)

	require.Len(t, report.Records, 2)
	assert.Equal(t, "direct", report.Records[0].ExtractionMethod)
	assert.Equal(t, 2, report.Records[0].FieldCount)
	assert.Equal(t, map[string]any{"Name": "Bob", "Age": nil}, report.Records[1].Fields)

	stat := report.MethodStats["direct"]
	assert.Equal(t, 2, stat.Attempts)
	assert.Equal(t, 2, stat.Successes)
	assert.Equal(t, 1.5, stat.AvgFields)
	assert.Equal(t, 1.0, stat.SuccessRate)
	assert.Equal(t, 1.5, stat.Score)

	stat = report.MethodStats["batch"]
	assert.Equal(t, 0.5, stat.AvgFields)
	assert.Equal(t, 0.5, stat.SuccessRate)
	assert.Equal(t, 0.25, stat.Score)
}

func TestRecover_TieKeepsFirstStrategy(t *testing.T) {
	same := map[string]map[string]any{"r1": {"Name": "Alice"}}
	first := &scripted{name: "first", records: same}
	second := &scripted{name: "second", records: same}

	report, err := NewOrchestrator(logger.NewNopLogger(), first, second).Recover(context.Background(), src(), []string{"r1"})
	require.NoError(t, err)
	assert.Equal(t, "first", report.BestMethod)
	assert.Equal(t, "first", report.Records[0].ExtractionMethod)
}

func TestRecover_StrictlyGreaterScoreWins(t *testing.T) {
	weak := &scripted{name: "weak", records: map[string]map[string]any{"r1": {"A": 1}}}
	strong := &scripted{name: "strong", records: map[string]map[string]any{"r1": {"A": 1, "B": 2}}}

	report, err := NewOrchestrator(logger.NewNopLogger(), weak, strong).Recover(context.Background(), src(), []string{"r1"})
	require.NoError(t, err)
	assert.Equal(t, "strong", report.BestMethod)
	assert.Equal(t, "strong", report.Records[0].ExtractionMethod)
	assert.Equal(t, 2, report.Records[0].FieldCount)
}

func TestRecover_NoRecords(t *testing.T) {
	report, err := NewOrchestrator(logger.NewNopLogger(), &scripted{name: "direct"}).Recover(context.Background(), src(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RecordsProcessed)
	assert.Equal(t, StatusNoData, report.Status)
	assert.Empty(t, report.Records)
}

func TestRecover_AllNilRecord(t *testing.T) {
	s := &scripted{name: "direct", records: map[string]map[string]any{"r1": {"Name": nil, "Age": nil}}}

	report, err := NewOrchestrator(logger.NewNopLogger(), s).Recover(context.Background(), src(), []string{"r1"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.False(t, report.Records[0].DataFound)
	assert.Equal(t, extraction.MethodNone, report.Records[0].ExtractionMethod)
	assert.Equal(t, StatusNoData, report.Status)
	// With every score at zero the first strategy is still chosen.
	assert.Equal(t, "direct", report.BestMethod)
}

func TestRecover_BulkPassUsesOnlyBestStrategy(t *testing.T) {
	ids := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}
	records := map[string]map[string]any{}
	for _, id := range ids {
		records[id] = map[string]any{"Name": id}
	}
	best := &scripted{name: "best", records: records, fail: map[string]bool{"r7": true}}
	delete(records, "r8")
	other := &scripted{name: "other"}

	report, err := NewOrchestrator(logger.NewNopLogger(), other, best).Recover(context.Background(), src(), ids)
	require.NoError(t, err)

	assert.Equal(t, DefaultSampleSize, report.SampleSize)
	assert.Equal(t, DefaultSampleSize, other.calls)
	assert.Equal(t, len(ids), best.calls)
	assert.Equal(t, "best", report.BestMethod)

	require.Len(t, report.Records, len(ids))
	assert.Equal(t, "best", report.Records[5].ExtractionMethod)
	assert.Equal(t, extraction.MethodError, report.Records[6].ExtractionMethod)
	assert.Equal(t, extraction.MethodNone, report.Records[7].ExtractionMethod)
	assert.Equal(t, 1, report.BulkSucceeded)
	assert.Equal(t, 2, report.BulkFailed)

	assert.Equal(t, 6, report.RecordsWithData)
	assert.Equal(t, StatusMost, report.Status)
}

func TestRecover_PanickingStrategyIsContained(t *testing.T) {
	bad := &scripted{name: "bad", panics: true}
	good := &scripted{name: "good", records: map[string]map[string]any{"r1": {"Name": "x"}}}

	report, err := NewOrchestrator(logger.NewNopLogger(), bad, good).Recover(context.Background(), src(), []string{"r1"})
	require.NoError(t, err)
	assert.Equal(t, "good", report.BestMethod)
	assert.Equal(t, 1, report.MethodStats["bad"].Attempts)
	assert.Equal(t, 0, report.MethodStats["bad"].Successes)
}

func TestRecover_WithSampleSize(t *testing.T) {
	s := &scripted{name: "direct"}
	report, err := NewOrchestrator(logger.NewNopLogger(), s).WithSampleSize(2).Recover(context.Background(), src(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.SampleSize)
	assert.Equal(t, 2, report.MethodStats["direct"].Attempts)
}

func TestRecover_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOrchestrator(logger.NewNopLogger(), &scripted{name: "direct"}).Recover(ctx, src(), []string{"r1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		withData  int
		total     int
		want      string
	}{
		{"nothing", 4, 0, 0, StatusNoData},
		{"all", 4, 4, 9, StatusAllData},
		{"half", 4, 2, 3, StatusMost},
		{"few", 4, 1, 1, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{RecordsProcessed: tt.processed, RecordsWithData: tt.withData, TotalDataFound: tt.total}
			assert.Equal(t, tt.want, statusFor(r))
		})
	}
}

const hiddenFixture = `
tables:
  - id: tblTasks
    name: Tasks
    hide_record_values: true
    views: [{id: vew, name: Grid}]
    fields:
      - {id: fldTitle, name: Title, type: text}
      - {id: fldOwner, name: Owner, type: user}
    records:
      - id: t1
        fields: {Title: Report, Owner: [{id: u1, name: Alice}]}
      - id: t2
        fields: {Title: Dashboards}
`

func TestRecoverTable_MemoryHost(t *testing.T) {
	f, err := memory.ParseFixture([]byte(hiddenFixture))
	require.NoError(t, err)

	report, err := NewOrchestrator(logger.NewNopLogger()).RecoverTable(context.Background(), memory.NewBase(f), "tblTasks")
	require.NoError(t, err)

	assert.Equal(t, "tblTasks", report.TableID)
	assert.Equal(t, extraction.MethodDirect, report.BestMethod)
	assert.Equal(t, []string{"direct", "batch", "raw", "deep"}, report.MethodOrder)
	assert.Equal(t, 2, report.RecordsWithData)
	assert.Equal(t, 3, report.TotalDataFound)
	assert.Equal(t, []string{"Alice"}, report.Records[0].Fields["Owner"])

	records := report.TableRecords()
	require.Len(t, records, 2)
	assert.Equal(t, host.TableRecord{RecordID: "t2", Fields: map[string]any{"Title": "Dashboards", "Owner": nil}}, records[1])

	assert.Contains(t, report.Summary(), "Best method: direct")
	assert.Contains(t, report.Summary(), "Status: all records have data")
}

func TestRecoverTable_UnknownTable(t *testing.T) {
	_, err := NewOrchestrator(logger.NewNopLogger()).RecoverTable(context.Background(), memory.NewBase(nil), "nope")
	assert.ErrorIs(t, err, host.ErrNotFound)
}

const checkboxFixture = `
tables:
  - id: tblChores
    name: Chores
    hide_record_values: true
    views: [{id: vew, name: Grid}]
    fields:
      - {id: fldName, name: Name, type: text}
      - {id: fldDone, name: Done, type: checkbox}
    records:
      - id: r1
        fields: {Name: Dishes}
      - id: r2
`

func TestRecoverTable_EmptyCheckboxIsNotData(t *testing.T) {
	f, err := memory.ParseFixture([]byte(checkboxFixture))
	require.NoError(t, err)

	report, err := NewOrchestrator(logger.NewNopLogger()).RecoverTable(context.Background(), memory.NewBase(f), "tblChores")
	require.NoError(t, err)

	assert.Equal(t, 2, report.RecordsProcessed)
	assert.Equal(t, 1, report.RecordsWithData)
	assert.Equal(t, 1, report.TotalDataFound)
	assert.Equal(t, StatusMost, report.Status)

	require.Len(t, report.Records, 2)
	r2 := report.Records[1]
	assert.Equal(t, "r2", r2.RecordID)
	assert.False(t, r2.DataFound)
	assert.Equal(t, extraction.MethodNone, r2.ExtractionMethod)
	assert.Zero(t, r2.FieldCount)
}
