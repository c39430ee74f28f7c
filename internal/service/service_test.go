package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/internal/repository/memory"
	"ai-tablechat-be/pkg/events"
	memhost "ai-tablechat-be/pkg/host/memory"
	"ai-tablechat-be/pkg/recovery"
	"ai-tablechat-be/pkg/store"
	"ai-tablechat-be/pkg/tabledata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
tables:
  - id: tblPeople
    name: People
    views: [{id: vewGrid, name: Grid}]
    fields:
      - {id: fldName, name: Name, type: text}
      - {id: fldAge, name: Age, type: number}
    records:
      - id: recA
        fields: {Name: Alice, Age: 30}
      - id: recB
        fields: {Name: Bob}
  - id: tblTasks
    name: Tasks
    hide_record_values: true
    views: [{id: vewKanban, name: Kanban}]
    fields:
      - {id: fldTitle, name: Title, type: text}
    records:
      - id: t1
        fields: {Title: Report}
  - id: tblBroken
    name: Broken
`

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type echoAnswerer struct {
	lastContext string
}

func (a *echoAnswerer) Answer(ctx context.Context, tableContext, question string) (string, error) {
	a.lastContext = tableContext
	return "answer to " + question, nil
}

func newAdapter(t *testing.T) *tabledata.Adapter {
	t.Helper()
	f, err := memhost.ParseFixture([]byte(fixture))
	require.NoError(t, err)
	return tabledata.NewAdapter(memhost.NewBase(f))
}

func newChat(t *testing.T) (IChatService, *echoAnswerer, *recordingPublisher) {
	t.Helper()
	answerer := &echoAnswerer{}
	pub := &recordingPublisher{}
	svc := NewChatService(newAdapter(t), answerer, memory.NewSessionRepository(time.Minute), pub, logger.NewNopLogger())
	return svc, answerer, pub
}

func TestChatService_CreateSessionAndAsk(t *testing.T) {
	ctx := context.Background()
	svc, answerer, pub := newChat(t)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{TableId: "tblPeople"})
	require.NoError(t, err)
	assert.Equal(t, "People", session.TableName)
	assert.Equal(t, 2, session.RecordCount)
	assert.False(t, session.Recovered)

	res, err := svc.Ask(ctx, &dto.AskRequest{SessionId: session.Id, Question: "Who is oldest?"})
	require.NoError(t, err)
	assert.Equal(t, "answer to Who is oldest?", res.Answer)
	assert.True(t, strings.HasPrefix(answerer.lastContext, "Table: People\nData: ["))
	assert.Contains(t, answerer.lastContext, `"Name":"Alice"`)

	assert.Equal(t, []string{events.TypeTableSelected, events.TypeQuestionAnswered}, pub.types())
}

func TestChatService_RecoversIncompleteTable(t *testing.T) {
	ctx := context.Background()
	svc, answerer, _ := newChat(t)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{TableId: "tblTasks"})
	require.NoError(t, err)
	assert.True(t, session.Recovered)
	assert.Equal(t, "direct", session.RecoveryMethod)
	assert.Equal(t, recovery.StatusAllData, session.RecoveryStatus)

	_, err = svc.Ask(ctx, &dto.AskRequest{SessionId: session.Id, Question: "What tasks exist?"})
	require.NoError(t, err)
	assert.Contains(t, answerer.lastContext, `"Title":"Report"`)
}

func TestChatService_SelectTable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newChat(t)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{TableId: "tblPeople"})
	require.NoError(t, err)

	switched, err := svc.SelectTable(ctx, &dto.SelectTableRequest{Id: session.Id, TableId: "tblTasks"})
	require.NoError(t, err)
	assert.Equal(t, session.Id, switched.Id)
	assert.Equal(t, "Tasks", switched.TableName)
	assert.Equal(t, 1, switched.RecordCount)

	got, err := svc.GetSession(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "tblTasks", got.TableId)
}

func TestChatService_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newChat(t)

	_, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{TableId: "tblBroken"})
	assert.ErrorIs(t, err, tabledata.ErrNoView)

	_, err = svc.Ask(ctx, &dto.AskRequest{SessionId: uuid.New(), Question: "?"})
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	assert.ErrorIs(t, svc.DeleteSession(ctx, uuid.New()), store.ErrSessionNotFound)
}

func TestChatService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newChat(t)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{TableId: "tblPeople"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(ctx, session.Id))

	_, err = svc.GetSession(ctx, session.Id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestTableService(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewTableService(newAdapter(t), logger.NewNopLogger(), pub)

	tables, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, "tblPeople", tables[0].Id)

	report, err := svc.Recover(ctx, &dto.RecoveryRequest{TableId: "tblPeople", SampleSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "tblPeople", report.TableId)
	assert.Equal(t, 2, report.RecordsProcessed)
	assert.Equal(t, 2, report.RecordsWithData)
	assert.Equal(t, 3, report.TotalDataFound)
	assert.Equal(t, "direct", report.BestMethod)
	require.Len(t, report.Methods, 4)
	assert.Equal(t, 1, report.Methods[0].Attempts)
	assert.Contains(t, report.Summary, "Records processed: 2")

	assert.Equal(t, []string{events.TypeRecoveryCompleted}, pub.types())
}

func TestTableService_NilPublisher(t *testing.T) {
	svc := NewTableService(newAdapter(t), logger.NewNopLogger(), nil)
	_, err := svc.Recover(context.Background(), &dto.RecoveryRequest{TableId: "tblTasks"})
	assert.NoError(t, err)
}
