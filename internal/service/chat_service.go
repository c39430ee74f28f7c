package service

import (
	"context"
	"time"

	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/mapper"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/internal/repository/contract"
	"ai-tablechat-be/pkg/assistant"
	"ai-tablechat-be/pkg/chatcontext"
	"ai-tablechat-be/pkg/events"
	"ai-tablechat-be/pkg/extraction"
	"ai-tablechat-be/pkg/recovery"
	"ai-tablechat-be/pkg/store"
	"ai-tablechat-be/pkg/tabledata"

	"github.com/google/uuid"
)

const chatModule = "chat"

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	SelectTable(ctx context.Context, req *dto.SelectTableRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

// Answerer is the inference client used to answer questions.
type Answerer interface {
	Answer(ctx context.Context, tableContext, question string) (string, error)
}

var _ Answerer = (*assistant.Client)(nil)

type chatService struct {
	adapter       *tabledata.Adapter
	answerer      Answerer
	sessionRepo   contract.ISessionRepository
	publisher     IPublisherService
	logger        logger.ILogger
	sessionMapper *mapper.SessionMapper
}

func NewChatService(
	adapter *tabledata.Adapter,
	answerer Answerer,
	sessionRepo contract.ISessionRepository,
	publisher IPublisherService,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		adapter:       adapter,
		answerer:      answerer,
		sessionRepo:   sessionRepo,
		publisher:     publisher,
		logger:        logger,
		sessionMapper: mapper.NewSessionMapper(),
	}
}

func (cs *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	now := time.Now()
	session := &store.Session{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	if err := cs.loadTable(ctx, session, req.TableId); err != nil {
		return nil, err
	}
	if err := cs.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return cs.sessionMapper.ToResponse(session), nil
}

// SelectTable switches the session to another table and rebuilds its context.
func (cs *chatService) SelectTable(ctx context.Context, req *dto.SelectTableRequest) (*dto.SessionResponse, error) {
	session, err := cs.sessionRepo.Get(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if err := cs.loadTable(ctx, session, req.TableId); err != nil {
		return nil, err
	}
	if err := cs.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return cs.sessionMapper.ToResponse(session), nil
}

func (cs *chatService) GetSession(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := cs.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return cs.sessionMapper.ToResponse(session), nil
}

func (cs *chatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.sessionRepo.Get(ctx, id); err != nil {
		return err
	}
	return cs.sessionRepo.Delete(ctx, id)
}

func (cs *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	session, err := cs.sessionRepo.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	answer, err := cs.answerer.Answer(ctx, session.Context, req.Question)
	if err != nil {
		return nil, err
	}

	publishQuietly(ctx, cs.publisher, cs.logger, events.New(events.TypeQuestionAnswered, map[string]interface{}{
		"session_id":   session.ID.String(),
		"table_id":     session.TableID,
		"question_len": len(req.Question),
		"answer_len":   len(answer),
	}))

	return &dto.AskResponse{
		SessionId: session.ID,
		TableName: session.TableName,
		Question:  req.Question,
		Answer:    answer,
		AskedAt:   time.Now(),
	}, nil
}

// loadTable fetches the table's records, falling back to data recovery when
// the listing comes back incomplete, and rebuilds the session context.
func (cs *chatService) loadTable(ctx context.Context, session *store.Session, tableID string) error {
	data, err := cs.adapter.FetchRecords(ctx, tableID)
	if err != nil {
		cs.logger.Error(chatModule, "Failed to fetch table records", map[string]interface{}{
			"table_id": tableID,
			"error":    err.Error(),
		})
		return err
	}

	records := data.Records
	session.Recovered = false
	session.RecoveryMethod = ""
	session.RecoveryStatus = ""
	session.RecoverySummary = ""

	if tabledata.Incomplete(data) {
		cs.logger.Warn(chatModule, "Record listing is incomplete, running data recovery", map[string]interface{}{
			"table_id": tableID,
			"records":  len(data.Records),
		})
		report, err := cs.recoverRecords(ctx, data)
		if err != nil {
			return err
		}
		records = report.TableRecords()
		session.Recovered = true
		session.RecoveryMethod = report.BestMethod
		session.RecoveryStatus = report.Status
		session.RecoverySummary = report.Summary()
	}

	tableContext, err := chatcontext.Build(data.TableName, records)
	if err != nil {
		return err
	}

	session.TableID = data.TableID
	session.TableName = data.TableName
	session.Context = tableContext
	session.RecordCount = len(records)
	session.UpdatedAt = time.Now()

	publishQuietly(ctx, cs.publisher, cs.logger, events.New(events.TypeTableSelected, map[string]interface{}{
		"session_id": session.ID.String(),
		"table_id":   session.TableID,
		"records":    session.RecordCount,
		"recovered":  session.Recovered,
	}))
	return nil
}

func (cs *chatService) recoverRecords(ctx context.Context, data *tabledata.TableData) (*recovery.Report, error) {
	table, err := cs.adapter.Table(ctx, data.TableID)
	if err != nil {
		return nil, err
	}

	recordIDs := make([]string, 0, len(data.Records))
	for _, r := range data.Records {
		recordIDs = append(recordIDs, r.RecordID)
	}

	src := &extraction.Source{Base: cs.adapter.Base(), Table: table, Fields: data.Fields}
	report, err := recovery.NewOrchestrator(cs.logger).Recover(ctx, src, recordIDs)
	if err != nil {
		return nil, err
	}
	report.TableID = data.TableID
	return report, nil
}
