package service

import (
	"context"

	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/mapper"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/events"
	"ai-tablechat-be/pkg/recovery"
	"ai-tablechat-be/pkg/tabledata"
)

const tableModule = "table"

type ITableService interface {
	GetAll(ctx context.Context) ([]*dto.TableResponse, error)
	Recover(ctx context.Context, req *dto.RecoveryRequest) (*dto.RecoveryResponse, error)
}

type tableService struct {
	adapter        *tabledata.Adapter
	logger         logger.ILogger
	publisher      IPublisherService
	tableMapper    *mapper.TableMapper
	recoveryMapper *mapper.RecoveryMapper
}

func NewTableService(
	adapter *tabledata.Adapter,
	logger logger.ILogger,
	publisher IPublisherService,
) ITableService {
	return &tableService{
		adapter:        adapter,
		logger:         logger,
		publisher:      publisher,
		tableMapper:    mapper.NewTableMapper(),
		recoveryMapper: mapper.NewRecoveryMapper(),
	}
}

func (s *tableService) GetAll(ctx context.Context) ([]*dto.TableResponse, error) {
	tables, err := s.adapter.ListTables(ctx)
	if err != nil {
		s.logger.Error(tableModule, "Failed to list tables", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return s.tableMapper.ToResponses(tables), nil
}

// Recover runs the recovery orchestrator on the whole table, whatever the
// regular record listing returns.
func (s *tableService) Recover(ctx context.Context, req *dto.RecoveryRequest) (*dto.RecoveryResponse, error) {
	orchestrator := recovery.NewOrchestrator(s.logger).WithSampleSize(req.SampleSize)

	report, err := orchestrator.RecoverTable(ctx, s.adapter.Base(), req.TableId)
	if err != nil {
		s.logger.Error(tableModule, "Data recovery failed", map[string]interface{}{
			"table_id": req.TableId,
			"error":    err.Error(),
		})
		return nil, err
	}

	publishQuietly(ctx, s.publisher, s.logger, events.New(events.TypeRecoveryCompleted, map[string]interface{}{
		"table_id":          report.TableID,
		"best_method":       report.BestMethod,
		"records_processed": report.RecordsProcessed,
		"records_with_data": report.RecordsWithData,
		"status":            report.Status,
	}))

	return s.recoveryMapper.ToResponse(report), nil
}

// publishQuietly reports activity without letting a bus failure affect the request.
func publishQuietly(ctx context.Context, p IPublisherService, log logger.ILogger, event events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Warn(activityModule, "Failed to publish activity event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
