package mapper

import (
	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/pkg/recovery"
)

type RecoveryMapper struct{}

func NewRecoveryMapper() *RecoveryMapper {
	return &RecoveryMapper{}
}

func (m *RecoveryMapper) ToResponse(r *recovery.Report) *dto.RecoveryResponse {
	if r == nil {
		return nil
	}

	methods := make([]dto.MethodStatResponse, 0, len(r.MethodOrder))
	for _, name := range r.MethodOrder {
		s := r.MethodStats[name]
		methods = append(methods, dto.MethodStatResponse{
			Method:      name,
			Attempts:    s.Attempts,
			Successes:   s.Successes,
			AvgFields:   s.AvgFields,
			SuccessRate: s.SuccessRate,
			Score:       s.Score,
		})
	}

	records := make([]dto.RecoveredRecordResponse, 0, len(r.Records))
	for _, rec := range r.Records {
		records = append(records, dto.RecoveredRecordResponse{
			RecordId:         rec.RecordID,
			Fields:           rec.Fields,
			DataFound:        rec.DataFound,
			ExtractionMethod: rec.ExtractionMethod,
		})
	}

	return &dto.RecoveryResponse{
		TableId:            r.TableID,
		RecordsProcessed:   r.RecordsProcessed,
		RecordsWithData:    r.RecordsWithData,
		TotalDataFound:     r.TotalDataFound,
		AvgFieldsPerRecord: r.AvgFieldsPerRecord,
		BestMethod:         r.BestMethod,
		Status:             r.Status,
		Methods:            methods,
		Records:            records,
		Summary:            r.Summary(),
	}
}
