package mapper

import (
	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/pkg/store"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToResponse(s *store.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}
	return &dto.SessionResponse{
		Id:              s.ID,
		TableId:         s.TableID,
		TableName:       s.TableName,
		RecordCount:     s.RecordCount,
		ContextLength:   len(s.Context),
		Recovered:       s.Recovered,
		RecoveryMethod:  s.RecoveryMethod,
		RecoveryStatus:  s.RecoveryStatus,
		RecoverySummary: s.RecoverySummary,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
