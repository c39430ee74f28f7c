package mapper

import (
	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/pkg/host"
)

type TableMapper struct{}

func NewTableMapper() *TableMapper {
	return &TableMapper{}
}

func (m *TableMapper) ToResponses(tables []host.TableMeta) []*dto.TableResponse {
	res := make([]*dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		res = append(res, &dto.TableResponse{Id: t.ID, Name: t.Name})
	}
	return res
}
