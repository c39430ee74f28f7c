package dto

type TableResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type RecoveryRequest struct {
	TableId    string `json:"table_id" validate:"required"`
	SampleSize int    `json:"sample_size,omitempty" validate:"omitempty,min=1,max=50"`
}

type MethodStatResponse struct {
	Method      string  `json:"method"`
	Attempts    int     `json:"attempts"`
	Successes   int     `json:"successes"`
	AvgFields   float64 `json:"avg_fields"`
	SuccessRate float64 `json:"success_rate"`
	Score       float64 `json:"score"`
}

type RecoveredRecordResponse struct {
	RecordId         string         `json:"record_id"`
	Fields           map[string]any `json:"fields"`
	DataFound        bool           `json:"data_found"`
	ExtractionMethod string         `json:"extraction_method"`
}

type RecoveryResponse struct {
	TableId            string                    `json:"table_id"`
	RecordsProcessed   int                       `json:"records_processed"`
	RecordsWithData    int                       `json:"records_with_data"`
	TotalDataFound     int                       `json:"total_data_found"`
	AvgFieldsPerRecord float64                   `json:"avg_fields_per_record"`
	BestMethod         string                    `json:"best_method"`
	Status             string                    `json:"status"`
	Methods            []MethodStatResponse      `json:"methods"`
	Records            []RecoveredRecordResponse `json:"records"`
	Summary            string                    `json:"summary"`
}
