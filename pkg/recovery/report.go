package recovery

import (
	"fmt"
	"sort"
	"strings"
)

const (
	StatusNoData  = "critical: no data recovered"
	StatusAllData = "all records have data"
	StatusMost    = "most records have data"
	StatusPartial = "partial"
)

// mostThreshold is the recovered fraction at or above which the run is
// reported as "most records have data".
const mostThreshold = 0.5

// RecoveredRecord is the entry kept for one record.
type RecoveredRecord struct {
	RecordID         string         `json:"recordId"`
	Fields           map[string]any `json:"fields"`
	DataFound        bool           `json:"dataFound"`
	ExtractionMethod string         `json:"extractionMethod"`
	FieldCount       int            `json:"fieldCount"`
}

// MethodStat accumulates one strategy's performance over the sample.
type MethodStat struct {
	Attempts    int     `json:"attempts"`
	Successes   int     `json:"successes"`
	TotalFields int     `json:"totalFields"`
	AvgFields   float64 `json:"avgFields"`
	SuccessRate float64 `json:"successRate"`
	Score       float64 `json:"score"`
}

// Report summarizes one recovery run.
type Report struct {
	TableID            string                `json:"tableId"`
	RecordsProcessed   int                   `json:"recordsProcessed"`
	RecordsWithData    int                   `json:"recordsWithData"`
	TotalDataFound     int                   `json:"totalDataFound"`
	AvgFieldsPerRecord float64               `json:"avgFieldsPerRecord"`
	SampleSize         int                   `json:"sampleSize"`
	MethodOrder        []string              `json:"methodOrder"`
	MethodStats        map[string]MethodStat `json:"methodStats"`
	BestMethod         string                `json:"bestMethod"`
	BulkSucceeded      int                   `json:"bulkSucceeded"`
	BulkFailed         int                   `json:"bulkFailed"`
	Status             string                `json:"status"`
	Records            []RecoveredRecord     `json:"records"`
}

func statusFor(r *Report) string {
	switch {
	case r.TotalDataFound == 0:
		return StatusNoData
	case r.RecordsWithData == r.RecordsProcessed:
		return StatusAllData
	case float64(r.RecordsWithData)/float64(r.RecordsProcessed) >= mostThreshold:
		return StatusMost
	default:
		return StatusPartial
	}
}

// Summary renders the report as human-readable text.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Data recovery report for table %s\n", r.TableID)
	fmt.Fprintf(&sb, "Records processed: %d\n", r.RecordsProcessed)
	fmt.Fprintf(&sb, "Records with data: %d\n", r.RecordsWithData)
	fmt.Fprintf(&sb, "Fields recovered: %d\n", r.TotalDataFound)
	fmt.Fprintf(&sb, "Average fields per record: %.2f\n", r.AvgFieldsPerRecord)

	if len(r.MethodStats) > 0 {
		sb.WriteString("Method statistics (sample):\n")
		for _, name := range r.orderedMethods() {
			s := r.MethodStats[name]
			fmt.Fprintf(&sb, "  %-7s avg fields %.2f, success rate %.0f%%, score %.2f\n",
				name, s.AvgFields, s.SuccessRate*100, s.Score)
		}
	}
	if r.BestMethod != "" {
		fmt.Fprintf(&sb, "Best method: %s\n", r.BestMethod)
	}
	if r.BulkSucceeded+r.BulkFailed > 0 {
		fmt.Fprintf(&sb, "Bulk pass: %d succeeded, %d failed\n", r.BulkSucceeded, r.BulkFailed)
	}
	fmt.Fprintf(&sb, "Status: %s", r.Status)
	return sb.String()
}

func (r *Report) orderedMethods() []string {
	if len(r.MethodOrder) > 0 {
		return r.MethodOrder
	}
	names := make([]string, 0, len(r.MethodStats))
	for name := range r.MethodStats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
