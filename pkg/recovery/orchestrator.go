// Package recovery picks the extraction strategy that works best for a table
// and applies it to every record.
package recovery

import (
	"context"
	"fmt"

	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/extraction"
	"ai-tablechat-be/pkg/host"
)

const (
	logModule = "recovery"

	// DefaultSampleSize is the number of records every strategy is tried on.
	DefaultSampleSize = 5
)

// Orchestrator runs the extraction strategies. Records and strategies are
// processed strictly one after another.
type Orchestrator struct {
	strategies []extraction.Strategy
	sampleSize int
	logger     logger.ILogger
}

// NewOrchestrator creates an orchestrator over the given strategies, or over
// extraction.All() when none are given. Evaluation order is the slice order.
func NewOrchestrator(log logger.ILogger, strategies ...extraction.Strategy) *Orchestrator {
	if len(strategies) == 0 {
		strategies = extraction.All()
	}
	return &Orchestrator{
		strategies: strategies,
		sampleSize: DefaultSampleSize,
		logger:     log,
	}
}

// WithSampleSize overrides the sample size; values below 1 are ignored.
func (o *Orchestrator) WithSampleSize(n int) *Orchestrator {
	if n > 0 {
		o.sampleSize = n
	}
	return o
}

// RecoverTable resolves the table through the base connection and recovers
// every record it lists.
func (o *Orchestrator) RecoverTable(ctx context.Context, base host.Base, tableID string) (*Report, error) {
	table, err := base.GetTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve table data: %w", err)
	}
	fields, err := table.GetFieldMetaList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve table data: %w", err)
	}
	recordIDs, err := table.GetRecordIDList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve table data: %w", err)
	}

	src := &extraction.Source{Base: base, Table: table, Fields: fields}
	report, err := o.Recover(ctx, src, recordIDs)
	if err != nil {
		return nil, err
	}
	report.TableID = tableID
	return report, nil
}

// Recover samples up to sampleSize records, scores every strategy on them,
// then re-runs only the best strategy on the remaining records. The only
// error it returns is the context's.
func (o *Orchestrator) Recover(ctx context.Context, src *extraction.Source, recordIDs []string) (*Report, error) {
	report := &Report{
		MethodStats: make(map[string]MethodStat, len(o.strategies)),
		Records:     make([]RecoveredRecord, 0, len(recordIDs)),
	}
	if src.Table != nil {
		report.TableID = src.Table.ID()
	}

	sampleN := min(len(recordIDs), o.sampleSize)
	report.SampleSize = sampleN

	o.logger.Info(logModule, "Starting data recovery", map[string]interface{}{
		"table_id":    report.TableID,
		"records":     len(recordIDs),
		"sample_size": sampleN,
	})

	stats := make(map[string]*MethodStat, len(o.strategies))
	for _, s := range o.strategies {
		stats[s.Name()] = &MethodStat{}
		report.MethodOrder = append(report.MethodOrder, s.Name())
	}

	for _, recordID := range recordIDs[:sampleN] {
		entry, err := o.sampleRecord(ctx, src, recordID, stats)
		if err != nil {
			return nil, err
		}
		report.Records = append(report.Records, entry)
	}

	best := o.chooseBest(stats, report)

	if rest := recordIDs[sampleN:]; len(rest) > 0 {
		o.logger.Info(logModule, "Applying best method to remaining records", map[string]interface{}{
			"method":  best.Name(),
			"records": len(rest),
		})
		for _, recordID := range rest {
			entry, err := o.bulkRecord(ctx, best, src, recordID)
			if err != nil {
				return nil, err
			}
			if entry.DataFound {
				report.BulkSucceeded++
			} else {
				report.BulkFailed++
			}
			report.Records = append(report.Records, entry)
		}
	}

	for _, r := range report.Records {
		report.RecordsProcessed++
		report.TotalDataFound += r.FieldCount
		if r.DataFound {
			report.RecordsWithData++
		}
	}
	if report.RecordsProcessed > 0 {
		report.AvgFieldsPerRecord = float64(report.TotalDataFound) / float64(report.RecordsProcessed)
	}
	report.Status = statusFor(report)

	o.logger.Info(logModule, "Data recovery finished", map[string]interface{}{
		"table_id":          report.TableID,
		"best_method":       report.BestMethod,
		"records_processed": report.RecordsProcessed,
		"records_with_data": report.RecordsWithData,
		"total_data_found":  report.TotalDataFound,
		"status":            report.Status,
	})
	return report, nil
}

// sampleRecord runs every strategy on one record and keeps the result with
// the highest usable field count. Ties keep the earlier strategy.
func (o *Orchestrator) sampleRecord(ctx context.Context, src *extraction.Source, recordID string, stats map[string]*MethodStat) (RecoveredRecord, error) {
	entry := RecoveredRecord{
		RecordID:         recordID,
		Fields:           map[string]any{},
		ExtractionMethod: extraction.MethodNone,
	}
	bestScore := 0

	for _, s := range o.strategies {
		res, err := o.run(ctx, s, src, recordID)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RecoveredRecord{}, ctxErr
		}

		stat := stats[s.Name()]
		stat.Attempts++
		if err != nil {
			o.logger.Warn(logModule, "Strategy failed on record", map[string]interface{}{
				"method":    s.Name(),
				"record_id": recordID,
				"error":     err.Error(),
			})
			continue
		}

		score := extraction.CountUsable(res.Fields)
		o.logger.Debug(logModule, "Strategy scored", map[string]interface{}{
			"method":    s.Name(),
			"record_id": recordID,
			"score":     score,
		})
		if score > 0 {
			stat.Successes++
			stat.TotalFields += score
		}
		if score > bestScore {
			bestScore = score
			entry.Fields = res.Fields
			entry.ExtractionMethod = s.Name()
		}
	}

	entry.FieldCount = bestScore
	entry.DataFound = bestScore > 0
	return entry, nil
}

// chooseBest computes avg × success rate per strategy and returns the
// strategy with the strictly greatest score, the first one winning ties.
func (o *Orchestrator) chooseBest(stats map[string]*MethodStat, report *Report) extraction.Strategy {
	var best extraction.Strategy
	bestScore := -1.0

	for _, s := range o.strategies {
		stat := stats[s.Name()]
		if stat.Attempts > 0 {
			stat.AvgFields = float64(stat.TotalFields) / float64(stat.Attempts)
			stat.SuccessRate = float64(stat.Successes) / float64(stat.Attempts)
		}
		stat.Score = stat.AvgFields * stat.SuccessRate
		report.MethodStats[s.Name()] = *stat

		if stat.Score > bestScore {
			bestScore = stat.Score
			best = s
		}
	}

	if best != nil {
		report.BestMethod = best.Name()
	}
	return best
}

func (o *Orchestrator) bulkRecord(ctx context.Context, s extraction.Strategy, src *extraction.Source, recordID string) (RecoveredRecord, error) {
	res, err := o.run(ctx, s, src, recordID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return RecoveredRecord{}, ctxErr
	}
	if err != nil {
		o.logger.Warn(logModule, "Record extraction failed", map[string]interface{}{
			"method":    s.Name(),
			"record_id": recordID,
			"error":     err.Error(),
		})
		return RecoveredRecord{
			RecordID:         recordID,
			Fields:           map[string]any{},
			ExtractionMethod: extraction.MethodError,
		}, nil
	}

	count := extraction.CountUsable(res.Fields)
	entry := RecoveredRecord{
		RecordID:         recordID,
		Fields:           res.Fields,
		FieldCount:       count,
		DataFound:        count > 0,
		ExtractionMethod: s.Name(),
	}
	if !entry.DataFound {
		entry.ExtractionMethod = extraction.MethodNone
	}
	return entry, nil
}

// run executes one strategy, converting a panic into an error.
func (o *Orchestrator) run(ctx context.Context, s extraction.Strategy, src *extraction.Source, recordID string) (res extraction.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), p)
		}
	}()
	return s.Extract(ctx, src, recordID)
}

// TableRecords returns the recovered entries as name-keyed table records.
func (r *Report) TableRecords() []host.TableRecord {
	out := make([]host.TableRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, host.TableRecord{RecordID: rec.RecordID, Fields: rec.Fields})
	}
	return out
}
