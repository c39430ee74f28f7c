package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-tablechat-be/internal/bootstrap"
	"ai-tablechat-be/internal/dto"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/internal/repository/memory"
	"ai-tablechat-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	tableID    string
	question   string
	sampleSize int
	asJSON     bool
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the host",
	RunE:  runTables,
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question about a table",
	Long: `Load the table's records, recovering them when the listing comes back
empty, and ask the configured model a question about them.`,
	RunE: runAsk,
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Run data recovery on a table and print the report",
	RunE:  runRecover,
}

func init() {
	askCmd.Flags().StringVarP(&tableID, "table", "t", "", "table id")
	askCmd.Flags().StringVarP(&question, "question", "q", "", "question to ask")
	askCmd.MarkFlagRequired("table")
	askCmd.MarkFlagRequired("question")

	recoverCmd.Flags().StringVarP(&tableID, "table", "t", "", "table id")
	recoverCmd.Flags().IntVar(&sampleSize, "sample", 0, "records sampled to pick the extraction method")
	recoverCmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	recoverCmd.MarkFlagRequired("table")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := time.ParseDuration(timeoutFlag)
	if err != nil || timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func tableService() (service.ITableService, error) {
	adapter, err := bootstrap.NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewTableService(adapter, logger.NewNopLogger(), nil), nil
}

func runTables(cmd *cobra.Command, args []string) error {
	svc, err := tableService()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	tables, err := svc.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		color.Yellow("No tables found")
		return nil
	}
	for _, t := range tables {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", color.CyanString(t.Id), t.Name)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	adapter, err := bootstrap.NewAdapter(cfg)
	if err != nil {
		return err
	}
	client, err := bootstrap.NewAssistant(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	chat := service.NewChatService(adapter, client, memory.NewSessionRepository(time.Hour), nil, logger.NewNopLogger())
	session, err := chat.CreateSession(ctx, &dto.CreateSessionRequest{TableId: tableID})
	if err != nil {
		return err
	}
	if session.Recovered {
		color.Yellow("Records recovered with %s: %s", session.RecoveryMethod, session.RecoverySummary)
	}

	res, err := chat.Ask(ctx, &dto.AskRequest{SessionId: session.Id, Question: question})
	if err != nil {
		return err
	}
	color.Cyan("%s (%d records)", res.TableName, session.RecordCount)
	fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
	return nil
}

func runRecover(cmd *cobra.Command, args []string) error {
	svc, err := tableService()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	report, err := svc.Recover(ctx, &dto.RecoveryRequest{TableId: tableID, SampleSize: sampleSize})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, m := range report.Methods {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s attempts=%d successes=%d avg=%.2f rate=%.2f score=%.2f\n",
			m.Method, m.Attempts, m.Successes, m.AvgFields, m.SuccessRate, m.Score)
	}
	switch {
	case report.RecordsWithData == 0:
		color.Red("%s", report.Summary)
	case report.RecordsWithData < report.RecordsProcessed:
		color.Yellow("%s", report.Summary)
	default:
		color.Green("%s", report.Summary)
	}
	return nil
}
