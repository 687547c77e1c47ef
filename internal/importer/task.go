package importer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeProductImport is the asynq task type for queued imports.
const TaskTypeProductImport = "import:products"

// TaskPayload carries one queued import: the run id and the raw CSV payload.
type TaskPayload struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`
	CSV    string `json:"csv"`
}

// NewProductImportTask serializes the payload into an asynq task.
func NewProductImportTask(payload TaskPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// Failed imports stay failed: the pipeline documents at-least-partial
	// effects, so a blind retry would duplicate the inserted rows.
	return asynq.NewTask(TaskTypeProductImport, raw, asynq.MaxRetry(0)), nil
}

// TaskJob processes queued product imports on the worker.
type TaskJob struct {
	Pipeline *Pipeline
	Runs     RunStore
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewTaskJob wires dependencies for the import task handler.
func NewTaskJob(pipeline *Pipeline, runs RunStore, logger *slog.Logger) *TaskJob {
	return &TaskJob{
		Pipeline: pipeline,
		Runs:     runs,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one queued import run.
func (j *TaskJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pipeline == nil {
		return errors.New("product import: handler not configured")
	}
	var payload TaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting product import run")

	report, err := j.Pipeline.Run(ctx, strings.NewReader(payload.CSV))
	if err != nil {
		logger.Error("import parse failed", slog.Any("error", err))
		if j.Runs != nil {
			if ferr := j.Runs.Finish(ctx, payload.RunID, RunStatusFailed, Report{}, err.Error()); ferr != nil {
				logger.Error("record failed run", slog.Any("error", ferr))
			}
		}
		return asynq.SkipRetry
	}

	status := StatusForReport(report)
	if j.Runs != nil {
		if err := j.Runs.Finish(ctx, payload.RunID, status, report, report.Error); err != nil {
			logger.Error("record finished run", slog.Any("error", err))
		}
	}
	logger.Info("product import run finished",
		slog.String("status", string(status)),
		slog.Int("inserted", report.Inserted),
		slog.Int("failed", report.Failed))
	return nil
}

func (j *TaskJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
