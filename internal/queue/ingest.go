package queue

import (
	"context"
	"encoding/json"

	"multirag/pkg/ingest"
	"multirag/pkg/loader"
	"multirag/pkg/logger"
)

// IngestJobMsg is the wire format of an ingestion job. Path points at the
// uploaded file in the worker-visible upload directory.
type IngestJobMsg struct {
	JobID string `json:"job_id"`
	Path  string `json:"path"`
}

// ProcessIngestMessage decodes one ingestion job and runs the pipeline on
// it. The returned error drives the caller's retry/DLQ handling.
func ProcessIngestMessage(ctx context.Context, orchestrator *ingest.Orchestrator, msg []byte) error {
	data := new(IngestJobMsg)
	if err := json.Unmarshal(msg, data); err != nil {
		return err
	}

	logger.Info("[Queue] Processing ingest job", "job_id", data.JobID, "path", data.Path)

	res, err := orchestrator.IngestFile(ctx, loader.File{
		ID:   data.JobID,
		Path: data.Path,
	})
	if err != nil {
		return err
	}

	logger.Info("[Queue] Ingest job finished",
		"job_id", data.JobID,
		"state", res.State,
		"chunks", res.Chunks,
		"triples", res.TriplesAdded,
	)

	return nil
}
