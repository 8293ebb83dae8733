package consumer

import (
	"context"
	"fmt"
	"log/slog"

	contracts "almoner/contracts/audit"
	kafka "almoner/internal/platform/kafka"
)

// RecordSink stores consumed audit records, typically in a long-retention
// archive separate from the ledger's own outbox.
type RecordSink interface {
	Save(ctx context.Context, record contracts.Record) error
}

// RecordHandler mirrors published audit records into a sink. Malformed
// payloads are logged and committed; a record that cannot be decoded cannot
// be decoded on redelivery either. Sink failures block the offset so the
// record is retried.
type RecordHandler struct {
	sink   RecordSink
	logger *slog.Logger
}

// NewRecordHandler creates an archiving handler for the audit topic.
func NewRecordHandler(sink RecordSink, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		sink:   sink,
		logger: logger,
	}
}

// Handle decodes and stores one published audit record.
func (h *RecordHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	record, err := contracts.Unmarshal(msg.Value)
	if err != nil {
		h.logger.Error("CRITICAL: failed to unmarshal audit record",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	if record.Amount == 0 || record.CenterID == "" {
		h.logger.Error("CRITICAL: audit record missing amount or center",
			"record_id", record.ID,
			"kind", record.Kind,
		)
		return nil
	}

	if err := h.sink.Save(ctx, record); err != nil {
		h.logger.Error("failed to archive audit record",
			"record_id", record.ID,
			"kind", record.Kind,
			"error", err,
		)
		return fmt.Errorf("archive audit record: %w", err)
	}

	h.logger.Debug("archived audit record",
		"record_id", record.ID,
		"kind", record.Kind,
		"seq", record.Seq,
	)

	return nil
}
