package consumer

import (
	"context"
	"log/slog"

	contracts "almoner/contracts/audit"
	kafka "almoner/internal/platform/kafka"
)

// LogHandler prints published audit records to the logger. It backs the
// auditwatch command and is best-effort: nothing it sees blocks a commit.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a logging handler for the audit topic.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// Handle logs one published audit record.
func (h *LogHandler) Handle(_ context.Context, msg *kafka.Message) error {
	record, err := contracts.Unmarshal(msg.Value)
	if err != nil {
		h.logger.Debug("skipping undecodable audit record",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	h.logger.Info("audit record",
		"record_id", record.ID,
		"kind", record.Kind,
		"seq", record.Seq,
		"epoch", record.Epoch,
		"actor", record.Actor,
		"amount", record.Amount,
		"center_id", record.CenterID,
		"to_center_id", record.ToCenterID,
		"credit_id", record.CreditID,
		"recipient", record.Recipient,
		"request_id", record.RequestID,
	)

	return nil
}
