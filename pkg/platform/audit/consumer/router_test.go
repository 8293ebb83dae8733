package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contracts "almoner/contracts/audit"
	kafka "almoner/internal/platform/kafka"
)

type captureHandler struct {
	msgs []*kafka.Message
	err  error
}

func (h *captureHandler) Handle(_ context.Context, msg *kafka.Message) error {
	h.msgs = append(h.msgs, msg)
	return h.err
}

type captureSink struct {
	saved []contracts.Record
	err   error
}

func (s *captureSink) Save(_ context.Context, record contracts.Record) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, record)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wirePayload(t *testing.T) []byte {
	t.Helper()
	payload, err := contracts.Record{
		ID:       uuid.NewString(),
		Kind:     contracts.KindDonationReceived,
		Seq:      4,
		Epoch:    2,
		Actor:    "donor-3",
		Amount:   1200,
		CenterID: uuid.NewString(),
	}.Marshal()
	require.NoError(t, err)
	return payload
}

func TestRouter_DispatchesByTopic(t *testing.T) {
	auditHandler := &captureHandler{}
	otherHandler := &captureHandler{}

	router := NewRouter(testLogger(), nil)
	router.Register(contracts.Topic, auditHandler)
	router.Register("almoner.other", otherHandler)

	msg := &kafka.Message{Topic: contracts.Topic, Value: []byte("{}")}
	require.NoError(t, router.Handle(context.Background(), msg))

	assert.Len(t, auditHandler.msgs, 1)
	assert.Empty(t, otherHandler.msgs)
}

func TestRouter_FallbackReceivesUnknownTopics(t *testing.T) {
	fallback := &captureHandler{}
	router := NewRouter(testLogger(), fallback)

	msg := &kafka.Message{Topic: "unmapped.topic"}
	require.NoError(t, router.Handle(context.Background(), msg))
	assert.Len(t, fallback.msgs, 1)
}

func TestRouter_UnknownTopicWithoutFallbackCommits(t *testing.T) {
	router := NewRouter(testLogger(), nil)

	msg := &kafka.Message{Topic: "unmapped.topic"}
	assert.NoError(t, router.Handle(context.Background(), msg))
}

func TestRouter_TopicsListsRegistrationsSorted(t *testing.T) {
	router := NewRouter(testLogger(), nil)
	assert.Empty(t, router.Topics())

	router.Register("almoner.replay", &captureHandler{})
	router.Register(contracts.Topic, &captureHandler{})
	router.Register("almoner.replay", &captureHandler{})

	assert.Equal(t, []string{contracts.Topic, "almoner.replay"}, router.Topics())
}

func TestRecordHandler_ArchivesDecodedRecords(t *testing.T) {
	sink := &captureSink{}
	handler := NewRecordHandler(sink, testLogger())

	msg := &kafka.Message{Topic: contracts.Topic, Value: wirePayload(t)}
	require.NoError(t, handler.Handle(context.Background(), msg))

	require.Len(t, sink.saved, 1)
	assert.Equal(t, contracts.KindDonationReceived, sink.saved[0].Kind)
	assert.Equal(t, uint64(1200), sink.saved[0].Amount)
}

func TestRecordHandler_MalformedPayloadCommits(t *testing.T) {
	sink := &captureSink{}
	handler := NewRecordHandler(sink, testLogger())

	msg := &kafka.Message{Topic: contracts.Topic, Value: []byte("not json")}
	assert.NoError(t, handler.Handle(context.Background(), msg))
	assert.Empty(t, sink.saved)
}

func TestRecordHandler_SinkFailureBlocksCommit(t *testing.T) {
	sink := &captureSink{err: errors.New("archive unavailable")}
	handler := NewRecordHandler(sink, testLogger())

	msg := &kafka.Message{Topic: contracts.Topic, Value: wirePayload(t)}
	assert.Error(t, handler.Handle(context.Background(), msg))
}

func TestLogHandler_NeverBlocksCommit(t *testing.T) {
	handler := NewLogHandler(testLogger())

	valid := &kafka.Message{Topic: contracts.Topic, Value: wirePayload(t)}
	assert.NoError(t, handler.Handle(context.Background(), valid))

	garbage := &kafka.Message{Topic: contracts.Topic, Value: []byte("garbage")}
	assert.NoError(t, handler.Handle(context.Background(), garbage))
}
