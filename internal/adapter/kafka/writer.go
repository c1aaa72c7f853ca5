package kafka

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/couchcryptid/climate-spiral/internal/config"
	"github.com/couchcryptid/climate-spiral/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces playback frames to a Kafka topic.
// It implements playback.FrameLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured frame topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFrameTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadFrames serializes and publishes frames in a single WriteMessages call.
// Frames are keyed by run ID so one run stays ordered on one partition.
func (w *Writer) LoadFrames(ctx context.Context, frames []domain.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(frames))
	for i := range frames {
		msg, err := serializeToMessage(frames[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Frame into a Kafka message with headers in
// sorted key order.
func serializeToMessage(frame domain.Frame) (kafkago.Message, error) {
	out, err := domain.SerializeFrame(frame)
	if err != nil {
		return kafkago.Message{}, err
	}
	headers := make([]kafkago.Header, 0, len(out.Headers))
	for _, key := range slices.Sorted(maps.Keys(out.Headers)) {
		headers = append(headers, kafkago.Header{Key: key, Value: []byte(out.Headers[key])})
	}
	return kafkago.Message{
		Key:     out.Key,
		Value:   out.Value,
		Headers: headers,
	}, nil
}
