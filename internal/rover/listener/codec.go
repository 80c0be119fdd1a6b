package listener

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/autopeer-io/rover/internal/rover/core"
)

// EncodeEvent renders e as a protojson Struct: {"event": ..., "value": ..., "timestamp": ...}.
func EncodeEvent(e core.Event) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"event":     string(e.Type),
		"value":     e.Value,
		"timestamp": e.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(payload []byte) (core.Event, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(payload, &s); err != nil {
		return core.Event{}, fmt.Errorf("failed to decode controller event: %w", err)
	}

	fields := s.GetFields()
	typ := fields["event"].GetStringValue()
	if typ == "" {
		return core.Event{}, fmt.Errorf("controller event has no type")
	}

	e := core.Event{
		Type:  core.EventType(typ),
		Value: int64(fields["value"].GetNumberValue()),
	}
	if ts := fields["timestamp"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return core.Event{}, fmt.Errorf("bad controller event timestamp: %w", err)
		}
		e.Timestamp = t
	}
	return e, nil
}
