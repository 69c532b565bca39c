package pricing

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// decodeStruct fills v, a dto request, from a Struct message.
func decodeStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to encode request struct")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, "malformed request")
	}
	return nil
}

// encodeStruct renders v, a dto reply, as a Struct message.
func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode reply")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode reply struct")
	}
	return out, nil
}
