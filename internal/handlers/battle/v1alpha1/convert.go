package v1alpha1

import (
	"bytes"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// decode reads a request Struct into dst. Unknown fields are rejected so
// typos in field names surface as INVALID_ARGUMENT.
func decode(req *structpb.Struct, dst any) error {
	if req == nil {
		return errors.InvalidArgument("request is required")
	}
	data, err := protojson.Marshal(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read request")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid request")
	}
	return nil
}

// Encode converts a response value into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}

// Decode converts a response Struct into dst. Clients use it to read typed
// responses.
func Decode(resp *structpb.Struct, dst any) error {
	data, err := protojson.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	return nil
}

func respond(v any) (*structpb.Struct, error) {
	out, err := Encode(v)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}
