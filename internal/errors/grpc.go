package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts an error to a gRPC status error. Meta is attached as a
// google.protobuf.Struct detail together with the original code.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if !stderrors.As(err, &customErr) {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(customErr.Code.GRPCCode(), customErr.Message)

	details := map[string]any{"code": string(customErr.Code)}
	if len(customErr.Meta) > 0 {
		details["meta"] = flattenMeta(customErr.Meta)
	}
	detail, convErr := structpb.NewStruct(details)
	if convErr != nil {
		slog.Warn("failed to encode error details", "code", customErr.Code, "error", convErr)
		return st.Err()
	}
	if withDetails, detailErr := st.WithDetails(detail); detailErr == nil {
		st = withDetails
	}

	return st.Err()
}

// FromGRPCError converts a gRPC error to our custom error
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    codeFromGRPC(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		fields, ok := detail.(*structpb.Struct)
		if !ok {
			continue
		}
		values := fields.AsMap()
		if code, ok := values["code"].(string); ok && code != "" {
			customErr.Code = Code(code)
		}
		if meta, ok := values["meta"].(map[string]any); ok {
			customErr.Meta = meta
		}
		break
	}

	return customErr
}

// flattenMeta keeps values structpb can encode and stringifies the rest.
func flattenMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if _, err := structpb.NewValue(v); err != nil {
			out[k] = fmt.Sprint(v)
			continue
		}
		out[k] = v
	}
	return out
}
