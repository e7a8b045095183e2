package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
	"github.com/light-bringer/catalog-listing/internal/app/listing/params"
)

// Handler implements ListingServiceServer over a listing engine. Like the
// HTTP API it is stateless.
type Handler struct {
	UnimplementedListingServiceServer

	engine contracts.ListingEngine
	logger *zap.Logger
}

// NewHandler creates a new gRPC listing handler.
func NewHandler(engine contracts.ListingEngine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, logger: logger}
}

// Query evaluates the filter state described by the request fields.
func (h *Handler) Query(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	values, err := structToValues(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	req, err := params.ParseListingRequest(values)
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	modes := h.engine.SortModes()
	params.SupportedSort(req, modes)

	res, err := h.engine.Execute(ctx, req)
	if err != nil {
		h.logger.Warn("listing query failed", zap.Error(err))
		return nil, mapDomainErrorToGRPC(err)
	}
	return toStruct(params.NewListingResponse(res, modes))
}

// Facets returns the facets for the request's "q" field.
func (h *Handler) Facets(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var search string
	if v, ok := in.GetFields()[params.Search]; ok {
		search = v.GetStringValue()
	}
	facets, err := h.engine.Facets(ctx, search)
	if err != nil {
		h.logger.Warn("facet query failed", zap.Error(err))
		return nil, mapDomainErrorToGRPC(err)
	}
	return toStruct(facets)
}

// structToValues flattens request fields into query-string values. Lists
// become repeated values.
func structToValues(in *structpb.Struct) (url.Values, error) {
	values := url.Values{}
	for name, v := range in.GetFields() {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_ListValue:
			for _, item := range kind.ListValue.GetValues() {
				s, err := scalar(name, item)
				if err != nil {
					return nil, err
				}
				values.Add(name, s)
			}
		case *structpb.Value_NullValue:
		default:
			s, err := scalar(name, v)
			if err != nil {
				return nil, err
			}
			values.Set(name, s)
		}
	}
	return values, nil
}

func scalar(name string, v *structpb.Value) (string, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), nil
	default:
		return "", fmt.Errorf("field %q: unsupported value", name)
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}
