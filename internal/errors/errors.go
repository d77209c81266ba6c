package gerr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrInvalidFilter     = status.Error(codes.InvalidArgument, "invalid analytics filter")
	ErrInvalidDateRange  = status.Error(codes.InvalidArgument, "date range start is after end")
	ErrUnknownSection    = status.Error(codes.NotFound, "unknown analytics section")
	ErrUnknownFormat     = status.Error(codes.InvalidArgument, "unknown export format")
	ErrSourceUnavailable = status.Error(codes.Unavailable, "analytics data source unavailable")
	ErrRateLimited       = status.Error(codes.ResourceExhausted, "too many requests")
)
