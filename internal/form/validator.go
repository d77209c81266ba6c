package form

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ValidateStruct runs ozzo rules and folds every violation into a single
// InvalidArgument status carrying BadRequest field details.
func ValidateStruct(structPtr interface{}, rules ...*validation.FieldRules) error {
	err := validation.ValidateStruct(structPtr, rules...)
	if err == nil {
		return nil
	}

	var ve validation.Errors
	if !errors.As(err, &ve) {
		return status.Error(codes.Internal, err.Error())
	}

	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f,
			Description: formatErrMsg(ve[f].Error()),
		})
	}

	st, err := status.New(codes.InvalidArgument, "Validation message").WithDetails(br)
	if err != nil {
		return status.New(codes.Internal, err.Error()).Err()
	}
	return st.Err()
}

// Violations lists "field: description" pairs from a ValidateStruct error.
func Violations(err error) []string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	var out []string
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, fv := range br.FieldViolations {
			out = append(out, fv.Field+": "+fv.Description)
		}
	}
	return out
}

func formatErrMsg(s string) string {
	return ucfirst(strings.Trim(s, " .")) + "."
}

func ucfirst(str string) string {
	for i, v := range str {
		return string(unicode.ToUpper(v)) + str[i+1:]
	}
	return ""
}
