package dto

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field name to its human-readable error messages.
// It implements error so services can return it directly; handlers render
// it as a 400 body of the shape {"errors": {"field": ["msg", ...]}}.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(v[f], ", "))
	}
	return b.String()
}

type ValidationErrorResponse struct {
	Errors ValidationErrors `json:"errors"`
}
