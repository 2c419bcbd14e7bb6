package form

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field key to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "form: invalid: " + strings.Join(parts, "; ")
}

// Validate checks the required header fields. It returns nil when the
// document can be submitted.
func Validate(d *Document) error {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(d.Date) == "" {
		errs["date"] = "Date is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
