// Package inputval validates request input before it reaches a store.
//
// Two layers: standalone predicates (IsValidEmail, IsValidObjectID, ...) for
// one-off checks, and Validate, which walks a struct's `validate` tags and
// collects human-readable messages. The `label` tag names the field in
// messages.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/madrichim/leadhub/internal/domain/models"
)

// IsValidEmail checks the shape of an email address. Stricter than net/mail:
// display-name forms ("Name <a@b>") are rejected, as are dotted-edge and
// consecutive-dot locals that upstream systems choke on. Single-label domains
// pass; dev and test environments use them.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " \t<>") {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if strings.Contains(local, "@") {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return false
	}
	return true
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsValidRole reports whether s names a known account role.
func IsValidRole(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.RoleAdministrator, models.RoleVolunteer:
		return true
	}
	return false
}

// AllowedRolesList returns the account roles in display order.
func AllowedRolesList() []string {
	return []string{models.RoleAdministrator, models.RoleVolunteer}
}

// IsValidLeadField reports whether s names a tracked lead field.
func IsValidLeadField(s string) bool {
	return models.IsLeadField(strings.ToLower(strings.TrimSpace(s)))
}

// FieldError is one validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first failure message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every failure message with "; ".
func (r *Result) All() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Validate walks the string fields of a struct and applies the rules in each
// field's `validate` tag. Supported rules: required, max=N, email, role,
// leadfield, objectid. Non-required rules skip empty values so optional
// fields stay optional.
func Validate(v interface{}) *Result {
	result := &Result{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return result
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || sf.Type.Kind() != reflect.String {
			continue
		}
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		value := rv.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			if msg := applyRule(rule, label, value); msg != "" {
				result.Errors = append(result.Errors, FieldError{Field: sf.Name, Message: msg})
				break
			}
		}
	}

	return result
}

func applyRule(rule, label, value string) string {
	trimmed := strings.TrimSpace(value)

	switch {
	case rule == "required":
		if trimmed == "" {
			return fmt.Sprintf("%s is required.", label)
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && len(trimmed) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case rule == "email":
		if trimmed != "" && !IsValidEmail(trimmed) {
			return "A valid email address is required."
		}
	case rule == "role":
		if trimmed != "" && !IsValidRole(trimmed) {
			return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(AllowedRolesList(), ", "))
		}
	case rule == "leadfield":
		if trimmed != "" && !IsValidLeadField(trimmed) {
			return fmt.Sprintf("%s is not a tracked lead field.", label)
		}
	case rule == "objectid":
		if trimmed != "" && !IsValidObjectID(trimmed) {
			return fmt.Sprintf("%s must be a valid id.", label)
		}
	}
	return ""
}
