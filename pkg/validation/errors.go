package validation

import (
	"reflect"
	"sort"
	"strings"
)

// Issue is one failed rule on one field.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors lists issues in field order, then rule order within a field.
type Errors []Issue

// Empty reports whether no issue was recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// First returns the first issue.
func (e Errors) First() (Issue, bool) {
	if len(e) == 0 {
		return Issue{}, false
	}
	return e[0], true
}

// Field returns the issues recorded for name.
func (e Errors) Field(name string) Errors {
	var out Errors
	for _, issue := range e {
		if issue.Field == name {
			out = append(out, issue)
		}
	}
	return out
}

// Fields returns the distinct field names with issues, in order.
func (e Errors) Fields() []string {
	seen := make(map[string]struct{}, len(e))
	var out []string
	for _, issue := range e {
		if _, ok := seen[issue.Field]; ok {
			continue
		}
		seen[issue.Field] = struct{}{}
		out = append(out, issue.Field)
	}
	return out
}

// Messages groups messages by field, keeping order and dropping duplicates.
func (e Errors) Messages() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range e {
		msg := strings.TrimSpace(issue.Message)
		if msg == "" {
			continue
		}
		dup := false
		for _, existing := range out[issue.Field] {
			if existing == msg {
				dup = true
				break
			}
		}
		if !dup {
			out[issue.Field] = append(out[issue.Field], msg)
		}
	}
	return out
}

// Without drops issues for the given fields. No names drops everything.
func (e Errors) Without(names ...string) Errors {
	if len(names) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	var out Errors
	for _, issue := range e {
		if _, ok := drop[issue.Field]; !ok {
			out = append(out, issue)
		}
	}
	return out
}

// FirstMessage searches a possibly nested error structure depth-first and
// returns the first message found. It understands Issue, Errors, error
// values, maps or structs carrying a message string, slices of strings and
// any nesting of those.
// Map keys are visited in sorted order.
func FirstMessage(v any) string {
	msg, _ := firstMessage(reflect.ValueOf(v))
	return msg
}

func firstMessage(rv reflect.Value) (string, bool) {
	if !rv.IsValid() {
		return "", false
	}
	if rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		if rv.CanInterface() {
			if msg, ok := directMessage(rv.Interface()); ok {
				return msg, true
			}
		}
		return firstMessage(rv.Elem())
	}
	if rv.CanInterface() {
		if msg, ok := directMessage(rv.Interface()); ok {
			return msg, true
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i)
			if s, ok := stringOf(item); ok {
				if s != "" {
					return s, true
				}
				continue
			}
			if msg, ok := firstMessage(item); ok {
				return msg, true
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		if msg := rv.MapIndex(reflect.ValueOf("message").Convert(rv.Type().Key())); msg.IsValid() {
			if s, ok := stringOf(msg); ok && s != "" {
				return s, true
			}
		}
		for _, key := range keys {
			if msg, ok := firstMessage(rv.MapIndex(key)); ok {
				return msg, true
			}
		}
	case reflect.Struct:
		if msg := rv.FieldByName("Message"); msg.IsValid() {
			if s, ok := stringOf(msg); ok && s != "" {
				return s, true
			}
		}
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			if msg, ok := firstMessage(rv.Field(i)); ok {
				return msg, true
			}
		}
	}
	return "", false
}

func directMessage(v any) (string, bool) {
	switch t := v.(type) {
	case Issue:
		return t.Message, t.Message != ""
	case *Issue:
		if t == nil {
			return "", false
		}
		return t.Message, t.Message != ""
	case error:
		if msg := t.Error(); msg != "" {
			return msg, true
		}
	}
	return "", false
}

func stringOf(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
