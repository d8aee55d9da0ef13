// Package diff computes and renders field-level change sets between two
// snapshots of a buyer record. Compute is pure; Format never fails.
package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// FieldChange is one field's transition. The old/new JSON keys are the wire
// format stored in buyer_history.diff and must not change.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Entry maps a field name to its change. An empty Entry means "nothing
// changed" and is a valid result, not an error.
type Entry map[string]FieldChange

// Absent is rendered in place of a missing old or new value.
const Absent = "-"

// Sentinel values used for the synthetic creation entry. A real field named
// "Create" cannot collide with it because creation entries are additionally
// tagged with event_type 'created' on the history row.
const (
	SentinelField = "Create"
	SentinelOld   = "did not exist"
	SentinelNew   = "exists"
)

// Created returns the synthetic Entry recorded when a buyer is first
// inserted, where no old snapshot exists to compare against.
func Created() Entry {
	return Entry{SentinelField: {Old: SentinelOld, New: SentinelNew}}
}

// Compute compares two field maps and returns one FieldChange per key whose
// value differs. Keys present on only one side are treated as absent (nil) on
// the other, so partial updates never error. nil and "" are distinct values:
// clearing a field is a recorded change.
func Compute(oldFields, newFields map[string]interface{}) Entry {
	entry := Entry{}

	for key, oldVal := range oldFields {
		newVal, ok := newFields[key]
		if !ok {
			entry[key] = FieldChange{Old: oldVal, New: nil}
			continue
		}
		if !equal(oldVal, newVal) {
			entry[key] = FieldChange{Old: oldVal, New: newVal}
		}
	}

	for key, newVal := range newFields {
		if _, ok := oldFields[key]; !ok {
			entry[key] = FieldChange{Old: nil, New: newVal}
		}
	}

	return entry
}

// equal reports value identity for primitives and deep structural equality
// for composites (tag slices and the like).
func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// Fields returns the entry's field names in sorted order. Rendering and tests
// rely on this order being deterministic.
func (e Entry) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Format renders a diff as "field: old → new" fragments joined with ", ".
// It accepts an Entry, any map shape, or serialized JSON ([]byte / string).
// It never fails: input it cannot interpret is returned as its raw textual
// form, so an audit view always has something to show.
func Format(v interface{}) string {
	switch d := v.(type) {
	case Entry:
		return formatEntry(d)
	case map[string]FieldChange:
		return formatEntry(d)
	case []byte:
		return formatRaw(d)
	case string:
		return formatRaw([]byte(d))
	default:
		// Anything map-like round-trips through JSON into an Entry.
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return formatRaw(raw)
	}
}

func formatRaw(raw []byte) string {
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return string(raw)
	}
	return formatEntry(entry)
}

func formatEntry(entry Entry) string {
	fragments := make([]string, 0, len(entry))
	for _, field := range entry.Fields() {
		change := entry[field]
		fragments = append(fragments, fmt.Sprintf("%s: %s → %s",
			field, renderValue(change.Old), renderValue(change.New)))
	}
	return strings.Join(fragments, ", ")
}

// renderValue produces the textual form of one side of a FieldChange.
// Composite values are rendered as compact JSON rather than Go syntax.
func renderValue(v interface{}) string {
	if v == nil {
		return Absent
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// json.Unmarshal decodes all numbers as float64; print integral
		// values without a trailing ".0".
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct, reflect.Ptr:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
	return fmt.Sprintf("%v", v)
}
