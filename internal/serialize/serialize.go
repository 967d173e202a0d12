// Package serialize normalizes result trees before they are encoded as
// JSON. Two concerns live here: 64-bit identifiers and timestamps are
// not JSON-safe (encoders and clients lose precision past 2^53, and
// time.Time renders inconsistently across drivers), and legacy rows
// carry image paths in a decomposed object form that must be folded
// back into flat strings.
package serialize

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FormatID renders a 64-bit identifier as its decimal string form.
// Identifiers always cross the API boundary as strings.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// FormatTime renders a timestamp as RFC3339 in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Clean walks a result tree and replaces every value that cannot be
// encoded safely: int64/uint64 become decimal strings, time.Time
// becomes RFC3339, nested maps and slices are cleaned recursively.
// Smaller integer kinds and floats pass through untouched — only wide
// identifiers need the string form.
func Clean(v any) any {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case time.Time:
		return FormatTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return FormatTime(*t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Clean(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clean(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clean(val)
		}
		return out
	default:
		return v
	}
}

// NormalizeImagePath folds a stored image path into its canonical flat
// form. Legacy rows occasionally hold a JSON object whose numeric keys
// spell out the path one character (or fragment) at a time — an
// artifact of upstream serialization, never produced intentionally.
// Those objects are joined in key order. Backslash separators are
// rewritten to forward slashes in all cases.
func NormalizeImagePath(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "{") {
		var decomposed map[string]string
		if err := json.Unmarshal([]byte(s), &decomposed); err == nil && len(decomposed) > 0 {
			if joined, ok := joinDecomposed(decomposed); ok {
				s = joined
			}
		}
	}
	return strings.ReplaceAll(s, "\\", "/")
}

// NormalizeImageList applies NormalizeImagePath to every entry. Always
// returns a non-nil slice so empty image sets encode as [] rather than
// null.
func NormalizeImageList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeImagePath(r))
	}
	return out
}

// joinDecomposed reassembles a numeric-key object into a single string.
// Every key must parse as a non-negative integer; anything else means
// the value is a regular JSON object and is left alone.
func joinDecomposed(parts map[string]string) (string, bool) {
	type kv struct {
		idx int
		val string
	}
	ordered := make([]kv, 0, len(parts))
	for k, v := range parts {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return "", false
		}
		ordered = append(ordered, kv{idx: n, val: v})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].idx < ordered[j].idx })
	var b strings.Builder
	for _, p := range ordered {
		b.WriteString(p.val)
	}
	return b.String(), true
}
