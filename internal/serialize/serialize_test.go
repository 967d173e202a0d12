package serialize

import (
	"reflect"
	"testing"
	"time"
)

func TestClean(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("wide integers become strings", func(t *testing.T) {
		if got := Clean(int64(9007199254740993)); got != "9007199254740993" {
			t.Errorf("int64 = %v", got)
		}
		if got := Clean(uint64(42)); got != "42" {
			t.Errorf("uint64 = %v", got)
		}
	})

	t.Run("timestamps become RFC3339 UTC", func(t *testing.T) {
		if got := Clean(ts); got != "2025-03-14T09:26:53Z" {
			t.Errorf("time = %v", got)
		}
		if got := Clean((*time.Time)(nil)); got != nil {
			t.Errorf("nil *time.Time = %v", got)
		}
	})

	t.Run("small numerics pass through", func(t *testing.T) {
		if got := Clean(7); got != 7 {
			t.Errorf("int = %v", got)
		}
		if got := Clean(3.5); got != 3.5 {
			t.Errorf("float = %v", got)
		}
	})

	t.Run("trees are walked recursively", func(t *testing.T) {
		in := map[string]any{
			"id": int64(12),
			"likes": []map[string]any{
				{"id": int64(3), "createdAt": ts},
			},
			"tags": []any{int64(1), "deux"},
		}
		want := map[string]any{
			"id": "12",
			"likes": []any{
				map[string]any{"id": "3", "createdAt": "2025-03-14T09:26:53Z"},
			},
			"tags": []any{"1", "deux"},
		}
		if got := Clean(in); !reflect.DeepEqual(got, want) {
			t.Errorf("Clean() = %#v, want %#v", got, want)
		}
	})
}

func TestNormalizeImagePath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain path untouched", "uploads/lieux/a.png", "uploads/lieux/a.png"},
		{"backslashes rewritten", `uploads\lieux\a.png`, "uploads/lieux/a.png"},
		{
			"decomposed object rejoined in key order",
			`{"0":"up","1":"loads/","2":"a.png"}`,
			"uploads/a.png",
		},
		{
			"decomposed with double-digit keys",
			`{"10":"g","0":"i","1":"m","2":"g","3":".","4":"j","5":"p","6":"e","7":"g","8":"/","9":"im"}`,
			"img.jpeg/img",
		},
		{
			"regular json object left alone",
			`{"url":"a.png"}`,
			`{"url":"a.png"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeImagePath(tc.in); got != tc.want {
				t.Errorf("NormalizeImagePath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeImageList(t *testing.T) {
	if got := NormalizeImageList(nil); got == nil || len(got) != 0 {
		t.Errorf("nil input should yield empty non-nil slice, got %#v", got)
	}
	got := NormalizeImageList([]string{`a\b.png`, "c.png"})
	want := []string{"a/b.png", "c.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeImageList = %v, want %v", got, want)
	}
}
