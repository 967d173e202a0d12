package handler

import (
	"mime/multipart"
	"net/textproto"
	"reflect"
	"testing"
)

func TestReconcileImages(t *testing.T) {
	idx := func(i int) *int { return &i }

	tests := []struct {
		name         string
		stored       []string
		uploaded     []string
		toDelete     []string
		replaceIndex *int
		wantFinal    []string
		wantRemoved  []string
	}{
		{
			name:      "append uploads",
			stored:    []string{"a.jpg", "b.jpg"},
			uploaded:  []string{"c.jpg"},
			wantFinal: []string{"a.jpg", "b.jpg", "c.jpg"},
		},
		{
			name:         "replace at index",
			stored:       []string{"a.jpg", "b.jpg", "c.jpg"},
			uploaded:     []string{"new.jpg"},
			replaceIndex: idx(1),
			wantFinal:    []string{"a.jpg", "new.jpg", "c.jpg"},
			wantRemoved:  []string{"b.jpg"},
		},
		{
			name:         "replace discards surplus uploads",
			stored:       []string{"a.jpg", "b.jpg", "c.jpg"},
			uploaded:     []string{"d.jpg", "e.jpg"},
			replaceIndex: idx(1),
			wantFinal:    []string{"a.jpg", "d.jpg", "c.jpg"},
			wantRemoved:  []string{"b.jpg", "e.jpg"},
		},
		{
			name:        "delete stored urls",
			stored:      []string{"a.jpg", "b.jpg", "c.jpg"},
			toDelete:    []string{"a.jpg", "c.jpg"},
			wantFinal:   []string{"b.jpg"},
			wantRemoved: []string{"a.jpg", "c.jpg"},
		},
		{
			name:      "foreign delete urls ignored",
			stored:    []string{"a.jpg"},
			toDelete:  []string{"https://elsewhere.example/evil.jpg"},
			wantFinal: []string{"a.jpg"},
		},
		{
			name:        "delete urls normalized before comparison",
			stored:      []string{"uploads/lieux/a.png", "uploads/lieux/b.png"},
			toDelete:    []string{`uploads\lieux\a.png`},
			wantFinal:   []string{"uploads/lieux/b.png"},
			wantRemoved: []string{"uploads/lieux/a.png"},
		},
		{
			name:         "replace index out of range drops uploads",
			stored:       []string{"a.jpg"},
			uploaded:     []string{"b.jpg"},
			replaceIndex: idx(7),
			wantFinal:    []string{"a.jpg"},
			wantRemoved:  []string{"b.jpg"},
		},
		{
			name:        "delete and upload combined",
			stored:      []string{"a.jpg", "b.jpg"},
			uploaded:    []string{"c.jpg"},
			toDelete:    []string{"a.jpg"},
			wantFinal:   []string{"b.jpg", "c.jpg"},
			wantRemoved: []string{"a.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := reconcileImages(tt.stored, tt.uploaded, tt.toDelete, tt.replaceIndex)
			if !reflect.DeepEqual(plan.Final, tt.wantFinal) {
				t.Errorf("Final = %v, want %v", plan.Final, tt.wantFinal)
			}
			wantRemoved := tt.wantRemoved
			if wantRemoved == nil {
				wantRemoved = []string{}
			}
			if !reflect.DeepEqual(plan.Removed, wantRemoved) {
				t.Errorf("Removed = %v, want %v", plan.Removed, wantRemoved)
			}
		})
	}
}

func TestParseImageControls(t *testing.T) {
	t.Run("numeric replace index", func(t *testing.T) {
		payload := map[string]any{"replaceImageIndex": float64(2), "etabNom": "x"}
		replaceIndex, toDelete := parseImageControls(payload)
		if replaceIndex == nil || *replaceIndex != 2 {
			t.Fatalf("replaceIndex = %v, want 2", replaceIndex)
		}
		if len(toDelete) != 0 {
			t.Errorf("toDelete = %v, want empty", toDelete)
		}
		if _, ok := payload["replaceImageIndex"]; ok {
			t.Error("replaceImageIndex left in payload")
		}
		if _, ok := payload["etabNom"]; !ok {
			t.Error("unrelated field stripped from payload")
		}
	})

	t.Run("string replace index", func(t *testing.T) {
		payload := map[string]any{"replaceImageIndex": " 3 "}
		replaceIndex, _ := parseImageControls(payload)
		if replaceIndex == nil || *replaceIndex != 3 {
			t.Fatalf("replaceIndex = %v, want 3", replaceIndex)
		}
	})

	t.Run("delete list as json array", func(t *testing.T) {
		payload := map[string]any{"imagesToDelete": []any{"a.jpg", "b.jpg", ""}}
		_, toDelete := parseImageControls(payload)
		if !reflect.DeepEqual(toDelete, []string{"a.jpg", "b.jpg"}) {
			t.Errorf("toDelete = %v", toDelete)
		}
		if _, ok := payload["imagesToDelete"]; ok {
			t.Error("imagesToDelete left in payload")
		}
	})

	t.Run("delete list as encoded string", func(t *testing.T) {
		payload := map[string]any{"imagesToDelete": `["a.jpg","b.jpg"]`}
		_, toDelete := parseImageControls(payload)
		if !reflect.DeepEqual(toDelete, []string{"a.jpg", "b.jpg"}) {
			t.Errorf("toDelete = %v", toDelete)
		}
	})

	t.Run("single url string", func(t *testing.T) {
		payload := map[string]any{"imagesToDelete": "a.jpg"}
		_, toDelete := parseImageControls(payload)
		if !reflect.DeepEqual(toDelete, []string{"a.jpg"}) {
			t.Errorf("toDelete = %v", toDelete)
		}
	})

	t.Run("absent controls", func(t *testing.T) {
		replaceIndex, toDelete := parseImageControls(map[string]any{"etabNom": "x"})
		if replaceIndex != nil || toDelete != nil {
			t.Errorf("got %v, %v; want nil, nil", replaceIndex, toDelete)
		}
	})
}

func TestCheckImageFiles(t *testing.T) {
	header := func(contentType string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", contentType)
		return &multipart.FileHeader{Filename: "img", Header: h, Size: size}
	}

	t.Run("valid set", func(t *testing.T) {
		files := []*multipart.FileHeader{
			header("image/jpeg", 1024),
			header("image/png", 2048),
			header("image/webp", 4096),
		}
		if msg := checkImageFiles(files); msg != "" {
			t.Errorf("checkImageFiles = %q, want empty", msg)
		}
	})

	t.Run("too many files", func(t *testing.T) {
		files := make([]*multipart.FileHeader, maxImagesPerLieu+1)
		for i := range files {
			files[i] = header("image/jpeg", 1024)
		}
		if msg := checkImageFiles(files); msg == "" {
			t.Error("expected rejection above the image cap")
		}
	})

	t.Run("oversize file", func(t *testing.T) {
		files := []*multipart.FileHeader{header("image/jpeg", maxImageSizeBytes+1)}
		if msg := checkImageFiles(files); msg == "" {
			t.Error("expected rejection for oversize file")
		}
	})

	t.Run("unsupported content type", func(t *testing.T) {
		files := []*multipart.FileHeader{header("image/gif", 1024)}
		if msg := checkImageFiles(files); msg == "" {
			t.Error("expected rejection for unsupported type")
		}
	})
}

func TestParseIDString(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		id, err := parseIDString(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIDString(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil || id != tt.want {
			t.Errorf("parseIDString(%q) = %d, %v; want %d", tt.raw, id, err, tt.want)
		}
	}
}
