package schema

import (
	"reflect"
	"testing"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
)

func validCreatePayload() map[string]any {
	return map[string]any{
		"type":          "loisirs",
		"regionNom":     "Maritime",
		"prefectureNom": "Golfe",
		"communeNom":    "Golfe 1",
		"cantonNom":     "Bè",
		"etabNom":       "Bar Le Phare",
		"geometry":      "POINT(1.2255 6.1319)",
	}
}

func TestValidateLieu(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := validCreatePayload()
		payload["etabJour"] = []any{"lundi", "mardi"}
		payload["etablissementType"] = "bar"

		in, errs := ValidateLieu(payload)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.Type != model.TypeLoisirs {
			t.Errorf("Type = %q", in.Type)
		}
		if in.EtabNom != "Bar Le Phare" {
			t.Errorf("EtabNom = %q", in.EtabNom)
		}
		if !reflect.DeepEqual(in.EtabJour, []string{"lundi", "mardi"}) {
			t.Errorf("EtabJour = %v", in.EtabJour)
		}
		if in.Specific["etablissementType"] != "bar" {
			t.Errorf("Specific = %v", in.Specific)
		}
		if !in.Status {
			t.Error("Status should default to true")
		}
	})

	t.Run("missing required fields reported together", func(t *testing.T) {
		_, errs := ValidateLieu(map[string]any{"type": "hotels"})
		if len(errs) < 6 {
			t.Fatalf("got %d errors, want one per missing field: %v", len(errs), errs)
		}
		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		for _, f := range []string{"regionNom", "prefectureNom", "communeNom", "cantonNom", "etabNom", "geometry"} {
			if !fields[f] {
				t.Errorf("missing error for %s", f)
			}
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		payload := validCreatePayload()
		payload["type"] = "plages"
		_, errs := ValidateLieu(payload)
		if len(errs) != 1 || errs[0].Field != "type" {
			t.Fatalf("errs = %v", errs)
		}
	})

	t.Run("type is case-insensitive", func(t *testing.T) {
		payload := validCreatePayload()
		payload["type"] = " Loisirs "
		in, errs := ValidateLieu(payload)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.Type != model.TypeLoisirs {
			t.Errorf("Type = %q", in.Type)
		}
	})

	t.Run("bad geometry rejected", func(t *testing.T) {
		payload := validCreatePayload()
		payload["geometry"] = "LINESTRING(0 0, 1 1)"
		_, errs := ValidateLieu(payload)
		if len(errs) != 1 || errs[0].Field != "geometry" {
			t.Fatalf("errs = %v", errs)
		}
	})

	t.Run("snake_case alias accepted", func(t *testing.T) {
		payload := validCreatePayload()
		payload["etablissement_type"] = "discothèque"
		in, errs := ValidateLieu(payload)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.Specific["etablissementType"] != "discothèque" {
			t.Errorf("Specific = %v", in.Specific)
		}
	})

	t.Run("overlong specific field rejected", func(t *testing.T) {
		payload := validCreatePayload()
		long := make([]rune, specificLimit+1)
		for i := range long {
			long[i] = 'x'
		}
		payload["etablissementType"] = string(long)
		_, errs := ValidateLieu(payload)
		if len(errs) != 1 || errs[0].Field != "etablissementType" {
			t.Fatalf("errs = %v", errs)
		}
	})

	t.Run("status false honored", func(t *testing.T) {
		payload := validCreatePayload()
		payload["status"] = "false"
		in, errs := ValidateLieu(payload)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if in.Status {
			t.Error("Status should be false")
		}
	})
}

func TestValidateLieuPatch(t *testing.T) {
	t.Run("partial base fields", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"etabNom": "Nouveau nom"})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if p.EtabNom == nil || *p.EtabNom != "Nouveau nom" {
			t.Errorf("EtabNom = %v", p.EtabNom)
		}
		if p.RegionNom != nil {
			t.Error("untouched field should stay nil")
		}
	})

	t.Run("unknown fields dropped", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{
			"etabNom":      "X",
			"champInconnu": "valeur",
		})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(p.Specific) != 0 {
			t.Errorf("Specific = %v, want empty", p.Specific)
		}
	})

	t.Run("empty patch rejected but still returned", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"champInconnu": "valeur"})
		if len(errs) != 1 {
			t.Fatalf("errs = %v", errs)
		}
		// The caller decides whether image operations satisfy the
		// empty patch, so it needs the patch back.
		if p == nil {
			t.Fatal("empty patch should be returned alongside the error")
		}
		if !p.Empty() {
			t.Error("patch should carry no fields")
		}
	})

	t.Run("specific field collected regardless of type", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"terrain": "boisé"})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if p.Specific["terrain"] != "boisé" {
			t.Errorf("Specific = %v", p.Specific)
		}
	})

	t.Run("geometry validated when present", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"geometry": "CIRCLE(0 0 5)"})
		if len(errs) != 1 || errs[0].Field != "geometry" {
			t.Fatalf("errs = %v", errs)
		}
		if p != nil {
			t.Error("field-level errors must not return a patch")
		}
	})

	t.Run("type carried through for immutability check", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"type": "hotels", "etabNom": "X"})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if p.Type == nil || *p.Type != model.TypeHotels {
			t.Errorf("Type = %v", p.Type)
		}
	})

	t.Run("etabJour slice from json", func(t *testing.T) {
		p, errs := ValidateLieuPatch(map[string]any{"etabJour": []any{"samedi"}})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if p.EtabJour == nil || !reflect.DeepEqual(*p.EtabJour, []string{"samedi"}) {
			t.Errorf("EtabJour = %v", p.EtabJour)
		}
	})
}
