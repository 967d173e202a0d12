package repository

import (
	"testing"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
)

func TestVenueTypeRegistry(t *testing.T) {
	tags := []model.VenueType{
		model.TypeLoisirs, model.TypeHotels, model.TypeParcs, model.TypeMarches,
		model.TypeSites, model.TypeZones, model.TypeSupermarches, model.TypeTouristique,
	}

	t.Run("all eight categories are registered", func(t *testing.T) {
		if len(VenueTypeTags()) != 8 {
			t.Fatalf("expected 8 registered types, got %d", len(VenueTypeTags()))
		}
		for _, tag := range tags {
			if !ValidVenueType(tag) {
				t.Errorf("type %q should be valid", tag)
			}
		}
		if ValidVenueType("musees") {
			t.Error("unregistered type should be invalid")
		}
	})

	t.Run("satellite tables are unique", func(t *testing.T) {
		seen := map[string]model.VenueType{}
		for _, tag := range tags {
			table, ok := SatelliteTableFor(tag)
			if !ok || table == "" {
				t.Fatalf("type %q has no satellite table", tag)
			}
			if prev, dup := seen[table]; dup {
				t.Errorf("table %q shared by %q and %q", table, prev, tag)
			}
			seen[table] = tag
		}
	})

	t.Run("specific fields carry their sentinels", func(t *testing.T) {
		cases := []struct {
			typ      model.VenueType
			name     string
			def      string
		}{
			{model.TypeLoisirs, "etablissementType", "Non spécifié"},
			{model.TypeParcs, "terrain", "Non spécifié"},
			{model.TypeMarches, "organisme", "Non spécifié"},
			{model.TypeSites, "typeSiteDeux", "Non spécifié"},
			{model.TypeSites, "ministereTutelle", "Non spécifié"},
			{model.TypeSites, "religion", "Néant"},
		}
		for _, tc := range cases {
			fields, ok := SpecificSchemaFor(tc.typ)
			if !ok {
				t.Fatalf("type %q has no schema", tc.typ)
			}
			found := false
			for _, f := range fields {
				if f.Name == tc.name {
					found = true
					if f.Default != tc.def {
						t.Errorf("%s.%s default = %q, want %q", tc.typ, tc.name, f.Default, tc.def)
					}
				}
			}
			if !found {
				t.Errorf("type %q is missing specific field %q", tc.typ, tc.name)
			}
		}
	})

	t.Run("existence-only satellites have empty schemas", func(t *testing.T) {
		for _, tag := range []model.VenueType{
			model.TypeHotels, model.TypeZones, model.TypeSupermarches, model.TypeTouristique,
		} {
			fields, ok := SpecificSchemaFor(tag)
			if !ok {
				t.Fatalf("type %q has no schema", tag)
			}
			if len(fields) != 0 {
				t.Errorf("type %q should have no specific fields, got %d", tag, len(fields))
			}
		}
	})

	t.Run("allowlists include the specific fields", func(t *testing.T) {
		for _, tag := range tags {
			allowed, ok := ResponseFieldsFor(tag)
			if !ok || len(allowed) == 0 {
				t.Fatalf("type %q has no response allowlist", tag)
			}
			set := map[string]bool{}
			for _, f := range allowed {
				set[f] = true
			}
			for _, base := range []string{"regionNom", "etabNom", "type", "geometry", "status"} {
				if !set[base] {
					t.Errorf("type %q allowlist is missing %q", tag, base)
				}
			}
			fields, _ := SpecificSchemaFor(tag)
			for _, f := range fields {
				if !set[f.Name] {
					t.Errorf("type %q allowlist is missing specific field %q", tag, f.Name)
				}
			}
		}
	})

	t.Run("allowlists differ per category", func(t *testing.T) {
		zones, _ := ResponseFieldsFor(model.TypeZones)
		for _, f := range zones {
			if f == "etabJour" {
				t.Error("protected zones should not expose etabJour")
			}
		}
		loisirs, _ := ResponseFieldsFor(model.TypeLoisirs)
		for _, f := range loisirs {
			if f == "nomLocalite" {
				t.Error("leisure venues should not expose nomLocalite")
			}
		}
	})
}
