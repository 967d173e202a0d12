// Package schema validates raw request payloads against the venue
// schemas. Validation happens in two passes: the shared base schema
// first, then the type-specific schema selected through the venue type
// registry. Payloads arrive as maps because multipart and JSON bodies
// are merged before validation; the output is a typed record the
// repository can trust.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/repository"
)

// FieldError is one field-level validation failure. A validation pass
// returns all failures at once rather than stopping at the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldErr(field, format string, args ...any) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// base field length limits, shared by create and update validation.
var baseLimits = map[string]int{
	"regionNom":         50,
	"prefectureNom":     50,
	"communeNom":        50,
	"cantonNom":         100,
	"nomLocalite":       100,
	"etabNom":           255,
	"toiletteType":      50,
	"etabAdresse":       255,
	"activiteStatut":    50,
	"activiteCategorie": 50,
	"etabCreationDate":  50,
}

// specificLimit applies to every satellite field.
const specificLimit = 50

// specificAliases maps accepted alternate spellings to the canonical
// JSON field name. The leisure subtype historically arrived in both
// camelCase and snake_case.
var specificAliases = map[string]string{
	"etablissement_type": "etablissementType",
}

// specificFieldNames is the union of satellite field names across all
// types, used by partial updates where the current type is not known to
// the validator.
var specificFieldNames = func() map[string]bool {
	names := map[string]bool{}
	for _, t := range repository.VenueTypeTags() {
		fields, _ := repository.SpecificSchemaFor(t)
		for _, f := range fields {
			names[f.Name] = true
		}
	}
	return names
}()

// ValidateLieu validates a venue creation payload. The shared schema
// runs first (required names, geometry kind, known type); on success
// the type-specific fields are extracted. Errors are accumulated so the
// client sees every problem in one round trip.
func ValidateLieu(payload map[string]any) (*model.LieuInput, []FieldError) {
	var errs []FieldError

	typ := model.VenueType(strings.ToLower(strings.TrimSpace(stringAt(payload, "type"))))
	if typ == "" {
		errs = append(errs, fieldErr("type", "type requis"))
	} else if !repository.ValidVenueType(typ) {
		errs = append(errs, fieldErr("type", "type de lieu invalide: %s", typ))
	}

	in := &model.LieuInput{
		Type:     typ,
		Status:   true,
		Specific: map[string]string{},
	}

	in.RegionNom = requireString(payload, "regionNom", &errs)
	in.PrefectureNom = requireString(payload, "prefectureNom", &errs)
	in.CommuneNom = requireString(payload, "communeNom", &errs)
	in.CantonNom = requireString(payload, "cantonNom", &errs)
	in.EtabNom = requireString(payload, "etabNom", &errs)

	in.NomLocalite = optionalString(payload, "nomLocalite", &errs)
	in.ToiletteType = optionalString(payload, "toiletteType", &errs)
	in.EtabAdresse = optionalString(payload, "etabAdresse", &errs)
	in.Description = optionalString(payload, "description", &errs)
	in.ActiviteStatut = optionalString(payload, "activiteStatut", &errs)
	in.ActiviteCategorie = optionalString(payload, "activiteCategorie", &errs)
	in.EtabCreationDate = optionalString(payload, "etabCreationDate", &errs)

	in.EtabJour = stringSliceAt(payload, "etabJour")
	in.EtabImages = stringSliceAt(payload, "etabImages")

	geom := strings.TrimSpace(stringAt(payload, "geometry"))
	switch {
	case geom == "":
		errs = append(errs, fieldErr("geometry", "geometry requise"))
	case !repository.ValidWKT(geom):
		errs = append(errs, fieldErr("geometry", "geometry doit être un POINT, POLYGON ou MULTIPOLYGON"))
	default:
		in.Geometry = geom
	}

	if b, ok := boolAt(payload, "status"); ok {
		in.Status = b
	}

	// Second pass: type-specific fields, only when the type is known.
	if repository.ValidVenueType(typ) {
		fields, _ := repository.SpecificSchemaFor(typ)
		for _, f := range fields {
			v := stringAt(payload, f.Name)
			if v == "" {
				if alias := aliasFor(f.Name); alias != "" {
					v = stringAt(payload, alias)
				}
			}
			v = strings.TrimSpace(v)
			if v == "" {
				continue // repository applies the registry default
			}
			if len([]rune(v)) > specificLimit {
				errs = append(errs, fieldErr(f.Name, "dépasse %d caractères", specificLimit))
				continue
			}
			in.Specific[f.Name] = v
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return in, nil
}

// ValidateLieuPatch validates a partial venue update. All fields are
// optional, unknown fields are dropped silently, but a patch carrying
// zero recognized fields is a validation failure. In that one case the
// empty patch is still returned, because an update that only touches
// the image list has no patch fields yet is legitimate; field-level
// errors always return a nil patch. Type-specific values are collected
// for every category; the repository keeps only those the venue's
// stored type defines.
func ValidateLieuPatch(payload map[string]any) (*model.LieuPatch, []FieldError) {
	var errs []FieldError
	p := &model.LieuPatch{Specific: map[string]string{}}

	if raw, ok := payload["type"]; ok {
		t := model.VenueType(strings.ToLower(strings.TrimSpace(fmt.Sprint(raw))))
		if t != "" {
			p.Type = &t
		}
	}

	p.RegionNom = patchString(payload, "regionNom", &errs)
	p.PrefectureNom = patchString(payload, "prefectureNom", &errs)
	p.CommuneNom = patchString(payload, "communeNom", &errs)
	p.CantonNom = patchString(payload, "cantonNom", &errs)
	p.NomLocalite = patchString(payload, "nomLocalite", &errs)
	p.EtabNom = patchString(payload, "etabNom", &errs)
	p.ToiletteType = patchString(payload, "toiletteType", &errs)
	p.EtabAdresse = patchString(payload, "etabAdresse", &errs)
	p.Description = patchString(payload, "description", &errs)
	p.ActiviteStatut = patchString(payload, "activiteStatut", &errs)
	p.ActiviteCategorie = patchString(payload, "activiteCategorie", &errs)
	p.EtabCreationDate = patchString(payload, "etabCreationDate", &errs)

	if _, ok := payload["etabJour"]; ok {
		vals := stringSliceAt(payload, "etabJour")
		p.EtabJour = &vals
	}
	if _, ok := payload["etabImages"]; ok {
		vals := stringSliceAt(payload, "etabImages")
		p.EtabImages = &vals
	}
	if b, ok := boolAt(payload, "status"); ok {
		p.Status = &b
	}
	if raw, ok := payload["geometry"]; ok {
		geom := strings.TrimSpace(fmt.Sprint(raw))
		if geom != "" {
			if !repository.ValidWKT(geom) {
				errs = append(errs, fieldErr("geometry", "geometry doit être un POINT, POLYGON ou MULTIPOLYGON"))
			} else {
				p.Geometry = &geom
			}
		}
	}

	for key := range payload {
		name := key
		if canonical, ok := specificAliases[key]; ok {
			name = canonical
		}
		if !specificFieldNames[name] {
			continue
		}
		v := strings.TrimSpace(stringAt(payload, key))
		if v == "" {
			continue
		}
		if len([]rune(v)) > specificLimit {
			errs = append(errs, fieldErr(name, "dépasse %d caractères", specificLimit))
			continue
		}
		p.Specific[name] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if p.Empty() {
		return p, []FieldError{fieldErr("body", "aucun champ à mettre à jour")}
	}
	return p, nil
}

func aliasFor(canonical string) string {
	for alias, name := range specificAliases {
		if name == canonical {
			return alias
		}
	}
	return ""
}

// --- payload coercion helpers ---

// stringAt returns the payload value as a string, or "" when absent or
// not string-shaped.
func stringAt(payload map[string]any, key string) string {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// stringSliceAt coerces a payload value into a string slice. JSON
// bodies produce []any; multipart bodies produce a single string that
// may itself be a JSON-encoded array or a comma-separated list.
func stringSliceAt(payload map[string]any, key string) []string {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return []string{}
	}
	switch t := raw.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			out = append(out, fmt.Sprint(v))
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []string{}
		}
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return arr
			}
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{}
	}
}

// boolAt coerces a payload value into a bool; the second return is
// false when the key is absent or unparseable.
func boolAt(payload map[string]any, key string) (bool, bool) {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return false, false
	}
	switch t := raw.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

func requireString(payload map[string]any, key string, errs *[]FieldError) string {
	v := strings.TrimSpace(stringAt(payload, key))
	if v == "" {
		*errs = append(*errs, fieldErr(key, "%s requis", key))
		return ""
	}
	if limit, ok := baseLimits[key]; ok && len([]rune(v)) > limit {
		*errs = append(*errs, fieldErr(key, "dépasse %d caractères", limit))
	}
	return v
}

func optionalString(payload map[string]any, key string, errs *[]FieldError) *string {
	raw, ok := payload[key]
	if !ok || raw == nil {
		return nil
	}
	v := strings.TrimSpace(fmt.Sprint(raw))
	if v == "" {
		return nil
	}
	if limit, ok := baseLimits[key]; ok && len([]rune(v)) > limit {
		*errs = append(*errs, fieldErr(key, "dépasse %d caractères", limit))
	}
	return &v
}

// patchString is optionalString for update payloads: absent keys stay
// nil so untouched columns keep their values.
func patchString(payload map[string]any, key string, errs *[]FieldError) *string {
	return optionalString(payload, key, errs)
}
