package repository

import "github.com/Kiraws/ExploreTogoBack/internal/model"

// SpecificField describes one column of a satellite table: the JSON
// field name clients use, the underlying column and the sentinel value
// written when the field is absent from the payload. The sentinels are
// part of the API contract, not incidental defaults.
type SpecificField struct {
	Name    string // JSON field name
	Column  string // satellite table column
	Default string // value stored when the payload omits the field
}

// venueTypeInfo is one row of the registry: everything dispatch sites
// need to know about a venue category. Adding a ninth category means
// adding one entry here; repository logic never switches on the tag.
type venueTypeInfo struct {
	table    string
	specific []SpecificField
	response []string
}

// venueTypes maps each of the eight type tags to its satellite table,
// its specific-field schema and its response allowlist. The allowlists
// differ on purpose: each category exposes only the base fields that
// make sense for it (protected zones have no operating days, leisure
// venues no locality name, and so on) and must be reproduced exactly.
var venueTypes = map[model.VenueType]venueTypeInfo{
	model.TypeLoisirs: {
		table: "loisirs",
		specific: []SpecificField{
			{Name: "etablissementType", Column: "etablissement_type", Default: "Non spécifié"},
		},
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "etabNom", "etabJour",
			"etabAdresse", "type", "geometry", "status", "etablissementType",
		},
	},
	model.TypeHotels: {
		table: "hotels",
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"toiletteType", "type", "geometry", "status",
		},
	},
	model.TypeParcs: {
		table: "parcs_jardins",
		specific: []SpecificField{
			{Name: "terrain", Column: "terrain", Default: "Non spécifié"},
		},
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"etabJour", "toiletteType", "etabAdresse", "type", "activiteStatut", "activiteCategorie",
			"geometry", "status", "terrain",
		},
	},
	model.TypeMarches: {
		table: "marches",
		specific: []SpecificField{
			{Name: "organisme", Column: "organisme", Default: "Non spécifié"},
		},
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"etabJour", "type", "geometry", "status", "organisme",
		},
	},
	model.TypeSites: {
		table: "sites_naturels",
		specific: []SpecificField{
			{Name: "typeSiteDeux", Column: "type_site_deux", Default: "Non spécifié"},
			{Name: "ministereTutelle", Column: "ministere_tutelle", Default: "Non spécifié"},
			{Name: "religion", Column: "religion", Default: "Néant"},
		},
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"etabJour", "etabAdresse", "type", "geometry", "status", "typeSiteDeux",
			"ministereTutelle", "religion",
		},
	},
	model.TypeZones: {
		table: "zones_protegees",
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"type", "etabCreationDate", "geometry", "status",
		},
	},
	model.TypeSupermarches: {
		table: "supermarches_etablissement",
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"etabJour", "toiletteType", "etabAdresse", "type", "activiteStatut", "activiteCategorie",
			"etabCreationDate", "geometry", "status",
		},
	},
	model.TypeTouristique: {
		table: "etablissement_touristique",
		response: []string{
			"regionNom", "prefectureNom", "communeNom", "cantonNom", "nomLocalite", "etabNom",
			"etabJour", "etabAdresse", "type", "geometry", "status",
		},
	},
}

// ValidVenueType reports whether the tag is one of the eight registered
// categories.
func ValidVenueType(t model.VenueType) bool {
	_, ok := venueTypes[t]
	return ok
}

// SatelliteTableFor returns the satellite table name for a type tag.
// The boolean is false for unknown tags.
func SatelliteTableFor(t model.VenueType) (string, bool) {
	info, ok := venueTypes[t]
	return info.table, ok
}

// SpecificSchemaFor returns the satellite field schema for a type tag.
// Categories whose satellite only marks existence return an empty slice.
func SpecificSchemaFor(t model.VenueType) ([]SpecificField, bool) {
	info, ok := venueTypes[t]
	return info.specific, ok
}

// ResponseFieldsFor returns the ordered response allowlist for a type
// tag. Callers must not mutate the returned slice.
func ResponseFieldsFor(t model.VenueType) ([]string, bool) {
	info, ok := venueTypes[t]
	return info.response, ok
}

// VenueTypeTags returns all registered tags. Used by validation error
// messages and by tests; order is unspecified.
func VenueTypeTags() []model.VenueType {
	tags := make([]model.VenueType, 0, len(venueTypes))
	for t := range venueTypes {
		tags = append(tags, t)
	}
	return tags
}
