package model

// VenueType is the discriminator stored in lieux.type. It selects which
// satellite table holds the venue's category-specific fields. The tag is
// fixed at creation time and can never change afterwards.
type VenueType string

// The eight venue categories of the directory. Values match the CHECK
// constraint on the lieux table.
const (
	TypeLoisirs      VenueType = "loisirs"
	TypeHotels       VenueType = "hotels"
	TypeParcs        VenueType = "parcs"
	TypeMarches      VenueType = "marches"
	TypeSites        VenueType = "sites"
	TypeZones        VenueType = "zones"
	TypeSupermarches VenueType = "supermarches"
	TypeTouristique  VenueType = "touristique"
)

// LieuView is a fully assembled, serialization-safe view of a venue:
// base columns merged with the satellite record, geometry as EWKT text,
// identifiers as decimal strings and timestamps as RFC3339. The map
// shape is deliberate — the response field set varies per venue type and
// is trimmed through the type's allowlist before leaving the repository.
type LieuView map[string]any
