package model

// LieuInput is a validated, normalized venue creation payload. It is
// produced by the schema layer and consumed by the venue repository;
// raw request maps never reach the database code.
//
// Specific holds the type-specific fields keyed by their JSON field
// name. The repository resolves them to satellite columns through the
// type registry and applies the registry defaults for absent keys.
type LieuInput struct {
	EtabImages        []string
	RegionNom         string
	PrefectureNom     string
	CommuneNom        string
	CantonNom         string
	NomLocalite       *string
	EtabNom           string
	EtabJour          []string
	ToiletteType      *string
	EtabAdresse       *string
	Type              VenueType
	Description       *string
	ActiviteStatut    *string
	ActiviteCategorie *string
	EtabCreationDate  *string
	Geometry          string
	Status            bool
	Specific          map[string]string
}

// LieuPatch is a partial venue update. Every base field is optional; a
// nil pointer means "leave untouched". The repository applies only the
// fields the current type's schema recognizes and never interpolates
// caller-supplied column names.
//
// Type carries a requested type change so the repository can reject it
// explicitly — the tag is immutable after creation.
type LieuPatch struct {
	EtabImages        *[]string
	RegionNom         *string
	PrefectureNom     *string
	CommuneNom        *string
	CantonNom         *string
	NomLocalite       *string
	EtabNom           *string
	EtabJour          *[]string
	ToiletteType      *string
	EtabAdresse       *string
	Type              *VenueType
	Description       *string
	ActiviteStatut    *string
	ActiviteCategorie *string
	EtabCreationDate  *string
	Geometry          *string
	Status            *bool
	Specific          map[string]string
}

// Empty reports whether the patch carries nothing at all. A zero-field
// update is a client error, not a no-op success.
func (p *LieuPatch) Empty() bool {
	return p.EtabImages == nil && p.RegionNom == nil && p.PrefectureNom == nil &&
		p.CommuneNom == nil && p.CantonNom == nil && p.NomLocalite == nil &&
		p.EtabNom == nil && p.EtabJour == nil && p.ToiletteType == nil &&
		p.EtabAdresse == nil && p.Type == nil && p.Description == nil &&
		p.ActiviteStatut == nil && p.ActiviteCategorie == nil &&
		p.EtabCreationDate == nil && p.Geometry == nil && p.Status == nil &&
		len(p.Specific) == 0
}
