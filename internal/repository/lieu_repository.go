package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Kiraws/ExploreTogoBack/internal/model"
	"github.com/Kiraws/ExploreTogoBack/internal/serialize"
)

// LieuRepo owns venue persistence: the lieux base table plus the eight
// satellite tables selected through the type registry. Every write that
// touches base and satellite together runs inside a transaction — the
// two rows share a primary key and must be all-or-nothing.
//
// The repo knows nothing about uploaded files. When a create fails
// after images were stored, the handler is responsible for deleting the
// orphaned objects.
type LieuRepo struct {
	DB *sql.DB
}

// NewLieuRepo returns a LieuRepo bound to the given database.
func NewLieuRepo(db *sql.DB) *LieuRepo { return &LieuRepo{DB: db} }

// querier abstracts *sql.DB and *sql.Tx so view assembly can run both
// standalone and inside an update transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// baseColumns are the scannable columns of the lieux table, geometry
// excluded — geometry is always read through ST_AsEWKT separately.
const baseColumns = `id, etab_images, region_nom, prefecture_nom, commune_nom, canton_nom,
	nom_localite, etab_nom, etab_jour, toilette_type, etab_adresse, type, description,
	activite_statut, activite_categorie, etab_creation_date, status, created_at, updated_at`

// Create inserts the base row and exactly one satellite row for the
// validated input, inside one transaction, and returns the generated
// identifier. Satellite fields absent from the payload get the registry
// defaults. Not idempotent: identical payloads create distinct venues.
func (r *LieuRepo) Create(ctx context.Context, in *model.LieuInput) (int64, error) {
	table, ok := SatelliteTableFor(in.Type)
	if !ok {
		return 0, ErrUnknownType
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Image paths are normalized once here, at the write boundary, so
	// no decomposed legacy form can ever enter the column.
	images := serialize.NormalizeImageList(in.EtabImages)

	insertLieu := `INSERT INTO lieux (
		etab_images, region_nom, prefecture_nom, commune_nom, canton_nom,
		nom_localite, etab_nom, etab_jour, toilette_type, etab_adresse,
		type, description, activite_statut, activite_categorie,
		etab_creation_date, geometry, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, ` +
		GeomWriteExpr(16) + `, $17)
	RETURNING id`

	var id int64
	err = tx.QueryRowContext(ctx, insertLieu,
		pq.Array(images), in.RegionNom, in.PrefectureNom, in.CommuneNom, in.CantonNom,
		in.NomLocalite, in.EtabNom, pq.Array(in.EtabJour), in.ToiletteType, in.EtabAdresse,
		string(in.Type), in.Description, in.ActiviteStatut, in.ActiviteCategorie,
		in.EtabCreationDate, in.Geometry, in.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert lieu: %w", err)
	}

	fields, _ := SpecificSchemaFor(in.Type)
	cols := []string{"id"}
	args := []any{id}
	for _, f := range fields {
		v := in.Specific[f.Name]
		if v == "" {
			v = f.Default
		}
		cols = append(cols, f.Column)
		args = append(args, v)
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insertSat := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, insertSat, args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// GetByID returns the fully assembled, allowlist-filtered view of a
// venue, or ErrLieuNotFound. The satellite is selected by the stored
// type — never by anything the caller supplies.
func (r *LieuRepo) GetByID(ctx context.Context, id int64) (model.LieuView, error) {
	return r.getView(ctx, r.DB, id, true)
}

// GetTypeByID returns the stored type of a venue. Used as a cheap
// existence check before update transactions open.
func (r *LieuRepo) GetTypeByID(ctx context.Context, id int64) (model.VenueType, error) {
	var t string
	err := r.DB.QueryRowContext(ctx, `SELECT type FROM lieux WHERE id = $1`, id).Scan(&t)
	if err == sql.ErrNoRows {
		return "", ErrLieuNotFound
	}
	if err != nil {
		return "", err
	}
	return model.VenueType(t), nil
}

// EtabNom returns the display name of a venue.
func (r *LieuRepo) EtabNom(ctx context.Context, id int64) (string, error) {
	var nom string
	err := r.DB.QueryRowContext(ctx, `SELECT etab_nom FROM lieux WHERE id = $1`, id).Scan(&nom)
	if err == sql.ErrNoRows {
		return "", ErrLieuNotFound
	}
	return nom, err
}

// GetImages returns the stored, normalized image URL list of a venue.
func (r *LieuRepo) GetImages(ctx context.Context, id int64) ([]string, error) {
	var raw []string
	err := r.DB.QueryRowContext(ctx, `SELECT etab_images FROM lieux WHERE id = $1`, id).
		Scan(pq.Array(&raw))
	if err == sql.ErrNoRows {
		return nil, ErrLieuNotFound
	}
	if err != nil {
		return nil, err
	}
	return serialize.NormalizeImageList(raw), nil
}

// SetImages replaces the stored image list. Single-statement write used
// by the image sub-resource endpoints; paths are normalized first.
func (r *LieuRepo) SetImages(ctx context.Context, id int64, urls []string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE lieux SET etab_images = $1, updated_at = NOW() WHERE id = $2`,
		pq.Array(serialize.NormalizeImageList(urls)), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLieuNotFound
	}
	return nil
}

// ExistsActive reports whether a venue exists with status=true.
// Reservations may only target active venues.
func (r *LieuRepo) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM lieux WHERE id = $1 AND status = TRUE`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsLoisirs reports whether a venue exists and carries the leisure
// type. The menu hierarchy is scoped to leisure venues only.
func (r *LieuRepo) IsLoisirs(ctx context.Context, id int64) (bool, error) {
	t, err := r.GetTypeByID(ctx, id)
	if err == ErrLieuNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t == model.TypeLoisirs, nil
}

// Update applies a partial patch to the base row and, for fields the
// stored type's satellite schema defines, to the satellite row — in one
// transaction — then re-reads and returns the refreshed view.
//
// The stored type is authoritative: a patch requesting a different type
// is rejected with ErrTypeImmutable before the transaction opens, and
// satellite fields that do not belong to the stored type are dropped
// silently (deliberate narrowing, not an error).
func (r *LieuRepo) Update(ctx context.Context, id int64, patch *model.LieuPatch) (model.LieuView, error) {
	current, err := r.GetTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil && *patch.Type != current {
		return nil, ErrTypeImmutable
	}

	fields, _ := SpecificSchemaFor(current)
	specific := make(map[string]string)
	for _, f := range fields {
		if v, ok := patch.Specific[f.Name]; ok {
			specific[f.Column] = v
		}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sets := make([]string, 0, 18)
	args := make([]any, 0, 18)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.EtabImages != nil {
		set("etab_images", pq.Array(serialize.NormalizeImageList(*patch.EtabImages)))
	}
	if patch.RegionNom != nil {
		set("region_nom", *patch.RegionNom)
	}
	if patch.PrefectureNom != nil {
		set("prefecture_nom", *patch.PrefectureNom)
	}
	if patch.CommuneNom != nil {
		set("commune_nom", *patch.CommuneNom)
	}
	if patch.CantonNom != nil {
		set("canton_nom", *patch.CantonNom)
	}
	if patch.NomLocalite != nil {
		set("nom_localite", *patch.NomLocalite)
	}
	if patch.EtabNom != nil {
		set("etab_nom", *patch.EtabNom)
	}
	if patch.EtabJour != nil {
		set("etab_jour", pq.Array(*patch.EtabJour))
	}
	if patch.ToiletteType != nil {
		set("toilette_type", *patch.ToiletteType)
	}
	if patch.EtabAdresse != nil {
		set("etab_adresse", *patch.EtabAdresse)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.ActiviteStatut != nil {
		set("activite_statut", *patch.ActiviteStatut)
	}
	if patch.ActiviteCategorie != nil {
		set("activite_categorie", *patch.ActiviteCategorie)
	}
	if patch.EtabCreationDate != nil {
		set("etab_creation_date", *patch.EtabCreationDate)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Geometry != nil {
		args = append(args, *patch.Geometry)
		sets = append(sets, fmt.Sprintf("geometry = %s", GeomWriteExpr(len(args))))
	}
	sets = append(sets, "updated_at = NOW()")

	if len(sets) > 1 || len(specific) > 0 {
		args = append(args, id)
		updateBase := fmt.Sprintf("UPDATE lieux SET %s WHERE id = $%d",
			strings.Join(sets, ", "), len(args))
		if _, err := tx.ExecContext(ctx, updateBase, args...); err != nil {
			return nil, fmt.Errorf("update lieu: %w", err)
		}
	}

	if len(specific) > 0 {
		table, _ := SatelliteTableFor(current)
		satSets := make([]string, 0, len(specific))
		satArgs := make([]any, 0, len(specific)+1)
		// Iterate the registry order so the statement is deterministic.
		for _, f := range fields {
			if v, ok := specific[f.Column]; ok {
				satArgs = append(satArgs, v)
				satSets = append(satSets, fmt.Sprintf("%s = $%d", f.Column, len(satArgs)))
			}
		}
		satArgs = append(satArgs, id)
		updateSat := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
			table, strings.Join(satSets, ", "), len(satArgs))
		if _, err := tx.ExecContext(ctx, updateSat, satArgs...); err != nil {
			return nil, fmt.Errorf("update %s: %w", table, err)
		}
	}

	view, err := r.getView(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return view, nil
}

// Desactivate flips status to false. Single statement; the satellite
// row and images are untouched and the venue stays readable by id.
func (r *LieuRepo) Desactivate(ctx context.Context, id int64) (model.LieuView, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE lieux SET status = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrLieuNotFound
	}
	return r.getView(ctx, r.DB, id, true)
}

// Delete removes the base row. The satellite row, likes, favorites,
// reservations and the menu hierarchy disappear through ON DELETE
// CASCADE. Physical image files are the caller's problem — they must be
// fetched before the delete and removed afterwards.
func (r *LieuRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lieux WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLieuNotFound
	}
	return nil
}

// List returns every active venue, each filtered through its own type
// allowlist, excluding venues whose display name is in the denylist of
// placeholder names. Geometry comes back in the same query; satellite
// fields are batch-loaded per type afterwards instead of row by row.
func (r *LieuRepo) List(ctx context.Context, excludedNames []string) ([]model.LieuView, error) {
	if excludedNames == nil {
		excludedNames = []string{}
	}
	q := `SELECT ` + baseColumns + `, ` + GeomReadExpr("geometry") + `
	      FROM lieux
	      WHERE status = TRUE AND NOT (etab_nom = ANY($1))
	      ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, pq.Array(excludedNames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type entry struct {
		row  lieuRow
		ewkt sql.NullString
	}
	entries := make([]entry, 0)
	byType := make(map[model.VenueType][]int64)
	for rows.Next() {
		var e entry
		if err := scanLieu(rows, &e.row, &e.ewkt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
		t := model.VenueType(e.row.typ)
		byType[t] = append(byType[t], e.row.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One satellite query per type present in the result set.
	specificByID := make(map[int64]map[string]string)
	for t, ids := range byType {
		fields, ok := SpecificSchemaFor(t)
		if !ok || len(fields) == 0 {
			continue
		}
		table, _ := SatelliteTableFor(t)
		cols := make([]string, 0, len(fields))
		for _, f := range fields {
			cols = append(cols, f.Column)
		}
		satQ := fmt.Sprintf("SELECT id, %s FROM %s WHERE id = ANY($1)",
			strings.Join(cols, ", "), table)
		satRows, err := r.DB.QueryContext(ctx, satQ, pq.Array(ids))
		if err != nil {
			return nil, err
		}
		for satRows.Next() {
			var sid int64
			vals := make([]sql.NullString, len(fields))
			dest := make([]any, 0, len(fields)+1)
			dest = append(dest, &sid)
			for i := range vals {
				dest = append(dest, &vals[i])
			}
			if err := satRows.Scan(dest...); err != nil {
				satRows.Close()
				return nil, err
			}
			m := make(map[string]string, len(fields))
			for i, f := range fields {
				if vals[i].Valid {
					m[f.Name] = vals[i].String
				}
			}
			specificByID[sid] = m
		}
		if err := satRows.Err(); err != nil {
			satRows.Close()
			return nil, err
		}
		satRows.Close()
	}

	views := make([]model.LieuView, 0, len(entries))
	for _, e := range entries {
		var geom *string
		if e.ewkt.Valid {
			geom = &e.ewkt.String
		}
		views = append(views, assembleView(&e.row, geom, specificByID[e.row.id], nil, nil))
	}
	return views, nil
}

// lieuRow mirrors the scannable columns of the lieux table.
type lieuRow struct {
	id                int64
	etabImages        []string
	regionNom         string
	prefectureNom     string
	communeNom        string
	cantonNom         string
	nomLocalite       sql.NullString
	etabNom           string
	etabJour          []string
	toiletteType      sql.NullString
	etabAdresse       sql.NullString
	typ               string
	description       sql.NullString
	activiteStatut    sql.NullString
	activiteCategorie sql.NullString
	etabCreationDate  sql.NullString
	status            bool
	createdAt         sql.NullTime
	updatedAt         sql.NullTime
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLieu(s rowScanner, l *lieuRow, extra ...any) error {
	dest := []any{
		&l.id, pq.Array(&l.etabImages), &l.regionNom, &l.prefectureNom, &l.communeNom,
		&l.cantonNom, &l.nomLocalite, &l.etabNom, pq.Array(&l.etabJour), &l.toiletteType,
		&l.etabAdresse, &l.typ, &l.description, &l.activiteStatut, &l.activiteCategorie,
		&l.etabCreationDate, &l.status, &l.createdAt, &l.updatedAt,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}

// getView assembles the full venue view: base row, geometry as EWKT,
// satellite fields for the stored type, and (when withSocial is set)
// the venue's likes and favorites. The result is allowlist-filtered and
// serialization-safe.
func (r *LieuRepo) getView(ctx context.Context, q querier, id int64, withSocial bool) (model.LieuView, error) {
	var row lieuRow
	var ewkt sql.NullString
	sel := `SELECT ` + baseColumns + `, ` + GeomReadExpr("geometry") + ` FROM lieux WHERE id = $1`
	err := scanLieu(q.QueryRowContext(ctx, sel, id), &row, &ewkt)
	if err == sql.ErrNoRows {
		return nil, ErrLieuNotFound
	}
	if err != nil {
		return nil, err
	}

	typ := model.VenueType(row.typ)
	var specific map[string]string
	if fields, ok := SpecificSchemaFor(typ); ok && len(fields) > 0 {
		table, _ := SatelliteTableFor(typ)
		cols := make([]string, 0, len(fields))
		for _, f := range fields {
			cols = append(cols, f.Column)
		}
		satQ := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", strings.Join(cols, ", "), table)
		vals := make([]sql.NullString, len(fields))
		dest := make([]any, len(fields))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := q.QueryRowContext(ctx, satQ, id).Scan(dest...); err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		specific = make(map[string]string, len(fields))
		for i, f := range fields {
			if vals[i].Valid {
				specific[f.Name] = vals[i].String
			}
		}
	}

	var likes, favorites []map[string]any
	if withSocial {
		if likes, err = socialRows(ctx, q, "likes", id); err != nil {
			return nil, err
		}
		if favorites, err = socialRows(ctx, q, "favorites", id); err != nil {
			return nil, err
		}
	}

	var geom *string
	if ewkt.Valid {
		geom = &ewkt.String
	}
	return assembleView(&row, geom, specific, likes, favorites), nil
}

// socialRows loads like or favorite rows for a venue. The table name is
// one of two fixed literals, never caller input.
func socialRows(ctx context.Context, q querier, table string, lieuID int64) ([]map[string]any, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf("SELECT id, user_id, lieu_id, created_at FROM %s WHERE lieu_id = $1 ORDER BY id", table),
		lieuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]map[string]any, 0)
	for rows.Next() {
		var id, userID, lid int64
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &userID, &lid, &createdAt); err != nil {
			return nil, err
		}
		entry := map[string]any{"id": id, "userId": userID, "lieuId": lid}
		if createdAt.Valid {
			entry["createdAt"] = createdAt.Time
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// assembleView flattens base + satellite into one tree, trims it with
// the type's response allowlist and runs the serializer. Identifier,
// timestamps, geometry, images and the social relations ride along
// regardless of the allowlist — they are common to every type.
func assembleView(row *lieuRow, geometry *string, specific map[string]string, likes, favorites []map[string]any) model.LieuView {
	full := map[string]any{
		"regionNom":     row.regionNom,
		"prefectureNom": row.prefectureNom,
		"communeNom":    row.communeNom,
		"cantonNom":     row.cantonNom,
		"etabNom":       row.etabNom,
		"etabJour":      row.etabJour,
		"type":          row.typ,
		"status":        row.status,
	}
	putNull := func(key string, v sql.NullString) {
		if v.Valid {
			full[key] = v.String
		} else {
			full[key] = nil
		}
	}
	putNull("nomLocalite", row.nomLocalite)
	putNull("toiletteType", row.toiletteType)
	putNull("etabAdresse", row.etabAdresse)
	putNull("description", row.description)
	putNull("activiteStatut", row.activiteStatut)
	putNull("activiteCategorie", row.activiteCategorie)
	putNull("etabCreationDate", row.etabCreationDate)
	for name, v := range specific {
		full[name] = v
	}
	if geometry != nil {
		full["geometry"] = *geometry
	} else {
		full["geometry"] = nil
	}

	allowed, _ := ResponseFieldsFor(model.VenueType(row.typ))
	view := make(map[string]any, len(allowed)+7)
	for _, f := range allowed {
		if v, ok := full[f]; ok {
			view[f] = v
		}
	}
	view["id"] = row.id
	view["etabImages"] = serialize.NormalizeImageList(row.etabImages)
	if row.createdAt.Valid {
		view["createdAt"] = row.createdAt.Time
	}
	if row.updatedAt.Valid {
		view["updatedAt"] = row.updatedAt.Time
	}
	if likes != nil {
		view["likes"] = likes
	}
	if favorites != nil {
		view["favorites"] = favorites
	}

	cleaned, _ := serialize.Clean(view).(map[string]any)
	return model.LieuView(cleaned)
}
