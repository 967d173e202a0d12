package repository

import (
	"fmt"
	"strings"
)

// geometrySRID is the spatial reference every stored geometry uses.
// Callers supply plain WKT; rows are read back as EWKT so the SRID
// travels with the text.
const geometrySRID = 4326

// GeomWriteExpr returns the SQL expression that converts a WKT text
// argument at the given placeholder position into a stored geometry,
// e.g. GeomWriteExpr(3) -> "ST_GeomFromText($3, 4326)". Encoding is
// done by PostGIS itself; the repository never parses coordinates.
func GeomWriteExpr(argPos int) string {
	return fmt.Sprintf("ST_GeomFromText($%d, %d)", argPos, geometrySRID)
}

// GeomReadExpr returns the SQL expression that renders a geometry
// column as EWKT text including the SRID tag, so the value is
// self-describing once it leaves the database.
func GeomReadExpr(column string) string {
	return fmt.Sprintf("ST_AsEWKT(%s)", column)
}

// ValidWKT reports whether the text looks like one of the accepted
// geometry kinds. This mirrors the write-path contract: only points,
// polygons and multi-polygons are stored.
func ValidWKT(wkt string) bool {
	up := strings.ToUpper(wkt)
	return strings.Contains(up, "POINT") ||
		strings.Contains(up, "POLYGON") ||
		strings.Contains(up, "MULTIPOLYGON")
}
