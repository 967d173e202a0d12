package repository

import "testing"

func TestGeomExprs(t *testing.T) {
	if got := GeomWriteExpr(3); got != "ST_GeomFromText($3, 4326)" {
		t.Errorf("GeomWriteExpr(3) = %q", got)
	}
	if got := GeomReadExpr("geometry"); got != "ST_AsEWKT(geometry)" {
		t.Errorf("GeomReadExpr = %q", got)
	}
}

func TestValidWKT(t *testing.T) {
	cases := []struct {
		wkt  string
		want bool
	}{
		{"POINT(1.2283 6.1319)", true},
		{"point(1.2283 6.1319)", true},
		{"POLYGON((0 0, 1 0, 1 1, 0 0))", true},
		{"MULTIPOLYGON(((0 0, 1 0, 1 1, 0 0)))", true},
		{"LINESTRING(0 0, 1 1)", false},
		{"", false},
		{"not a geometry", false},
	}
	for _, tc := range cases {
		if got := ValidWKT(tc.wkt); got != tc.want {
			t.Errorf("ValidWKT(%q) = %v, want %v", tc.wkt, got, tc.want)
		}
	}
}
