package profile

import "testing"

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }
func sp(s string) *string   { return &s }

func TestCoarseLocation(t *testing.T) {
	cases := []struct{ in, want string }{
		{"San Jose, CA", "San Jose"},
		{"  Boulder , CO", "Boulder"},
		{"Berlin", "Berlin"},
		{"Portland, OR, USA", "Portland"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CoarseLocation(tc.in); got != tc.want {
			t.Errorf("CoarseLocation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolvedWkg(t *testing.T) {
	// Explicit field wins over the derived ratio.
	p := &Profile{FTPWkg: fp(3.2), FTPWatts: ip(280), WeightKg: fp(70)}
	if wkg, ok := p.ResolvedWkg(); !ok || wkg != 3.2 {
		t.Fatalf("explicit ftp_wkg must win, got %.2f (ok=%v)", wkg, ok)
	}

	// Derived from watts and weight.
	p = &Profile{FTPWatts: ip(280), WeightKg: fp(70)}
	if wkg, ok := p.ResolvedWkg(); !ok || wkg != 4.0 {
		t.Fatalf("expected derived 4.0, got %.2f (ok=%v)", wkg, ok)
	}

	// Zero values count as absent.
	p = &Profile{FTPWkg: fp(0), FTPWatts: ip(280), WeightKg: fp(0)}
	if _, ok := p.ResolvedWkg(); ok {
		t.Fatal("zero weight must not divide, wkg should be absent")
	}

	if _, ok := (&Profile{}).ResolvedWkg(); ok {
		t.Fatal("empty profile has no wkg")
	}
}

func TestTolerancePct(t *testing.T) {
	p := &Profile{FTPTolerancePct: ip(15)}
	if got := p.TolerancePct(20); got != 15 {
		t.Fatalf("rider override must win, got %g", got)
	}
	p = &Profile{}
	if got := p.TolerancePct(20); got != 20 {
		t.Fatalf("expected the fallback 20, got %g", got)
	}
	p = &Profile{FTPTolerancePct: ip(0)}
	if got := p.TolerancePct(20); got != 20 {
		t.Fatalf("zero counts as unset, got %g", got)
	}
}

func TestDisplayName(t *testing.T) {
	p := &Profile{FirstName: sp("Jo"), LastName: sp("Rider")}
	if got := p.DisplayName(); got != "Jo Rider" {
		t.Fatalf("got %q", got)
	}
	p = &Profile{FirstName: sp("Jo")}
	if got := p.DisplayName(); got != "Jo" {
		t.Fatalf("got %q", got)
	}
	if got := (&Profile{}).DisplayName(); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestClassifyTier(t *testing.T) {
	cases := []struct {
		name   string
		speed  *float64
		wkg    float64
		hasWkg bool
		want   Tier
	}{
		{"strong wkg promotes", fp(14), 3.6, true, TierA},
		{"wkg threshold inclusive", nil, 3.5, true, TierA},
		{"fast rider", fp(18), 0, false, TierA},
		{"mid pace", fp(15), 0, false, TierB},
		{"slow pace", fp(14.9), 0, false, TierC},
		{"weak wkg falls to speed", fp(16), 2.5, true, TierB},
		{"nothing known", nil, 0, false, TierC},
	}
	for _, tc := range cases {
		if got := ClassifyTier(tc.speed, tc.wkg, tc.hasWkg); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
