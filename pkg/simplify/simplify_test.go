package simplify_test

import (
	"testing"

	"github.com/joopert/translate-app/pkg/simplify"
)

func strPtr(s string) *string { return &s }

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.google.com/search?q=x", "google.com"},
		{"http://example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"example.com/path", "example.com"},
		{"sub.domain.example.com", "sub.domain.example.com"},
		{"https://example.com:8080/x", "example.com"},
		{"example.com", "example.com"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := simplify.NormalizeDomain(tc.in); got != tc.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConfigNormalize(t *testing.T) {
	fam := simplify.FamiliarityBeginner
	cfg := simplify.Config{
		Familiarity: &fam,
		Background:  strPtr(""),
		Context:     strPtr("reading the news"),
		Purpose:     strPtr(""),
	}
	cfg.Normalize()

	if cfg.Background != nil || cfg.Purpose != nil {
		t.Fatalf("empty strings should normalize to nil: %+v", cfg)
	}
	if cfg.Context == nil || *cfg.Context != "reading the news" {
		t.Fatalf("non-empty context must survive: %+v", cfg)
	}
	if cfg.Familiarity == nil || *cfg.Familiarity != simplify.FamiliarityBeginner {
		t.Fatalf("familiarity must survive: %+v", cfg)
	}
}

func TestConfigEqual(t *testing.T) {
	strict := true
	a := simplify.Config{Background: strPtr("physicist"), StrictAdherence: &strict}
	b := simplify.Config{Background: strPtr("physicist"), StrictAdherence: &strict}
	if !a.Equal(b) {
		t.Fatal("identical configs should be equal")
	}

	b.Background = strPtr("biologist")
	if a.Equal(b) {
		t.Fatal("different configs should not be equal")
	}

	// Unset and explicit "no preference" are different requests.
	noPref := simplify.LearningNoPreference
	c := simplify.Config{LearningStyle: &noPref}
	if c.Equal(simplify.Config{}) {
		t.Fatal("explicit no preference must differ from unset")
	}
}

func TestConfigScanRoundTrip(t *testing.T) {
	fam := simplify.FamiliarityAdvanced
	in := simplify.Config{Familiarity: &fam, Background: strPtr("chemist")}

	value, err := in.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var out simplify.Config
	if err := out.Scan(value); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !in.Equal(out) {
		t.Fatalf("round trip changed the config: %+v vs %+v", in, out)
	}

	var empty simplify.Config
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
}
