package fixture

import (
	"testing"
	"time"
)

var kickoff = time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC)

func TestCanonicalKey_Precedence(t *testing.T) {
	full := Fixture{
		League:    "premier-league",
		HomeTeam:  "ARS",
		AwayTeam:  "CHE",
		KickoffAt: kickoff,
		Slug:      "arsenal-chelsea",
		RefID:     471045,
	}

	if got := full.CanonicalKey(); got != "471045" {
		t.Fatalf("CanonicalKey = %q, ref id must win", got)
	}

	noRef := full
	noRef.RefID = 0
	want := "premier-league_2025-06-06t20:00:00z_ars_x_che"
	if got := noRef.CanonicalKey(); got != want {
		t.Fatalf("CanonicalKey = %q, want composite %q", got, want)
	}

	slugOnly := Fixture{Slug: " Arsenal-Chelsea "}
	if got := slugOnly.CanonicalKey(); got != "arsenal-chelsea" {
		t.Fatalf("CanonicalKey = %q, want lowered slug", got)
	}

	if got := (Fixture{}).CanonicalKey(); got != "" {
		t.Fatalf("CanonicalKey on empty fixture = %q, want empty", got)
	}
}

func TestCompositeKey_RequiresEveryPart(t *testing.T) {
	base := Fixture{League: "premier-league", HomeTeam: "ARS", AwayTeam: "CHE", KickoffAt: kickoff}

	if got := base.CompositeKey(); got == "" {
		t.Fatal("CompositeKey empty for a complete fixture")
	}

	cases := []Fixture{
		{HomeTeam: "ARS", AwayTeam: "CHE", KickoffAt: kickoff},
		{League: "premier-league", AwayTeam: "CHE", KickoffAt: kickoff},
		{League: "premier-league", HomeTeam: "ARS", KickoffAt: kickoff},
		{League: "premier-league", HomeTeam: "ARS", AwayTeam: "CHE"},
	}
	for i, f := range cases {
		if got := f.CompositeKey(); got != "" {
			t.Fatalf("case %d: CompositeKey = %q, want empty", i, got)
		}
	}
}

func TestCompositeKey_NormalizesToUTC(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	f := Fixture{
		League:    "Premier-League",
		HomeTeam:  "ARS",
		AwayTeam:  "CHE",
		KickoffAt: time.Date(2025, 6, 6, 22, 0, 0, 0, paris),
	}

	want := "premier-league_2025-06-06t20:00:00z_ars_x_che"
	if got := f.CompositeKey(); got != want {
		t.Fatalf("CompositeKey = %q, want %q", got, want)
	}
}

func TestAliases(t *testing.T) {
	f := Fixture{
		League:    "premier-league",
		HomeTeam:  "ARS",
		AwayTeam:  "CHE",
		KickoffAt: kickoff,
		Slug:      "Arsenal-Chelsea",
		RefID:     471045,
	}

	aliases := f.Aliases()
	if len(aliases) != 3 {
		t.Fatalf("aliases = %v, want 3 entries", aliases)
	}
	if aliases[0] != "471045" {
		t.Fatalf("aliases[0] = %q, want ref id", aliases[0])
	}
	if aliases[1] != f.CompositeKey() {
		t.Fatalf("aliases[1] = %q, want composite key", aliases[1])
	}
	if aliases[2] != "arsenal-chelsea" {
		t.Fatalf("aliases[2] = %q, want lowered slug", aliases[2])
	}

	if got := (Fixture{}).Aliases(); len(got) != 0 {
		t.Fatalf("aliases on empty fixture = %v, want none", got)
	}
}
