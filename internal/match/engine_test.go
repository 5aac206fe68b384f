package match

import (
	"testing"

	"stationport/internal/models"
)

func catalogOf(entries ...models.CatalogEntry) []models.CatalogEntry {
	return entries
}

func TestSplitArtists(t *testing.T) {
	t.Run("splits on every supported delimiter", func(t *testing.T) {
		cases := map[string][]string{
			"a、b":   {"a", "b"},
			"a/b":   {"a", "b"},
			"a，b":   {"a", "b"},
			"a,b":   {"a", "b"},
			"a / b": {"a", "b"},
		}
		for input, want := range cases {
			got := SplitArtists(input)
			if len(got) != len(want) {
				t.Fatalf("%q: expected %d tokens, got %v", input, len(want), got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("%q: token %d: expected %q, got %q", input, i, want[i], got[i])
				}
			}
		}
	})

	t.Run("lower-cases and trims tokens", func(t *testing.T) {
		got := SplitArtists("The Beatles / WINGS")
		if got[0] != "the beatles" || got[1] != "wings" {
			t.Errorf("expected normalized tokens, got %v", got)
		}
	})

	t.Run("returns one token without delimiters", func(t *testing.T) {
		got := SplitArtists("Queen")
		if len(got) != 1 || got[0] != "queen" {
			t.Errorf("expected single token 'queen', got %v", got)
		}
	})
}

func TestMatch(t *testing.T) {
	catalog := catalogOf(
		models.NewCatalogEntry("1", "Yesterday", "The Beatles"),
		models.NewCatalogEntry("2", "Bohemian Rhapsody", "Queen"),
		models.NewCatalogEntry("3", "Imagine", "John Lennon"),
	)

	t.Run("exact entry scores 100", func(t *testing.T) {
		result := Match("Yesterday", "The Beatles", catalog, 70)
		if !result.Matched {
			t.Fatal("expected a match")
		}
		if result.CatalogID != "1" {
			t.Errorf("expected catalog id '1', got %q", result.CatalogID)
		}
		if result.Score != 100 {
			t.Errorf("expected score 100, got %.2f", result.Score)
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		result := Match("  YESTERDAY ", " the beatles ", catalog, 70)
		if !result.Matched || result.CatalogID != "1" {
			t.Errorf("expected match against id '1', got %+v", result)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		result := Match("Yesterday", "The Beatles", catalog, 100)
		if !result.Matched {
			t.Errorf("expected a score of exactly 100 to clear threshold 100, got %+v", result)
		}
	})

	t.Run("reports best score on a miss", func(t *testing.T) {
		result := Match("Yesterday", "The Beatles", catalog, 101)
		if result.Matched {
			t.Fatal("expected a miss above the maximum score")
		}
		if result.CatalogID != "" {
			t.Errorf("expected empty catalog id on miss, got %q", result.CatalogID)
		}
		if result.Score != 100 {
			t.Errorf("expected best score 100 reported on miss, got %.2f", result.Score)
		}
	})

	t.Run("matches any artist in a multi-artist credit", func(t *testing.T) {
		result := Match("Imagine", "Yoko Ono / John Lennon", catalog, 90)
		if !result.Matched || result.CatalogID != "3" {
			t.Errorf("expected match against id '3', got %+v", result)
		}
	})

	t.Run("empty catalog never matches", func(t *testing.T) {
		result := Match("Yesterday", "The Beatles", nil, 0)
		if result.Matched {
			t.Fatal("expected no match against empty catalog")
		}
		if result.Score != 0 {
			t.Errorf("expected score 0, got %.2f", result.Score)
		}
	})

	t.Run("all-zero scores miss even at threshold zero", func(t *testing.T) {
		disjoint := catalogOf(models.NewCatalogEntry("9", "zzz", "qqq"))
		result := Match("kkk", "vvv", disjoint, 0)
		if result.Matched {
			t.Errorf("expected miss when no entry scores above zero, got %+v", result)
		}
	})

	t.Run("first entry wins score ties", func(t *testing.T) {
		tied := catalogOf(
			models.NewCatalogEntry("a", "Yesterday", "The Beatles"),
			models.NewCatalogEntry("b", "Yesterday", "The Beatles"),
		)
		result := Match("Yesterday", "The Beatles", tied, 70)
		if result.CatalogID != "a" {
			t.Errorf("expected first tied entry 'a' to win, got %q", result.CatalogID)
		}
	})

	t.Run("deterministic across invocations", func(t *testing.T) {
		first := Match("Bohemian Rhapsody", "Queen", catalog, 50)
		for i := 0; i < 5; i++ {
			again := Match("Bohemian Rhapsody", "Queen", catalog, 50)
			if again != first {
				t.Fatalf("expected identical results, got %+v then %+v", first, again)
			}
		}
	})

	t.Run("title dominates the blend", func(t *testing.T) {
		// Title match alone contributes 70 of the combined score.
		only := catalogOf(models.NewCatalogEntry("t", "Yesterday", "qqq"))
		result := Match("Yesterday", "vvv", only, 0)
		if !result.Matched {
			t.Fatalf("expected title-only candidate to match at threshold 0, got %+v", result)
		}
		if result.Score != 70 {
			t.Errorf("expected title-only score 70, got %.2f", result.Score)
		}
	})
}
