// package match scores free-text song references against catalog entries
// with a weighted fuzzy-similarity function.
//
// The scoring is fuzzywuzzy token-set compatible: a 0.7/0.3 blend of the
// title's token-set ratio and the best token-set ratio over the reference's
// individual artists.
package match

import (
	"regexp"
	"strings"

	fuzz "github.com/paul-mannino/go-fuzzywuzzy"

	"stationport/internal/models"
)

const (
	titleWeight  = 0.7
	artistWeight = 0.3
)

// artistDelimiters splits a multi-artist credit into individual names.
var artistDelimiters = regexp.MustCompile(`[、/，,]`)

// SplitArtists splits an artist credit on the supported delimiters into
// trimmed, lower-cased tokens. Always returns at least one token.
func SplitArtists(artist string) []string {
	parts := artistDelimiters.Split(strings.ToLower(artist), -1)
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tokens[i] = strings.TrimSpace(p)
	}
	return tokens
}

// Match scores (title, artist) against every catalog entry and returns the
// best candidate. The candidate is accepted when its combined score reaches
// threshold (inclusive); on a miss the best score seen is still reported
// for diagnostics.
//
// Entries are scanned in catalog order and only a strictly greater score
// replaces the running best, so the first entry at the maximum score wins
// ties. Pure function of its inputs.
func Match(title, artist string, catalog []models.CatalogEntry, threshold float64) models.MatchResult {
	normalizedTitle := strings.ToLower(strings.TrimSpace(title))
	artistTokens := SplitArtists(artist)

	bestID := ""
	bestScore := 0.0

	for _, entry := range catalog {
		titleScore := fuzz.TokenSetRatio(normalizedTitle, entry.Title)

		artistScore := 0
		for _, token := range artistTokens {
			if s := fuzz.TokenSetRatio(token, entry.Artist); s > artistScore {
				artistScore = s
			}
		}

		combined := float64(titleScore)*titleWeight + float64(artistScore)*artistWeight
		if combined > bestScore {
			bestScore = combined
			bestID = entry.ID
		}
	}

	if bestID != "" && bestScore >= threshold {
		return models.MatchResult{CatalogID: bestID, Score: bestScore, Matched: true}
	}

	return models.MatchResult{Score: bestScore}
}
