package store

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"roster/models"
)

// SearchPlayers returns the loaded players whose full name fuzzily matches
// query, closest match first. An empty query returns every player.
func (s *Store) SearchPlayers(query string) []models.Player {
	players := s.Snapshot().Players
	query = strings.TrimSpace(query)
	if query == "" {
		return players
	}

	names := make([]string, len(players))
	for i, player := range players {
		names[i] = player.FullName
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	matches := make([]models.Player, 0, len(ranks))
	for _, rank := range ranks {
		matches = append(matches, players[rank.OriginalIndex])
	}
	return matches
}
