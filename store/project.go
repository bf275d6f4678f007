package store

import (
	"sort"

	"roster/models"
)

// dedupPlayers concatenates the lists and keeps the first player seen for
// each id.
func dedupPlayers(lists ...[]models.Player) []models.Player {
	seen := make(map[string]struct{})
	var merged []models.Player
	for _, list := range lists {
		for _, player := range list {
			if _, ok := seen[player.ID]; ok {
				continue
			}
			seen[player.ID] = struct{}{}
			merged = append(merged, player)
		}
	}
	return merged
}

func normalizePlayers(players []models.Player) []models.Player {
	if players == nil {
		return []models.Player{}
	}
	for i := range players {
		normalizePlayer(&players[i])
	}
	return players
}

func normalizePlayer(player *models.Player) {
	if player.Assignments == nil {
		player.Assignments = []models.PlayerAssignment{}
	}
	sort.SliceStable(player.Assignments, func(i, j int) bool {
		return player.Assignments[i].AssignedDate.Before(player.Assignments[j].AssignedDate)
	})
}

func normalizeCoaches(coaches []models.Coach) []models.Coach {
	if coaches == nil {
		return []models.Coach{}
	}
	for i := range coaches {
		normalizeCoach(&coaches[i])
	}
	return coaches
}

func normalizeCoach(coach *models.Coach) {
	if coach.Assignments == nil {
		coach.Assignments = []models.CoachAssignment{}
	}
	sort.SliceStable(coach.Assignments, func(i, j int) bool {
		return coach.Assignments[i].AssignedDate.Before(coach.Assignments[j].AssignedDate)
	})
}

func findPlayerAssignment(snapshot Snapshot, id string) *models.PlayerAssignment {
	for i := range snapshot.Players {
		for j := range snapshot.Players[i].Assignments {
			if snapshot.Players[i].Assignments[j].ID == id {
				return &snapshot.Players[i].Assignments[j]
			}
		}
	}
	return nil
}

func findCoachAssignment(snapshot Snapshot, id string) *models.CoachAssignment {
	for i := range snapshot.Coaches {
		for j := range snapshot.Coaches[i].Assignments {
			if snapshot.Coaches[i].Assignments[j].ID == id {
				return &snapshot.Coaches[i].Assignments[j]
			}
		}
	}
	return nil
}
