package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"roster/models"
)

// requireFreshLoad fails when the store's roster differs from a fresh load
// of the same data.
func requireFreshLoad(t *testing.T, data *fakeData, s *Store, identity Identity, after string) {
	t.Helper()
	fresh := newTestStore(data)
	fresh.Reload(context.Background(), identity)
	if got, want := snapshotJSON(t, s.Snapshot()), snapshotJSON(t, fresh.Snapshot()); got != want {
		t.Fatalf("after %s roster diverged from server state\n got: %s\nwant: %s", after, got, want)
	}
}

func findCoachIn(t *testing.T, snapshot Snapshot, id string) models.Coach {
	t.Helper()
	for _, c := range snapshot.Coaches {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("coach %s not in snapshot", id)
	return models.Coach{}
}

func TestCommands_EachMatchesFreshLoad(t *testing.T) {
	data := seededData()
	s := newTestStore(data)
	ctx := context.Background()
	s.Reload(ctx, userA)

	playerEmail, coachEmail := "jane@example.com", "pat@example.com"
	var (
		player           *models.Player
		coach            *models.Coach
		team             *models.Team
		season           *models.Season
		playerAssignment string
		coachAssignment  string
	)

	steps := []struct {
		name string
		run  func() error
	}{
		{"add player", func() (err error) {
			player, err = s.AddPlayer(ctx, userA, models.Player{FullName: "Jane Doe", Email: &playerEmail})
			return err
		}},
		{"add coach", func() (err error) {
			coach, err = s.AddCoach(ctx, userA, models.Coach{FullName: "Pat Coach", Email: &coachEmail})
			return err
		}},
		{"add team", func() (err error) {
			team, err = s.AddTeam(ctx, userA, models.Team{Name: "Team B"})
			return err
		}},
		{"add season", func() (err error) {
			season, err = s.AddSeason(ctx, userA, models.Season{Name: "2025"})
			return err
		}},
		{"add team assignment", func() error {
			if err := s.AddTeamAssignment(ctx, userA, player.ID, models.PlayerAssignment{TeamID: "team-a", SeasonID: "season-2024", JerseyNumber: intValue(9)}); err != nil {
				return err
			}
			playerAssignment = findPlayer(t, s.Snapshot(), player.ID).Assignments[0].ID
			return nil
		}},
		{"update team assignment", func() error {
			return s.UpdateTeamAssignment(ctx, userA, playerAssignment, models.PlayerAssignmentPatch{TeamID: &team.ID, JerseyNumber: intValue(11)})
		}},
		{"add coach assignment", func() error {
			if err := s.AddCoachAssignment(ctx, userA, coach.ID, models.CoachAssignment{TeamID: "team-a", SeasonID: "season-2024"}); err != nil {
				return err
			}
			coachAssignment = findCoachIn(t, s.Snapshot(), coach.ID).Assignments[0].ID
			return nil
		}},
		{"update coach assignment", func() error {
			return s.UpdateCoachAssignment(ctx, userA, coachAssignment, models.CoachAssignmentPatch{SeasonID: &season.ID})
		}},
		{"update coach", func() error {
			name := "Pat Q. Coach"
			return s.UpdateCoach(ctx, userA, coach.ID, models.CoachPatch{FullName: &name})
		}},
		{"update season", func() error {
			name := "2025 Spring"
			return s.UpdateSeason(ctx, userA, season.ID, models.SeasonPatch{Name: &name})
		}},
		{"invite coach", func() error {
			_, err := s.InviteCoach(ctx, userA, coach.ID, 24*time.Hour)
			return err
		}},
		{"delete coach assignment", func() error {
			return s.DeleteCoachAssignment(ctx, userA, coachAssignment)
		}},
		{"delete team assignment", func() error {
			return s.DeleteTeamAssignment(ctx, userA, playerAssignment)
		}},
		{"delete coach", func() error {
			return s.DeleteCoach(ctx, userA, coach.ID)
		}},
		{"delete player", func() error {
			return s.DeletePlayer(ctx, userA, player.ID)
		}},
		{"delete team", func() error {
			return s.DeleteTeam(ctx, userA, team.ID)
		}},
		{"delete season", func() error {
			return s.DeleteSeason(ctx, userA, season.ID)
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		requireFreshLoad(t, data, s, userA, step.name)
	}

	snapshot := s.Snapshot()
	if len(snapshot.Players) != 0 || len(snapshot.Coaches) != 0 || len(snapshot.Teams) != 1 || len(snapshot.Seasons) != 1 {
		t.Fatalf("expected only the seeded team and season left: %+v", snapshot)
	}
}

func TestCommands_UpdatedValuesReachSnapshot(t *testing.T) {
	data := seededData()
	data.seedTeam("team-b", "Team B", userA.ID)
	s := newTestStore(data)
	ctx := context.Background()

	email := "pat@example.com"
	coach, err := s.AddCoach(ctx, userA, models.Coach{FullName: "Pat Coach", Email: &email})
	if err != nil {
		t.Fatalf("add coach: %v", err)
	}
	if err := s.AddCoachAssignment(ctx, userA, coach.ID, models.CoachAssignment{TeamID: "team-a", SeasonID: "season-2024"}); err != nil {
		t.Fatalf("assign coach: %v", err)
	}
	assignmentID := findCoachIn(t, s.Snapshot(), coach.ID).Assignments[0].ID

	teamB := "team-b"
	if err := s.UpdateCoachAssignment(ctx, userA, assignmentID, models.CoachAssignmentPatch{TeamID: &teamB}); err != nil {
		t.Fatalf("move coach: %v", err)
	}
	if _, err := s.InviteCoach(ctx, userA, coach.ID, time.Hour); err != nil {
		t.Fatalf("invite coach: %v", err)
	}

	got := findCoachIn(t, s.Snapshot(), coach.ID)
	if len(got.Assignments) != 1 || got.Assignments[0].TeamName() != "Team B" {
		t.Fatalf("assignments: %+v", got.Assignments)
	}
	if !got.InviteSent || got.InviteDate == nil {
		t.Fatalf("expected invite flags on coach: %+v", got)
	}
}

func TestCommands_OtherOwnersRecordsNotFound(t *testing.T) {
	data := seededData()
	coachEmail := "theirs@example.com"
	data.seedPlayer(models.Player{ID: "p-b", FullName: "Their Player", OwnerID: userB.ID})
	data.seedCoach(models.Coach{ID: "c-b", FullName: "Their Coach", Email: &coachEmail, OwnerID: userB.ID})
	data.seedTeam("team-b", "Team B", userB.ID)
	data.seedSeason("season-b", "Their Season", userB.ID)
	s := newTestStore(data)
	ctx := context.Background()
	s.Reload(ctx, userA)

	name := "Taken"
	tests := []struct {
		name string
		run  func() error
	}{
		{"update coach", func() error { return s.UpdateCoach(ctx, userA, "c-b", models.CoachPatch{FullName: &name}) }},
		{"delete coach", func() error { return s.DeleteCoach(ctx, userA, "c-b") }},
		{"delete player", func() error { return s.DeletePlayer(ctx, userA, "p-b") }},
		{"update season", func() error { return s.UpdateSeason(ctx, userA, "season-b", models.SeasonPatch{Name: &name}) }},
		{"delete season", func() error { return s.DeleteSeason(ctx, userA, "season-b") }},
		{"update team", func() error { return s.UpdateTeam(ctx, userA, "team-b", models.TeamPatch{Name: &name}) }},
		{"delete team", func() error { return s.DeleteTeam(ctx, userA, "team-b") }},
		{"invite coach", func() error {
			_, err := s.InviteCoach(ctx, userA, "c-b", time.Hour)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}

	if _, ok := data.coaches["c-b"]; !ok {
		t.Fatalf("coach of another owner was deleted")
	}
	if _, ok := data.players["p-b"]; !ok {
		t.Fatalf("player of another owner was deleted")
	}
	if data.seasons["season-b"].Name != "Their Season" || data.teams["team-b"].Name != "Team B" {
		t.Fatalf("records of another owner were modified")
	}
}

func TestUpdateSeason_SingleDateCheckedAgainstStored(t *testing.T) {
	data := seededData()
	s := newTestStore(data)
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	season, err := s.AddSeason(ctx, userA, models.Season{Name: "Spring", StartDate: &start})
	if err != nil {
		t.Fatalf("add season: %v", err)
	}

	early := start.AddDate(0, 0, -1)
	if err := s.UpdateSeason(ctx, userA, season.ID, models.SeasonPatch{EndDate: &early}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("end before stored start: %v", err)
	}
	if data.seasons[season.ID].EndDate != nil {
		t.Fatalf("end date was written")
	}

	late := start.AddDate(0, 1, 0)
	if err := s.UpdateSeason(ctx, userA, season.ID, models.SeasonPatch{EndDate: &late}); err != nil {
		t.Fatalf("end after stored start: %v", err)
	}
	afterEnd := late.AddDate(0, 0, 1)
	if err := s.UpdateSeason(ctx, userA, season.ID, models.SeasonPatch{StartDate: &afterEnd}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("start after stored end: %v", err)
	}
}

func TestUpdateTeamAssignment_OntoHeldSlotRejected(t *testing.T) {
	data := seededData()
	data.seedTeam("team-b", "Team B", userA.ID)
	s := newTestStore(data)
	ctx := context.Background()

	player, err := s.AddPlayer(ctx, userA, models.Player{FullName: "Jane Doe"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	for _, teamID := range []string{"team-a", "team-b"} {
		if err := s.AddTeamAssignment(ctx, userA, player.ID, models.PlayerAssignment{TeamID: teamID, SeasonID: "season-2024"}); err != nil {
			t.Fatalf("assign %s: %v", teamID, err)
		}
	}

	var onTeamB string
	for _, a := range findPlayer(t, s.Snapshot(), player.ID).Assignments {
		if a.TeamID == "team-b" {
			onTeamB = a.ID
		}
	}
	before := snapshotJSON(t, s.Snapshot())

	teamA := "team-a"
	err = s.UpdateTeamAssignment(ctx, userA, onTeamB, models.PlayerAssignmentPatch{TeamID: &teamA})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if data.callCount("UpdatePlayerAssignment") != 0 {
		t.Fatalf("expected no write")
	}
	if snapshotJSON(t, s.Snapshot()) != before {
		t.Fatalf("snapshot changed after rejected move")
	}

	teamB := "team-b"
	if err := s.UpdateTeamAssignment(ctx, userA, onTeamB, models.PlayerAssignmentPatch{TeamID: &teamB, JerseyNumber: intValue(4)}); err != nil {
		t.Fatalf("keeping its own slot: %v", err)
	}
	if n := data.playerAssignmentCount(player.ID); n != 2 {
		t.Fatalf("assignments: %d", n)
	}
}

func TestUpdateCoachAssignment_OntoHeldSlotRejected(t *testing.T) {
	data := seededData()
	data.seedSeason("season-2025", "2025", userA.ID)
	s := newTestStore(data)
	ctx := context.Background()

	coach, err := s.AddCoach(ctx, userA, models.Coach{FullName: "Pat Coach"})
	if err != nil {
		t.Fatalf("add coach: %v", err)
	}
	for _, seasonID := range []string{"season-2024", "season-2025"} {
		if err := s.AddCoachAssignment(ctx, userA, coach.ID, models.CoachAssignment{TeamID: "team-a", SeasonID: seasonID}); err != nil {
			t.Fatalf("assign %s: %v", seasonID, err)
		}
	}

	var in2025 string
	for _, a := range findCoachIn(t, s.Snapshot(), coach.ID).Assignments {
		if a.SeasonID == "season-2025" {
			in2025 = a.ID
		}
	}

	season2024 := "season-2024"
	err = s.UpdateCoachAssignment(ctx, userA, in2025, models.CoachAssignmentPatch{SeasonID: &season2024})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if data.callCount("UpdateCoachAssignment") != 0 {
		t.Fatalf("expected no write")
	}
	if n := data.coachAssignmentCount(coach.ID); n != 2 {
		t.Fatalf("assignments: %d", n)
	}
}

func TestReload_CanceledKeepsPreviousSnapshot(t *testing.T) {
	data := seededData()
	s := newTestStore(data)
	s.Reload(context.Background(), userA)
	data.seedTeam("team-b", "Team B", userA.ID)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	s.Reload(canceled, userA)

	if n := len(s.Snapshot().Teams); n != 1 {
		t.Fatalf("expected previous teams kept, got %d", n)
	}
	if s.Loading() {
		t.Fatalf("expected loading false with a previous roster")
	}

	s.SetIdentity(context.Background(), userA)
	if n := len(s.Snapshot().Teams); n != 2 {
		t.Fatalf("expected reload on next use, got %d teams", n)
	}
}

func TestAddTeam_CanceledRefreshReloadsOnNextUse(t *testing.T) {
	data := seededData()
	s := newTestStore(data)
	s.Reload(context.Background(), userA)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.AddTeam(canceled, userA, models.Team{Name: "Team B"}); err != nil {
		t.Fatalf("add team: %v", err)
	}
	if n := len(s.Snapshot().Teams); n != 1 {
		t.Fatalf("expected previous teams until next use, got %d", n)
	}

	s.SetIdentity(context.Background(), userA)
	if n := len(s.Snapshot().Teams); n != 2 {
		t.Fatalf("teams after next use: %d", n)
	}
}

func TestPool_CanceledFirstGetLoadsOnNextGet(t *testing.T) {
	data := seededData()
	pool := NewPool(data, zerolog.Nop())

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Get(canceled, userA); err != nil {
		t.Fatalf("canceled get: %v", err)
	}

	s, err := pool.Get(context.Background(), userA)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n := len(s.Snapshot().Teams); n != 1 {
		t.Fatalf("teams after healthy get: %d", n)
	}
	if s.Loading() {
		t.Fatalf("expected loaded store")
	}
}
