package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"roster/models"
)

// fakeData is an in-memory DataService that joins assignments to teams and
// seasons on read, the way the database does.
type fakeData struct {
	mu     sync.Mutex
	nextID int
	clock  time.Time

	teams             map[string]models.Team
	seasons           map[string]models.Season
	players           map[string]models.Player
	coaches           map[string]models.Coach
	playerAssignments map[string]models.PlayerAssignment
	coachAssignments  map[string]models.CoachAssignment
	parents           map[string]models.Parent
	connections       []models.ParentPlayerConnection
	invites           map[string]models.Invite

	calls map[string]int
	fail  map[string]error

	holdOwner   string
	holdStarted chan struct{}
	holdRelease chan struct{}
}

func newFakeData() *fakeData {
	return &fakeData{
		clock:             time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		teams:             make(map[string]models.Team),
		seasons:           make(map[string]models.Season),
		players:           make(map[string]models.Player),
		coaches:           make(map[string]models.Coach),
		playerAssignments: make(map[string]models.PlayerAssignment),
		coachAssignments:  make(map[string]models.CoachAssignment),
		parents:           make(map[string]models.Parent),
		invites:           make(map[string]models.Invite),
		calls:             make(map[string]int),
		fail:              make(map[string]error),
	}
}

// call records a call to method and returns its injected failure. Callers
// hold f.mu.
func (f *fakeData) call(method string) error {
	f.calls[method]++
	return f.fail[method]
}

// callCtx is call for reads that fail once ctx is done, as database reads do.
func (f *fakeData) callCtx(ctx context.Context, method string) error {
	if err := f.call(method); err != nil {
		return err
	}
	return ctx.Err()
}

func (f *fakeData) failOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *fakeData) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeData) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// hold makes ListTeams for ownerID block until the returned release channel
// is closed. started is closed once the blocked call begins.
func (f *fakeData) hold(ownerID string) (started, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdOwner = ownerID
	f.holdStarted = make(chan struct{})
	f.holdRelease = make(chan struct{})
	return f.holdStarted, f.holdRelease
}

func (f *fakeData) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeData) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// seed helpers bypass call accounting.

func (f *fakeData) seedTeam(id, name, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams[id] = models.Team{ID: id, Name: name, OwnerID: ownerID, CreatedAt: f.tick()}
}

func (f *fakeData) seedSeason(id, name, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seasons[id] = models.Season{ID: id, Name: name, Kind: models.SeasonKindSeason, OwnerID: ownerID, CreatedAt: f.tick()}
}

func (f *fakeData) seedPlayer(player models.Player) {
	f.mu.Lock()
	defer f.mu.Unlock()
	player.CreatedAt = f.tick()
	f.players[player.ID] = player
}

func (f *fakeData) seedCoach(coach models.Coach) {
	f.mu.Lock()
	defer f.mu.Unlock()
	coach.CreatedAt = f.tick()
	f.coaches[coach.ID] = coach
}

func (f *fakeData) coachAssignmentCount(coachID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.coachAssignments {
		if a.CoachID == coachID {
			n++
		}
	}
	return n
}

func (f *fakeData) seedParent(id, email string, playerIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parents[id] = models.Parent{ID: id, Email: email}
	for _, playerID := range playerIDs {
		f.connections = append(f.connections, models.ParentPlayerConnection{
			ID:       f.newID("conn"),
			ParentID: id,
			PlayerID: playerID,
		})
	}
}

func (f *fakeData) playerAssignmentCount(playerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.playerAssignments {
		if a.PlayerID == playerID {
			n++
		}
	}
	return n
}

func (f *fakeData) joinTeam(id string) *models.Team {
	team, ok := f.teams[id]
	if !ok {
		return nil
	}
	return &team
}

func (f *fakeData) joinSeason(id string) *models.Season {
	season, ok := f.seasons[id]
	if !ok {
		return nil
	}
	return &season
}

func (f *fakeData) withPlayerAssignments(player models.Player) models.Player {
	player.Assignments = nil
	for _, a := range f.playerAssignments {
		if a.PlayerID != player.ID {
			continue
		}
		a.Team = f.joinTeam(a.TeamID)
		a.Season = f.joinSeason(a.SeasonID)
		player.Assignments = append(player.Assignments, a)
	}
	sort.Slice(player.Assignments, func(i, j int) bool {
		return player.Assignments[i].ID < player.Assignments[j].ID
	})
	return player
}

func (f *fakeData) withCoachAssignments(coach models.Coach) models.Coach {
	coach.Assignments = nil
	for _, a := range f.coachAssignments {
		if a.CoachID != coach.ID {
			continue
		}
		a.Team = f.joinTeam(a.TeamID)
		a.Season = f.joinSeason(a.SeasonID)
		coach.Assignments = append(coach.Assignments, a)
	}
	sort.Slice(coach.Assignments, func(i, j int) bool {
		return coach.Assignments[i].ID < coach.Assignments[j].ID
	})
	return coach
}

func (f *fakeData) ListTeams(ctx context.Context, ownerID string) ([]models.Team, error) {
	f.mu.Lock()
	started, release := f.holdStarted, f.holdRelease
	blocked := release != nil && f.holdOwner == ownerID
	if blocked {
		f.holdRelease = nil
	}
	f.mu.Unlock()
	if blocked {
		close(started)
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ListTeams"); err != nil {
		return nil, err
	}
	var teams []models.Team
	for _, team := range f.teams {
		if team.OwnerID == ownerID {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt.After(teams[j].CreatedAt) })
	return teams, nil
}

func (f *fakeData) ListSeasons(ctx context.Context, ownerID string) ([]models.Season, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ListSeasons"); err != nil {
		return nil, err
	}
	var seasons []models.Season
	for _, season := range f.seasons {
		if season.OwnerID == ownerID {
			seasons = append(seasons, season)
		}
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].CreatedAt.After(seasons[j].CreatedAt) })
	return seasons, nil
}

func (f *fakeData) ListCoaches(ctx context.Context, ownerID string) ([]models.Coach, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ListCoaches"); err != nil {
		return nil, err
	}
	var coaches []models.Coach
	for _, coach := range f.coaches {
		if coach.OwnerID == ownerID {
			coaches = append(coaches, f.withCoachAssignments(coach))
		}
	}
	sort.Slice(coaches, func(i, j int) bool { return coaches[i].CreatedAt.After(coaches[j].CreatedAt) })
	return coaches, nil
}

func (f *fakeData) ListOwnedPlayers(ctx context.Context, userID string) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ListOwnedPlayers"); err != nil {
		return nil, err
	}
	var players []models.Player
	for _, player := range f.players {
		if player.OwnerID == userID || (player.ProfileID != nil && *player.ProfileID == userID) {
			players = append(players, f.withPlayerAssignments(player))
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].CreatedAt.After(players[j].CreatedAt) })
	return players, nil
}

func (f *fakeData) ParentIDsByEmail(ctx context.Context, email string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ParentIDsByEmail"); err != nil {
		return nil, err
	}
	var ids []string
	for _, parent := range f.parents {
		if strings.EqualFold(parent.Email, email) {
			ids = append(ids, parent.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeData) ConnectedPlayerIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ConnectedPlayerIDs"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool)
	for _, id := range parentIDs {
		wanted[id] = true
	}
	var ids []string
	for _, conn := range f.connections {
		if wanted[conn.ParentID] {
			ids = append(ids, conn.PlayerID)
		}
	}
	return ids, nil
}

func (f *fakeData) ListPlayersByID(ctx context.Context, ids []string) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.callCtx(ctx, "ListPlayersByID"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
	}
	var players []models.Player
	for _, player := range f.players {
		if wanted[player.ID] {
			players = append(players, f.withPlayerAssignments(player))
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].CreatedAt.After(players[j].CreatedAt) })
	return players, nil
}

func (f *fakeData) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetPlayer"); err != nil {
		return nil, err
	}
	player, ok := f.players[id]
	if !ok {
		return nil, nil
	}
	player = f.withPlayerAssignments(player)
	return &player, nil
}

func (f *fakeData) CreatePlayer(ctx context.Context, player *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreatePlayer"); err != nil {
		return err
	}
	player.ID = f.newID("player")
	player.CreatedAt = f.tick()
	stored := *player
	stored.Assignments = nil
	f.players[player.ID] = stored
	return nil
}

func (f *fakeData) UpdatePlayer(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdatePlayer"); err != nil {
		return err
	}
	player, ok := f.players[id]
	if !ok || player.OwnerID != ownerID {
		return ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "full_name":
			player.FullName = value.(string)
		case "email":
			player.Email = stringPtr(value)
		case "avatar_url":
			player.AvatarURL = stringPtr(value)
		case "is_existing_user":
			player.IsExistingUser = value.(bool)
		case "invite_sent":
			player.InviteSent = value.(bool)
		case "invite_date":
			t := value.(time.Time)
			player.InviteDate = &t
		}
	}
	f.players[id] = player
	return nil
}

func (f *fakeData) DeletePlayer(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePlayer"); err != nil {
		return err
	}
	player, ok := f.players[id]
	if !ok || player.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.players, id)
	for aid, a := range f.playerAssignments {
		if a.PlayerID == id {
			delete(f.playerAssignments, aid)
		}
	}
	return nil
}

func (f *fakeData) GetCoach(ctx context.Context, id string) (*models.Coach, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetCoach"); err != nil {
		return nil, err
	}
	coach, ok := f.coaches[id]
	if !ok {
		return nil, nil
	}
	coach = f.withCoachAssignments(coach)
	return &coach, nil
}

func (f *fakeData) CreateCoach(ctx context.Context, coach *models.Coach) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateCoach"); err != nil {
		return err
	}
	coach.ID = f.newID("coach")
	coach.CreatedAt = f.tick()
	stored := *coach
	stored.Assignments = nil
	f.coaches[coach.ID] = stored
	return nil
}

func (f *fakeData) UpdateCoach(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateCoach"); err != nil {
		return err
	}
	coach, ok := f.coaches[id]
	if !ok || coach.OwnerID != ownerID {
		return ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "full_name":
			coach.FullName = value.(string)
		case "email":
			coach.Email = stringPtr(value)
		case "is_existing_user":
			coach.IsExistingUser = value.(bool)
		case "invite_sent":
			coach.InviteSent = value.(bool)
		case "invite_date":
			t := value.(time.Time)
			coach.InviteDate = &t
		}
	}
	f.coaches[id] = coach
	return nil
}

func (f *fakeData) DeleteCoach(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteCoach"); err != nil {
		return err
	}
	coach, ok := f.coaches[id]
	if !ok || coach.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.coaches, id)
	for aid, a := range f.coachAssignments {
		if a.CoachID == id {
			delete(f.coachAssignments, aid)
		}
	}
	return nil
}

func (f *fakeData) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetTeam"); err != nil {
		return nil, err
	}
	return f.joinTeam(id), nil
}

func (f *fakeData) CreateTeam(ctx context.Context, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateTeam"); err != nil {
		return err
	}
	team.ID = f.newID("team")
	team.CreatedAt = f.tick()
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeData) UpdateTeam(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateTeam"); err != nil {
		return err
	}
	team, ok := f.teams[id]
	if !ok || team.OwnerID != ownerID {
		return ErrNotFound
	}
	if name, ok := fields["name"]; ok {
		team.Name = name.(string)
	}
	f.teams[id] = team
	return nil
}

func (f *fakeData) DeleteTeam(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteTeam"); err != nil {
		return err
	}
	team, ok := f.teams[id]
	if !ok || team.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.teams, id)
	for aid, a := range f.playerAssignments {
		if a.TeamID == id {
			delete(f.playerAssignments, aid)
		}
	}
	for aid, a := range f.coachAssignments {
		if a.TeamID == id {
			delete(f.coachAssignments, aid)
		}
	}
	return nil
}

func (f *fakeData) GetSeason(ctx context.Context, id string) (*models.Season, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("GetSeason"); err != nil {
		return nil, err
	}
	return f.joinSeason(id), nil
}

func (f *fakeData) CreateSeason(ctx context.Context, season *models.Season) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateSeason"); err != nil {
		return err
	}
	season.ID = f.newID("season")
	season.CreatedAt = f.tick()
	f.seasons[season.ID] = *season
	return nil
}

func (f *fakeData) UpdateSeason(ctx context.Context, id, ownerID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateSeason"); err != nil {
		return err
	}
	season, ok := f.seasons[id]
	if !ok || season.OwnerID != ownerID {
		return ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			season.Name = value.(string)
		case "kind":
			season.Kind = value.(models.SeasonKind)
		case "start_date":
			t := value.(time.Time)
			season.StartDate = &t
		case "end_date":
			t := value.(time.Time)
			season.EndDate = &t
		}
	}
	f.seasons[id] = season
	return nil
}

func (f *fakeData) DeleteSeason(ctx context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteSeason"); err != nil {
		return err
	}
	season, ok := f.seasons[id]
	if !ok || season.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.seasons, id)
	for aid, a := range f.playerAssignments {
		if a.SeasonID == id {
			delete(f.playerAssignments, aid)
		}
	}
	for aid, a := range f.coachAssignments {
		if a.SeasonID == id {
			delete(f.coachAssignments, aid)
		}
	}
	return nil
}

func (f *fakeData) FindPlayerAssignment(ctx context.Context, playerID, teamID, seasonID string) (*models.PlayerAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FindPlayerAssignment"); err != nil {
		return nil, err
	}
	for _, a := range f.playerAssignments {
		if a.PlayerID == playerID && a.TeamID == teamID && a.SeasonID == seasonID {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeData) CreatePlayerAssignment(ctx context.Context, assignment *models.PlayerAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreatePlayerAssignment"); err != nil {
		return err
	}
	for _, a := range f.playerAssignments {
		if a.PlayerID == assignment.PlayerID && a.TeamID == assignment.TeamID && a.SeasonID == assignment.SeasonID {
			return fmt.Errorf("duplicate player assignment")
		}
	}
	assignment.ID = f.newID("pa")
	f.playerAssignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeData) UpdatePlayerAssignment(ctx context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdatePlayerAssignment"); err != nil {
		return err
	}
	a, ok := f.playerAssignments[id]
	if !ok {
		return ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "team_id":
			a.TeamID = value.(string)
		case "season_id":
			a.SeasonID = value.(string)
		case "jersey_number":
			a.JerseyNumber = intPtr(value)
		case "position":
			a.Position = stringPtr(value)
		}
	}
	f.playerAssignments[id] = a
	return nil
}

func (f *fakeData) DeletePlayerAssignment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeletePlayerAssignment"); err != nil {
		return err
	}
	if _, ok := f.playerAssignments[id]; !ok {
		return ErrNotFound
	}
	delete(f.playerAssignments, id)
	return nil
}

func (f *fakeData) FindCoachAssignment(ctx context.Context, coachID, teamID, seasonID string) (*models.CoachAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("FindCoachAssignment"); err != nil {
		return nil, err
	}
	for _, a := range f.coachAssignments {
		if a.CoachID == coachID && a.TeamID == teamID && a.SeasonID == seasonID {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeData) CreateCoachAssignment(ctx context.Context, assignment *models.CoachAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateCoachAssignment"); err != nil {
		return err
	}
	assignment.ID = f.newID("ca")
	f.coachAssignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeData) UpdateCoachAssignment(ctx context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("UpdateCoachAssignment"); err != nil {
		return err
	}
	a, ok := f.coachAssignments[id]
	if !ok {
		return ErrNotFound
	}
	if teamID, ok := fields["team_id"]; ok {
		a.TeamID = teamID.(string)
	}
	if seasonID, ok := fields["season_id"]; ok {
		a.SeasonID = seasonID.(string)
	}
	f.coachAssignments[id] = a
	return nil
}

func (f *fakeData) DeleteCoachAssignment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("DeleteCoachAssignment"); err != nil {
		return err
	}
	if _, ok := f.coachAssignments[id]; !ok {
		return ErrNotFound
	}
	delete(f.coachAssignments, id)
	return nil
}

func (f *fakeData) CreateInvite(ctx context.Context, invite *models.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CreateInvite"); err != nil {
		return err
	}
	f.invites[invite.Code] = *invite
	sentAt := invite.CreatedAt
	if invite.PlayerID != nil {
		player := f.players[*invite.PlayerID]
		player.InviteSent = true
		player.InviteDate = &sentAt
		f.players[player.ID] = player
	}
	if invite.CoachID != nil {
		coach := f.coaches[*invite.CoachID]
		coach.InviteSent = true
		coach.InviteDate = &sentAt
		f.coaches[coach.ID] = coach
	}
	return nil
}

func (f *fakeData) AcceptInvite(ctx context.Context, code, profileID string, now time.Time) (*models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("AcceptInvite"); err != nil {
		return nil, err
	}
	invite, ok := f.invites[code]
	if !ok || !invite.IsValid(now) {
		return nil, ErrInviteInvalid
	}
	invite.Used = true
	invite.UsedBy = &profileID
	f.invites[code] = invite

	if invite.PlayerID != nil {
		player := f.players[*invite.PlayerID]
		player.ProfileID = &profileID
		player.IsExistingUser = true
		f.players[player.ID] = player
	}
	if invite.CoachID != nil {
		coach := f.coaches[*invite.CoachID]
		coach.ProfileID = &profileID
		coach.IsExistingUser = true
		f.coaches[coach.ID] = coach
	}
	return &invite, nil
}

func stringPtr(v interface{}) *string {
	switch s := v.(type) {
	case string:
		return &s
	case *string:
		return s
	}
	return nil
}

func intPtr(v interface{}) *int {
	switch n := v.(type) {
	case int:
		return &n
	case *int:
		return n
	}
	return nil
}
