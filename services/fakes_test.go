package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/courtside/league-system/live"
	"github.com/courtside/league-system/models"
	"github.com/courtside/league-system/repositories"
	"github.com/courtside/league-system/storage"
)

// In-memory stand-ins for the postgres repositories and the R2 store, enough
// behavior for the service pipelines under test.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func playerSession(name, team string) models.Session {
	return models.Session{ID: "sid-player", Name: name, Team: team, Role: models.RolePlayer}
}

func adminSession() models.Session {
	return models.Session{ID: "sid-admin", Name: "League Admin", Role: models.RoleAdmin}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []live.Event
}

func (p *recordingPublisher) Publish(event live.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeMatchRepo struct {
	matches map[int]models.Match
	nextID  int
}

func newFakeMatchRepo(matches ...models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[int]models.Match)}
	for _, m := range matches {
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
		r.matches[m.ID] = m
	}
	return r
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.nextID++
	match.ID = r.nextID
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	out := m
	return &out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.MatchFilter) ([]models.Match, error) {
	out := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if filter.Week != nil && m.Week != *filter.Week {
			continue
		}
		if filter.Division != nil && m.Division != *filter.Division {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) DeleteByTeamName(ctx context.Context, exec repositories.SQLExecutor, team string) (int64, error) {
	var n int64
	for id, m := range r.matches {
		if models.TeamNamesEqual(m.TeamA, team) || models.TeamNamesEqual(m.TeamB, team) {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

type fakeScoreRepo struct {
	scores    map[int]models.MatchScore
	upsertErr error
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[int]models.MatchScore)}
}

func (r *fakeScoreRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, score *models.MatchScore) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	score.UpdatedAt = time.Now()
	r.scores[score.MatchID] = *score
	return nil
}

func (r *fakeScoreRepo) GetByMatchID(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.MatchScore, error) {
	s, ok := r.scores[matchID]
	if !ok {
		return nil, repositories.ErrScoreNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeScoreRepo) ListByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) (map[int]models.MatchScore, error) {
	out := make(map[int]models.MatchScore)
	for _, id := range matchIDs {
		if s, ok := r.scores[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []models.Attendance
}

func (r *fakeAttendanceRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, a *models.Attendance) error {
	a.UpdatedAt = time.Now()
	for i, rec := range r.records {
		if rec.Week == a.Week && models.TeamNamesEqual(rec.Team, a.Team) {
			r.records[i] = *a
			return nil
		}
	}
	r.records = append(r.records, *a)
	return nil
}

func (r *fakeAttendanceRepo) ListByWeek(ctx context.Context, exec repositories.SQLExecutor, week int) ([]models.Attendance, error) {
	out := make([]models.Attendance, 0)
	for _, rec := range r.records {
		if rec.Week == week {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.Attendance, error) {
	out := make([]models.Attendance, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fakeAttendanceRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, week int, team string) error {
	for i, rec := range r.records {
		if rec.Week == week && models.TeamNamesEqual(rec.Team, team) {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repositories.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) DeleteByTeamName(ctx context.Context, exec repositories.SQLExecutor, team string) (int64, error) {
	kept := r.records[:0]
	var n int64
	for _, rec := range r.records {
		if models.TeamNamesEqual(rec.Team, team) {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return n, nil
}

type fakeTeamRepo struct {
	teams  map[int]models.Team
	nextID int
}

func newFakeTeamRepo(teams ...models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]models.Team)}
	for _, t := range teams {
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	for _, t := range r.teams {
		if models.TeamNamesEqual(t.Name, team.Name) {
			return repositories.ErrTeamNameTaken
		}
	}
	r.nextID++
	team.ID = r.nextID
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	out := t
	return &out, nil
}

func (r *fakeTeamRepo) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Team, error) {
	for _, t := range r.teams {
		if models.TeamNamesEqual(t.Name, name) {
			out := t
			return &out, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(ctx context.Context, exec repositories.SQLExecutor, division *models.Division) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if division != nil && t.Division != *division {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeMoveRepo struct {
	moves  map[int]models.DivisionMove
	nextID int
}

func newFakeMoveRepo() *fakeMoveRepo {
	return &fakeMoveRepo{moves: make(map[int]models.DivisionMove)}
}

func (r *fakeMoveRepo) Create(ctx context.Context, exec repositories.SQLExecutor, move *models.DivisionMove) error {
	r.nextID++
	move.ID = r.nextID
	move.CreatedAt = time.Now()
	r.moves[move.ID] = *move
	return nil
}

func (r *fakeMoveRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.DivisionMove, error) {
	out := make([]models.DivisionMove, 0, len(r.moves))
	for _, m := range r.moves {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMoveRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.moves[id]; !ok {
		return repositories.ErrDivisionMoveNotFound
	}
	delete(r.moves, id)
	return nil
}

func (r *fakeMoveRepo) DeleteByTeamName(ctx context.Context, exec repositories.SQLExecutor, team string) (int64, error) {
	var n int64
	for id, m := range r.moves {
		if models.TeamNamesEqual(m.Team, team) {
			delete(r.moves, id)
			n++
		}
	}
	return n, nil
}

type fakeBaselineRepo struct {
	rows []models.BaselineRow
}

func (r *fakeBaselineRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.BaselineRow, error) {
	out := make([]models.BaselineRow, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *fakeBaselineRepo) Replace(ctx context.Context, exec repositories.SQLExecutor, rows []models.BaselineRow) error {
	r.rows = make([]models.BaselineRow, len(rows))
	copy(r.rows, rows)
	return nil
}

type fakeSettingsRepo struct {
	settings models.LeagueSettings
}

func (r *fakeSettingsRepo) Get(ctx context.Context, exec repositories.SQLExecutor) (*models.LeagueSettings, error) {
	out := r.settings
	return &out, nil
}

func (r *fakeSettingsRepo) SetCurrentWeek(ctx context.Context, exec repositories.SQLExecutor, week int) (*models.LeagueSettings, error) {
	r.settings.CurrentWeek = week
	r.settings.UpdatedAt = time.Now()
	out := r.settings
	return &out, nil
}

type fakePhotoRepo struct {
	photos    map[int]models.PhotoUpload
	nextID    int
	createErr error
	deleteErr error
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[int]models.PhotoUpload)}
}

func (r *fakePhotoRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.PhotoUpload) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = r.nextID
	p.PostedAt = time.Now()
	r.photos[p.ID] = *p
	return nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.PhotoUpload, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, repositories.ErrPhotoNotFound
	}
	out := p
	return &out, nil
}

func (r *fakePhotoRepo) ListByFolder(ctx context.Context, exec repositories.SQLExecutor, folder string) ([]models.PhotoUpload, error) {
	out := make([]models.PhotoUpload, 0)
	for _, p := range r.photos {
		if p.Folder == folder {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePhotoRepo) ListFolders(ctx context.Context, exec repositories.SQLExecutor) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range r.photos {
		if !seen[p.Folder] {
			seen[p.Folder] = true
			out = append(out, p.Folder)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakePhotoRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.photos[id]; !ok {
		return repositories.ErrPhotoNotFound
	}
	delete(r.photos, id)
	return nil
}

type fakePhotoAdminRepo struct {
	admins map[int]models.PhotoAdmin
	nextID int
}

func newFakePhotoAdminRepo(names ...string) *fakePhotoAdminRepo {
	r := &fakePhotoAdminRepo{admins: make(map[int]models.PhotoAdmin)}
	for _, name := range names {
		r.nextID++
		r.admins[r.nextID] = models.PhotoAdmin{ID: r.nextID, PlayerName: name}
	}
	return r
}

func (r *fakePhotoAdminRepo) Add(ctx context.Context, exec repositories.SQLExecutor, admin *models.PhotoAdmin) error {
	for _, a := range r.admins {
		if strings.EqualFold(a.PlayerName, admin.PlayerName) {
			return repositories.ErrPhotoAdminExists
		}
	}
	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now()
	r.admins[admin.ID] = *admin
	return nil
}

func (r *fakePhotoAdminRepo) Remove(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.admins[id]; !ok {
		return repositories.ErrPhotoAdminNotFound
	}
	delete(r.admins, id)
	return nil
}

func (r *fakePhotoAdminRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.PhotoAdmin, error) {
	out := make([]models.PhotoAdmin, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePhotoAdminRepo) IsPhotoAdmin(ctx context.Context, exec repositories.SQLExecutor, playerName string) (bool, error) {
	for _, a := range r.admins {
		if strings.EqualFold(a.PlayerName, playerName) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAnnouncementRepo struct {
	announcements map[int]models.Announcement
	replies       map[int]models.AnnouncementReply
	nextID        int
	nextReplyID   int
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{
		announcements: make(map[int]models.Announcement),
		replies:       make(map[int]models.AnnouncementReply),
	}
}

func (r *fakeAnnouncementRepo) Create(ctx context.Context, exec repositories.SQLExecutor, a *models.Announcement) error {
	r.nextID++
	a.ID = r.nextID
	a.PostedAt = time.Now()
	r.announcements[a.ID] = *a
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Announcement, error) {
	a, ok := r.announcements[id]
	if !ok {
		return nil, repositories.ErrAnnouncementNotFound
	}
	out := a
	return &out, nil
}

func (r *fakeAnnouncementRepo) List(ctx context.Context, exec repositories.SQLExecutor, limit int) ([]models.Announcement, error) {
	out := make([]models.Announcement, 0, len(r.announcements))
	for _, a := range r.announcements {
		out = append(out, a)
	}
	// Newest first, like the table query.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.announcements[id]; !ok {
		return repositories.ErrAnnouncementNotFound
	}
	delete(r.announcements, id)
	for rid, reply := range r.replies {
		if reply.AnnouncementID == id {
			delete(r.replies, rid)
		}
	}
	return nil
}

func (r *fakeAnnouncementRepo) CreateReply(ctx context.Context, exec repositories.SQLExecutor, reply *models.AnnouncementReply) error {
	if _, ok := r.announcements[reply.AnnouncementID]; !ok {
		return repositories.ErrReplyAnnouncementInvalid
	}
	r.nextReplyID++
	reply.ID = r.nextReplyID
	reply.PostedAt = time.Now()
	r.replies[reply.ID] = *reply
	return nil
}

func (r *fakeAnnouncementRepo) ListReplies(ctx context.Context, exec repositories.SQLExecutor, announcementIDs []int) (map[int][]models.AnnouncementReply, error) {
	wanted := make(map[int]bool, len(announcementIDs))
	for _, id := range announcementIDs {
		wanted[id] = true
	}
	out := make(map[int][]models.AnnouncementReply)
	ids := make([]int, 0, len(r.replies))
	for id := range r.replies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		reply := r.replies[id]
		if wanted[reply.AnnouncementID] {
			out[reply.AnnouncementID] = append(out[reply.AnnouncementID], reply)
		}
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) DeleteReply(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.replies[id]; !ok {
		return repositories.ErrAnnouncementReplyNotFound
	}
	delete(r.replies, id)
	return nil
}

type fakeSponsorRepo struct {
	sponsors map[int]models.Sponsor
	nextID   int
}

func newFakeSponsorRepo() *fakeSponsorRepo {
	return &fakeSponsorRepo{sponsors: make(map[int]models.Sponsor)}
}

func (r *fakeSponsorRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.Sponsor) error {
	r.nextID++
	s.ID = r.nextID
	r.sponsors[s.ID] = *s
	return nil
}

func (r *fakeSponsorRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Sponsor, error) {
	s, ok := r.sponsors[id]
	if !ok {
		return nil, repositories.ErrSponsorNotFound
	}
	out := s
	return &out, nil
}

func (r *fakeSponsorRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.Sponsor, error) {
	out := make([]models.Sponsor, 0, len(r.sponsors))
	for _, s := range r.sponsors {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeSponsorRepo) Update(ctx context.Context, exec repositories.SQLExecutor, s *models.Sponsor) error {
	existing, ok := r.sponsors[s.ID]
	if !ok {
		return repositories.ErrSponsorNotFound
	}
	s.LogoKey = existing.LogoKey
	r.sponsors[s.ID] = *s
	return nil
}

func (r *fakeSponsorRepo) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	s, ok := r.sponsors[id]
	if !ok {
		return repositories.ErrSponsorNotFound
	}
	s.LogoKey = logoKey
	r.sponsors[id] = s
	return nil
}

func (r *fakeSponsorRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.sponsors[id]; !ok {
		return repositories.ErrSponsorNotFound
	}
	delete(r.sponsors, id)
	return nil
}

type fakeStore struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.objects[key] = b
	return &storage.UploadResult{Key: key, Location: s.GetPublicURL(key)}, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := make([]storage.ObjectInfo, 0)
	for k, b := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(b))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *fakeStore) GetPublicURL(key string) string {
	return "https://media.test/" + key
}

var (
	_ repositories.MatchRepository        = (*fakeMatchRepo)(nil)
	_ repositories.ScoreRepository        = (*fakeScoreRepo)(nil)
	_ repositories.AttendanceRepository   = (*fakeAttendanceRepo)(nil)
	_ repositories.TeamRepository         = (*fakeTeamRepo)(nil)
	_ repositories.DivisionMoveRepository = (*fakeMoveRepo)(nil)
	_ repositories.BaselineRepository     = (*fakeBaselineRepo)(nil)
	_ repositories.SettingsRepository     = (*fakeSettingsRepo)(nil)
	_ repositories.PhotoRepository        = (*fakePhotoRepo)(nil)
	_ repositories.PhotoAdminRepository   = (*fakePhotoAdminRepo)(nil)
	_ repositories.AnnouncementRepository = (*fakeAnnouncementRepo)(nil)
	_ repositories.SponsorRepository      = (*fakeSponsorRepo)(nil)
	_ storage.FileStore                   = (*fakeStore)(nil)
	_ EventPublisher                      = (*recordingPublisher)(nil)
)
