package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/ws"
)

// fakeHub, ws.EventPublisher'ın test implementasyonu.
// Broadcast edilen event'leri kaydeder — testler op ve payload doğrular.
type fakeHub struct {
	mu     sync.Mutex
	events []ws.Event
}

func (h *fakeHub) BroadcastToAll(event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *fakeHub) BroadcastToUser(userID string, event ws.Event) {
	h.BroadcastToAll(event)
}

func (h *fakeHub) GetOnlineUserIDs() []string { return nil }

func (h *fakeHub) eventsByOp(op string) []ws.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ws.Event
	for _, e := range h.events {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}

// fakeAnnouncementRepo, AnnouncementRepository'nin in-memory implementasyonu.
// failMarkRead kümesindeki ID'ler için MarkRead hata döner —
// kısmi başarısızlık senaryoları böyle test edilir.
type fakeAnnouncementRepo struct {
	mu           sync.Mutex
	items        map[string]*models.Announcement
	reads        map[string]map[string]bool // announcementID → userID set
	failMarkRead map[string]bool
	nextID       int
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{
		items:        make(map[string]*models.Announcement),
		reads:        make(map[string]map[string]bool),
		failMarkRead: make(map[string]bool),
	}
}

func (r *fakeAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = fmt.Sprintf("ann-%d", r.nextID)
	a.CreatedAt = time.Now()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnnouncementRepo) GetAll(ctx context.Context, includeScheduled bool) ([]models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Announcement
	for _, a := range r.items {
		if !includeScheduled && a.Status != models.AnnouncementStatusSent {
			continue
		}
		cp := *a
		for userID := range r.reads[a.ID] {
			cp.ReadBy = append(cp.ReadBy, userID)
		}
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeAnnouncementRepo) MarkRead(ctx context.Context, announcementID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMarkRead[announcementID] {
		return fmt.Errorf("simulated write failure")
	}
	if _, ok := r.reads[announcementID]; !ok {
		r.reads[announcementID] = make(map[string]bool)
	}
	r.reads[announcementID][userID] = true
	return nil
}

func (r *fakeAnnouncementRepo) Readers(ctx context.Context, announcementID string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for userID := range r.reads[announcementID] {
		out = append(out, models.User{ID: userID})
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) ListUnreadIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for id, a := range r.items {
		if a.Status != models.AnnouncementStatusSent {
			continue
		}
		if !r.reads[id][userID] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	ids, _ := r.ListUnreadIDs(ctx, userID)
	return len(ids), nil
}

func (r *fakeAnnouncementRepo) ListDue(ctx context.Context) ([]models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var out []models.Announcement
	for _, a := range r.items {
		if a.Status == models.AnnouncementStatusScheduled && a.ScheduledAt != nil && !a.ScheduledAt.After(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnnouncementRepo) MarkSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.Status != models.AnnouncementStatusScheduled {
		return pkg.ErrNotFound
	}
	a.Status = models.AnnouncementStatusSent
	return nil
}

// fakeUserRepo, UserRepository'nin minimal in-memory implementasyonu.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.PasswordHash = newPasswordHash
	return nil
}

func (r *fakeUserRepo) SetRestricted(ctx context.Context, userID string, restricted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.IsRestricted = restricted
	return nil
}

func (r *fakeUserRepo) SetPlatformAdmin(ctx context.Context, userID string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.IsPlatformAdmin = isAdmin
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeSessionRepo, SessionRepository'nin in-memory implementasyonu.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session // id → session
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = fmt.Sprintf("sess-%d", r.nextID)
	session.CreatedAt = time.Now()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshToken == refreshToken {
			cp := *s
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) countForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// fakeResetRepo, ResetTokenRepository'nin in-memory implementasyonu.
type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken
	nextID int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = fmt.Sprintf("reset-%d", r.nextID)
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}

func (r *fakeResetRepo) GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeResetRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *fakeResetRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeResetRepo) LastRequestAt(ctx context.Context, userID string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *time.Time
	for _, t := range r.tokens {
		if t.UserID == userID && (last == nil || t.CreatedAt.After(*last)) {
			created := t.CreatedAt
			last = &created
		}
	}
	return last, nil
}

// fakeMailer, gönderilen reset maillerini kaydeder.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to    string
	token string
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: toEmail, token: token})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].token
}

// fakeMiqaatRepo, MiqaatRepository'nin in-memory implementasyonu.
type fakeMiqaatRepo struct {
	mu     sync.Mutex
	items  map[string]*models.Miqaat
	nextID int
}

func newFakeMiqaatRepo() *fakeMiqaatRepo {
	return &fakeMiqaatRepo{items: make(map[string]*models.Miqaat)}
}

func (r *fakeMiqaatRepo) Create(ctx context.Context, m *models.Miqaat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = fmt.Sprintf("miqaat-%d", r.nextID)
	m.CreatedAt = time.Now()
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *fakeMiqaatRepo) GetByID(ctx context.Context, id string) (*models.Miqaat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMiqaatRepo) GetAll(ctx context.Context) ([]models.Miqaat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Miqaat
	for _, m := range r.items {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMiqaatRepo) Update(ctx context.Context, m *models.Miqaat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[m.ID]; !ok {
		return pkg.ErrNotFound
	}
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *fakeMiqaatRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeMediaRepo struct {
	mu     sync.Mutex
	items  map[string]*models.MediaItem
	nextID int
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{items: make(map[string]*models.MediaItem)}
}

func (r *fakeMediaRepo) Create(ctx context.Context, item *models.MediaItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = fmt.Sprintf("media-%d", r.nextID)
	item.CreatedAt = time.Now()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeMediaRepo) GetAll(ctx context.Context) ([]models.MediaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MediaItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeMediaRepo) IncrementDownload(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return 0, pkg.ErrNotFound
	}
	item.DownloadCount++
	return item.DownloadCount, nil
}

// fakeSettingsRepo, SettingsRepository'nin in-memory implementasyonu.
// fetchCount ile cache isabet oranı test edilir.
type fakeSettingsRepo struct {
	mu         sync.Mutex
	stored     *models.Settings
	fetchCount int
	failGet    bool
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchCount++
	if r.failGet {
		return nil, fmt.Errorf("simulated db failure")
	}
	if r.stored == nil {
		return nil, pkg.ErrNotFound
	}
	cp := *r.stored
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, s *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = time.Now()
	cp := *s
	r.stored = &cp
	return nil
}

func (r *fakeSettingsRepo) fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchCount
}
