package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/pkg/notification"
	"backoffice/pkg/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeDB is an in-memory stand-in for the Postgres tables.
type fakeDB struct {
	mu sync.Mutex

	nextID      int64
	now         time.Time
	frozenClock bool

	users     map[int64]*entity.User
	profiles  map[int64]*entity.Profile // by user id
	countries map[int64]*entity.Country
	tags      map[int64]*entity.Tag

	hideEmails  bool // FindByEmail always misses, as under a concurrent writer
	profileErr  error
	activityErr error
	activities  []*entity.Activity
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextID:    1,
		now:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:     map[int64]*entity.User{},
		profiles:  map[int64]*entity.Profile{},
		countries: map[int64]*entity.Country{},
		tags:      map[int64]*entity.Tag{},
	}
}

func (db *fakeDB) tick() time.Time {
	if !db.frozenClock {
		db.now = db.now.Add(time.Second)
	}
	return db.now
}

func (db *fakeDB) id() int64 {
	id := db.nextID
	db.nextID++
	return id
}

// putUser stores u as is, keeping its id when set.
func (db *fakeDB) putUser(u *entity.User) *entity.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u.ID == 0 {
		u.ID = db.id()
	} else if u.ID >= db.nextID {
		db.nextID = u.ID + 1
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = db.tick()
		u.UpdatedAt = u.CreatedAt
	}
	cp := *u
	db.users[u.ID] = &cp
	return u
}

func (db *fakeDB) putCountry(name, iso2 string) *entity.Country {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := &entity.Country{Name: name, ISO2: iso2, ISO3: iso2 + "X"}
	c.ID = db.id()
	db.countries[c.ID] = c
	return c
}

func (db *fakeDB) user(id int64) *entity.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (db *fakeDB) profile(userID int64) *entity.Profile {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.profiles[userID]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (db *fakeDB) repository() *repository.Repository {
	return &repository.Repository{
		User:     &fakeUserRepo{db},
		Profile:  &fakeProfileRepo{db},
		Tag:      &fakeTagRepo{db},
		Country:  &fakeCountryRepo{db},
		Activity: &fakeActivityRepo{db},
	}
}

// WithTx snapshots the tables and restores them when fn fails.
func (db *fakeDB) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	db.mu.Lock()
	users, profiles := maps.Clone(db.users), maps.Clone(db.profiles)
	db.mu.Unlock()

	if err := fn(db.repository()); err != nil {
		db.mu.Lock()
		db.users, db.profiles = users, profiles
		db.mu.Unlock()
		return err
	}
	return nil
}

func pgErr(code, constraint string) error {
	return fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

type fakeUserRepo struct{ db *fakeDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return pgErr("23505", "users_email_key")
		}
	}
	user.ID = r.db.id()
	user.CreatedAt = r.db.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	cp.Profile = nil
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.db.user(id), nil
}

func (r *fakeUserRepo) FindByIDAndRole(ctx context.Context, id int64, role entity.UserRole) (*entity.User, error) {
	u := r.db.user(id)
	if u == nil || u.Role != role {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.hideEmails {
		return nil, nil
	}
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindEmailsByRole(ctx context.Context, role entity.UserRole) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var ids []int64
	for id, u := range r.db.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	emails := []string{}
	for _, id := range ids {
		emails = append(emails, r.db.users[id].Email)
	}
	return emails, nil
}

func (r *fakeUserRepo) matching(filter repository.UserFilter) []*entity.User {
	needle := strings.ToLower(filter.Search)
	var out []*entity.User
	for _, u := range r.db.users {
		if u.Role != filter.Role {
			continue
		}
		cp := *u
		if filter.WithProfile {
			if p, ok := r.db.profiles[u.ID]; ok {
				pc := *p
				cp.Profile = &pc
			}
		}
		if needle != "" {
			fields := []string{u.Name, u.Email}
			if u.Phone != nil {
				fields = append(fields, *u.Phone)
			}
			hit := false
			for _, f := range fields {
				if strings.Contains(strings.ToLower(f), needle) {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *fakeUserRepo) Search(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.matching(filter)
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.ID]; !ok {
		return fmt.Errorf("update user %d: %w", user.ID, repository.ErrNotFound)
	}
	for _, u := range r.db.users {
		if u.Email == user.Email && u.ID != user.ID {
			return pgErr("23505", "users_email_key")
		}
	}
	user.UpdatedAt = r.db.tick()
	cp := *user
	cp.Profile = nil
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return fmt.Errorf("delete user %d: %w", id, repository.ErrNotFound)
	}
	delete(r.db.users, id)
	delete(r.db.profiles, id)
	return nil
}

func (r *fakeUserRepo) DeleteByIDsAndRole(ctx context.Context, ids []int64, role entity.UserRole) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	deleted := []*entity.User{}
	for _, id := range ids {
		u, ok := r.db.users[id]
		if !ok || u.Role != role {
			continue
		}
		delete(r.db.users, id)
		delete(r.db.profiles, id)
		deleted = append(deleted, u)
	}
	return deleted, nil
}

type fakeProfileRepo struct{ db *fakeDB }

func (r *fakeProfileRepo) Upsert(ctx context.Context, profile *entity.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.profileErr != nil {
		return r.db.profileErr
	}
	if profile.CountryID != nil {
		if _, ok := r.db.countries[*profile.CountryID]; !ok {
			return pgErr("23503", "user_profiles_country_id_fkey")
		}
	}
	if existing, ok := r.db.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.ID = r.db.id()
		profile.CreatedAt = r.db.tick()
	}
	profile.UpdatedAt = r.db.now
	cp := *profile
	r.db.profiles[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) FindByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	return r.db.profile(userID), nil
}

type fakeCountryRepo struct{ db *fakeDB }

func (r *fakeCountryRepo) FindAll(ctx context.Context) ([]*entity.Country, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Country{}
	for _, c := range r.db.countries {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCountryRepo) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.countries[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCountryRepo) UpsertByISO2(ctx context.Context, country *entity.Country) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.countries {
		if c.ISO2 == country.ISO2 {
			c.Name, c.ISO3 = country.Name, country.ISO3
			country.ID = c.ID
			return nil
		}
	}
	country.ID = r.db.id()
	cp := *country
	r.db.countries[country.ID] = &cp
	return nil
}

type fakeTagRepo struct{ db *fakeDB }

func (r *fakeTagRepo) Create(ctx context.Context, tag *entity.Tag) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.tags {
		if t.Name == tag.Name {
			return pgErr("23505", "tags_name_key")
		}
	}
	tag.ID = r.db.id()
	tag.CreatedAt = r.db.tick()
	tag.UpdatedAt = tag.CreatedAt
	cp := *tag
	r.db.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) FindByID(ctx context.Context, id int64) (*entity.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.tags[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTagRepo) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.tags {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTagRepo) matching(filter repository.TagFilter) []*entity.Tag {
	out := []*entity.Tag{}
	for _, t := range r.db.tags {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Search)) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *fakeTagRepo) Search(ctx context.Context, filter repository.TagFilter, limit, offset int) ([]*entity.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.matching(filter)
	if offset >= len(all) {
		return []*entity.Tag{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *fakeTagRepo) Count(ctx context.Context, filter repository.TagFilter) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeTagRepo) Update(ctx context.Context, tag *entity.Tag) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tags[tag.ID]; !ok {
		return fmt.Errorf("update tag %d: %w", tag.ID, repository.ErrNotFound)
	}
	tag.UpdatedAt = r.db.tick()
	cp := *tag
	r.db.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tags[id]; !ok {
		return fmt.Errorf("delete tag %d: %w", id, repository.ErrNotFound)
	}
	delete(r.db.tags, id)
	return nil
}

func (r *fakeTagRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.db.tags[id]; ok {
			delete(r.db.tags, id)
			n++
		}
	}
	return n, nil
}

type fakeActivityRepo struct{ db *fakeDB }

func (r *fakeActivityRepo) Record(ctx context.Context, a *entity.Activity) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.activityErr != nil {
		return r.db.activityErr
	}
	a.ID = r.db.id()
	r.db.activities = append(r.db.activities, a)
	return nil
}

func (r *fakeActivityRepo) FindBySubject(ctx context.Context, subjectType string, subjectID int64) ([]*entity.Activity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Activity{}
	for _, a := range r.db.activities {
		if a.SubjectType == subjectType && a.SubjectID != nil && *a.SubjectID == subjectID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeStorage struct {
	mu       sync.Mutex
	stored   map[string][]byte
	deleted  []string
	storeErr error
	seq      int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{stored: map[string][]byte{}}
}

func (s *fakeStorage) Store(ctx context.Context, namespace string, f *storage.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.seq++
	path := fmt.Sprintf("%s/%d.png", namespace, s.seq)
	s.stored[path] = []byte("bytes")
	return path, nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stored, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) URL(path string) string { return "/storage/" + path }

type fakeDispatcher struct {
	mu       sync.Mutex
	messages []notification.Message
	err      error
}

func (d *fakeDispatcher) Enqueue(ctx context.Context, msg notification.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, msg)
	return nil
}

func (d *fakeDispatcher) byTemplate(template string) []notification.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []notification.Message
	for _, m := range d.messages {
		if m.Template == template {
			out = append(out, m)
		}
	}
	return out
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (a *fakeAudit) Record(ctx context.Context, entry AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

func (a *fakeAudit) events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, fmt.Sprintf("%s#%d", e.Event, e.SubjectID))
	}
	return out
}

// harness bundles one fake world.
type harness struct {
	db       *fakeDB
	storage  *fakeStorage
	notifier *fakeDispatcher
	audit    *fakeAudit
	deps     WorkflowDeps
}

func newHarness() *harness {
	h := &harness{
		db:       newFakeDB(),
		storage:  newFakeStorage(),
		notifier: &fakeDispatcher{},
		audit:    &fakeAudit{},
	}
	h.deps = WorkflowDeps{
		Repo:       h.db.repository(),
		Tx:         h.db,
		Storage:    h.storage,
		Notifier:   h.notifier,
		Audit:      h.audit,
		BcryptCost: bcrypt.MinCost,
		PageSize:   10,
		Log:        zap.NewNop(),
	}
	return h
}

var errBoom = errors.New("boom")

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func itoa(v int64) string { return fmt.Sprintf("%d", v) }

// vanishingUserRepo removes every user right after it is looked up, as a
// concurrent delete landing between a find and the write would.
type vanishingUserRepo struct {
	repository.UserRepository
}

func (r vanishingUserRepo) FindByIDAndRole(ctx context.Context, id int64, role entity.UserRole) (*entity.User, error) {
	user, err := r.UserRepository.FindByIDAndRole(ctx, id, role)
	if user != nil {
		_ = r.UserRepository.Delete(ctx, id)
	}
	return user, err
}

type vanishingTagRepo struct {
	repository.TagRepository
}

func (r vanishingTagRepo) FindByID(ctx context.Context, id int64) (*entity.Tag, error) {
	tag, err := r.TagRepository.FindByID(ctx, id)
	if tag != nil {
		_ = r.TagRepository.Delete(ctx, id)
	}
	return tag, err
}

// withVanishingRows swaps the harness repository for one whose lookups race
// with a delete.
func (h *harness) withVanishingRows() {
	repo := *h.deps.Repo
	repo.User = vanishingUserRepo{UserRepository: repo.User}
	repo.Tag = vanishingTagRepo{TagRepository: repo.Tag}
	h.deps.Repo = &repo
}
