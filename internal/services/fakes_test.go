package services

import (
	"context"
	"strconv"

	"eventify_backend/internal/models"
	"eventify_backend/internal/repositories"
)

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	events map[string]*models.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.Event)}
}

func (f *fakeEventRepo) FindByID(_ context.Context, id string) (*models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeEventRepo) FindAll(_ context.Context) ([]models.Event, error) {
	out := make([]models.Event, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	if event.ID == "" {
		f.nextID++
		event.ID = "ev-" + strconv.Itoa(f.nextID)
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ReplaceTicketTypes(_ context.Context, eventID string, ticketTypes []models.TicketType) error {
	ev, ok := f.events[eventID]
	if !ok {
		return repositories.ErrEventNotFound
	}
	ev.TicketTypes = ticketTypes
	return nil
}

func (f *fakeEventRepo) UpdateImageURLQuietly(_ context.Context, id, imageURL string) error {
	ev, ok := f.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	ev.ImageURL = imageURL
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetRoles(_ context.Context, userID string, roles []models.Role) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Roles = roles
	return nil
}

// fakeRoleRepo serves a fixed role catalog.
type fakeRoleRepo struct {
	roles map[string]models.Role
}

func newFakeRoleRepo(slugs ...string) *fakeRoleRepo {
	f := &fakeRoleRepo{roles: make(map[string]models.Role)}
	for _, slug := range slugs {
		f.roles[slug] = models.Role{Slug: slug, Name: slug}
	}
	return f
}

func (f *fakeRoleRepo) FindAll(_ context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoleRepo) FindBySlug(_ context.Context, slug string) (*models.Role, error) {
	r, ok := f.roles[slug]
	if !ok {
		return nil, repositories.ErrRoleNotFound
	}
	return &r, nil
}

func (f *fakeRoleRepo) FindBySlugs(_ context.Context, slugs []string) ([]models.Role, error) {
	var out []models.Role
	for _, slug := range slugs {
		if r, ok := f.roles[slug]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) Upsert(_ context.Context, role *models.Role) error {
	f.roles[role.Slug] = *role
	return nil
}

func (f *fakeRoleRepo) UpsertPermission(_ context.Context, _ *models.Permission) error {
	return nil
}

func (f *fakeRoleRepo) GrantPermissions(_ context.Context, _ string, _ []string) error {
	return nil
}

// fakeDispatcher records enqueued event IDs.
type fakeDispatcher struct {
	enqueued []string
}

func (f *fakeDispatcher) Enqueue(eventID string) {
	f.enqueued = append(f.enqueued, eventID)
}

// fakeIngestor never runs; it only classifies references.
type fakeIngestor struct{}

func (fakeIngestor) Ingest(_ context.Context, _ string) error { return nil }

func (fakeIngestor) IsLocalRef(ref string) bool { return ref == "" || ref[0] == '/' }
