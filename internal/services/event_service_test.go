package services

import (
	"context"
	"testing"

	"eventify_backend/internal/auth"
	"eventify_backend/internal/dto"
	"eventify_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userWith(roleSlug string, permSlugs ...string) *models.User {
	perms := make([]models.Permission, 0, len(permSlugs))
	for _, p := range permSlugs {
		perms = append(perms, models.Permission{Slug: p})
	}
	return &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Roles:     []models.Role{{Slug: roleSlug, Permissions: perms}},
	}
}

func TestCanCreateEvent(t *testing.T) {
	admin := userWith(auth.RoleAdmin)
	organizer := userWith(auth.RoleOrganizer, auth.PermCreateEvents)
	customer := userWith(auth.RoleCustomer, auth.PermPurchaseTickets)

	assert.True(t, CanCreateEvent(admin))
	assert.True(t, CanCreateEvent(organizer))
	assert.False(t, CanCreateEvent(customer))
}

func TestCanUpdateEvent(t *testing.T) {
	organizer := userWith(auth.RoleOrganizer, auth.PermEditEvents)
	own := &models.Event{UserID: organizer.ID}
	other := &models.Event{UserID: "someone-else"}

	assert.True(t, CanUpdateEvent(organizer, own))
	assert.False(t, CanUpdateEvent(organizer, other), "organizers only edit their own events")

	admin := userWith(auth.RoleAdmin)
	assert.True(t, CanUpdateEvent(admin, other), "admins edit anything")

	noPerm := userWith(auth.RoleCustomer)
	ownedByCustomer := &models.Event{UserID: noPerm.ID}
	assert.False(t, CanUpdateEvent(noPerm, ownedByCustomer), "ownership alone is not enough")
}

func TestCanDeleteEvent(t *testing.T) {
	organizer := userWith(auth.RoleOrganizer, auth.PermDeleteEvents)
	own := &models.Event{UserID: organizer.ID}
	other := &models.Event{UserID: "someone-else"}

	assert.True(t, CanDeleteEvent(organizer, own))
	assert.False(t, CanDeleteEvent(organizer, other))
	assert.True(t, CanDeleteEvent(userWith(auth.RoleAdmin), other))
}

func TestRandomTicketsAvailableRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		n := randomTicketsAvailable()
		assert.GreaterOrEqual(t, n, 100)
		assert.LessOrEqual(t, n, 900)
	}
}

func newTestEventService(events *fakeEventRepo) (EventService, *fakeDispatcher) {
	admin := userWith(auth.RoleAdmin)
	disp := &fakeDispatcher{}
	svc := NewEventService(events, newFakeUserRepo(admin), disp, fakeIngestor{})
	return svc, disp
}

func intPtr(n int) *int { return &n }

func TestCreateEvent_HonorsTicketsAvailable(t *testing.T) {
	events := newFakeEventRepo()
	svc, _ := newTestEventService(events)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateEventRequest{
		Title:            "Jazz Night",
		Location:         "Tallinn",
		TicketsAvailable: intPtr(250),
	})
	require.NoError(t, err)
	assert.Equal(t, 250, created.TicketsAvailable)

	stored, err := events.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, stored.TicketsAvailable)
}

func TestCreateEvent_ZeroTicketsIsNotOmitted(t *testing.T) {
	events := newFakeEventRepo()
	svc, _ := newTestEventService(events)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateEventRequest{
		Title:            "Sold Out Preview",
		Location:         "Tartu",
		TicketsAvailable: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.TicketsAvailable)
}

func TestCreateEvent_RandomStockWhenOmitted(t *testing.T) {
	events := newFakeEventRepo()
	svc, _ := newTestEventService(events)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateEventRequest{
		Title:    "Open Mic",
		Location: "Tallinn",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, created.TicketsAvailable, 100)
	assert.LessOrEqual(t, created.TicketsAvailable, 900)
}

func TestUpdateEvent_AppliesTicketsAvailable(t *testing.T) {
	events := newFakeEventRepo()
	svc, _ := newTestEventService(events)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateEventRequest{
		Title:            "Jazz Night",
		Location:         "Tallinn",
		TicketsAvailable: intPtr(500),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "user-1", created.ID, &dto.UpdateEventRequest{
		TicketsAvailable: intPtr(42),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.TicketsAvailable)

	// An update that omits the allocation leaves it untouched.
	title := "Jazz Night II"
	updated, err = svc.Update(context.Background(), "user-1", created.ID, &dto.UpdateEventRequest{
		Title: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.TicketsAvailable)
}

func TestCreateEvent_RemoteImageQueuesIngestion(t *testing.T) {
	events := newFakeEventRepo()
	svc, disp := newTestEventService(events)

	created, err := svc.Create(context.Background(), "user-1", &dto.CreateEventRequest{
		Title:    "Gallery Opening",
		Location: "Tallinn",
		ImageURL: "https://images.example.com/opening.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, disp.enqueued)
}
