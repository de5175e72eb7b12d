package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eventfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests. It enforces slug
// uniqueness on commit the way the real unique index does.
type fakeEventRepo struct {
	byID       map[string]*domain.Event
	nextID     int
	createErrs []error // queued errors returned by Create before normal behavior
	listErr    error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) popCreateErr() error {
	if len(f.createErrs) == 0 {
		return nil
	}
	err := f.createErrs[0]
	f.createErrs = f.createErrs[1:]
	return err
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if err := f.popCreateErr(); err != nil {
		return err
	}
	for _, other := range f.byID {
		if other.Slug == e.Slug {
			return domain.ErrSlugTaken
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	for _, e := range f.byID {
		if e.Slug == slug {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, other := range f.byID {
		if id != e.ID && other.Slug == e.Slug {
			return domain.ErrSlugTaken
		}
	}
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) SlugInUse(ctx context.Context, slug, excludeID string) (bool, error) {
	for id, e := range f.byID {
		if e.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepo) ListSimilarByTags(ctx context.Context, eventID string, tags []string) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}
	var out []*domain.Event
	for id, e := range f.byID {
		if id == eventID {
			continue
		}
		for _, tag := range e.Tags {
			if _, ok := wanted[tag]; ok {
				copied := *e
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func validEvent(title string) *domain.Event {
	return &domain.Event{
		Title:       title,
		Description: "A conference",
		Overview:    "Talks and workshops",
		Image:       "https://cdn.example.com/img.png",
		Venue:       "Main Hall",
		Location:    "Berlin",
		Date:        "May 15 2026",
		Time:        "9:00 AM",
		Mode:        "in-person",
		Audience:    "developers",
		Agenda:      []string{"Opening", "Keynote"},
		Organizer:   "ACME",
		Tags:        []string{"go", "backend"},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and assigns slug", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		event := validEvent("  Node Conf!  ")
		require.NoError(t, svc.CreateEvent(ctx, event))

		assert.Equal(t, "Node Conf!", event.Title)
		assert.Equal(t, "node-conf", event.Slug)
		assert.Equal(t, "2026-05-15", event.Date)
		assert.Equal(t, "09:00", event.Time)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())

		stored, err := repo.GetBySlug(ctx, "node-conf")
		require.NoError(t, err)
		assert.Equal(t, event.ID, stored.ID)
	})

	t.Run("colliding titles get numeric suffixes", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		first := validEvent("Node Conf")
		second := validEvent("Node. Conf")
		third := validEvent("node conf")
		require.NoError(t, svc.CreateEvent(ctx, first))
		require.NoError(t, svc.CreateEvent(ctx, second))
		require.NoError(t, svc.CreateEvent(ctx, third))

		assert.Equal(t, "node-conf", first.Slug)
		assert.Equal(t, "node-conf-1", second.Slug)
		assert.Equal(t, "node-conf-2", third.Slug)
	})

	t.Run("invalid time fails and persists nothing", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		event := validEvent("Node Conf")
		event.Time = "13:00 AM"
		err := svc.CreateEvent(ctx, event)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, repo.byID)
	})

	t.Run("invalid date fails", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		event := validEvent("Node Conf")
		event.Date = "not-a-date"
		err := svc.CreateEvent(ctx, event)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("empty tags fail", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		event := validEvent("Node Conf")
		event.Tags = []string{"  ", ""}
		err := svc.CreateEvent(ctx, event)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("retries after losing the slug race", func(t *testing.T) {
		repo := newFakeEventRepo()
		// The store rejects the first commit as if a concurrent writer claimed
		// the slug between probe and commit.
		repo.createErrs = []error{domain.ErrSlugTaken}
		svc := NewEventService(repo, time.Second)

		event := validEvent("Node Conf")
		require.NoError(t, svc.CreateEvent(ctx, event))
		assert.Len(t, repo.byID, 1)
	})

	t.Run("surfaces conflict when retries are exhausted", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErrs = []error{domain.ErrSlugTaken, domain.ErrSlugTaken, domain.ErrSlugTaken}
		svc := NewEventService(repo, time.Second)

		err := svc.CreateEvent(ctx, validEvent("Node Conf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErrs = []error{errors.New("connection reset")}
		svc := NewEventService(repo, time.Second)

		err := svc.CreateEvent(ctx, validEvent("Node Conf"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrSlugTaken)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeEventRepo, domain.EventService, *domain.Event) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)
		event := validEvent("Node Conf")
		require.NoError(t, svc.CreateEvent(ctx, event))
		return repo, svc, event
	}

	strptr := func(s string) *string { return &s }

	t.Run("unchanged title keeps the slug", func(t *testing.T) {
		_, svc, event := setup(t)
		updated, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Title: strptr("Node Conf"),
			Venue: strptr("Hall B"),
		})
		require.NoError(t, err)
		assert.Equal(t, "node-conf", updated.Slug)
		assert.Equal(t, "Hall B", updated.Venue)
	})

	t.Run("changed title re-derives the slug", func(t *testing.T) {
		repo, svc, event := setup(t)
		updated, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Title: strptr("Go Conf"),
		})
		require.NoError(t, err)
		assert.Equal(t, "go-conf", updated.Slug)

		_, err = repo.GetBySlug(ctx, "node-conf")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("re-derivation excludes the event itself", func(t *testing.T) {
		// A title change that derives back to the current slug must not pick
		// up a suffix because of its own row.
		_, svc, event := setup(t)
		updated, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Title: strptr("NODE CONF"),
		})
		require.NoError(t, err)
		assert.Equal(t, "node-conf", updated.Slug)
	})

	t.Run("date and time re-normalized when supplied", func(t *testing.T) {
		_, svc, event := setup(t)
		updated, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Date: strptr("June 1, 2026"),
			Time: strptr("6:30 pm"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-06-01", updated.Date)
		assert.Equal(t, "18:30", updated.Time)
	})

	t.Run("invalid time rejected", func(t *testing.T) {
		_, svc, event := setup(t)
		_, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Time: strptr("25:00"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("empty agenda rejected", func(t *testing.T) {
		_, svc, event := setup(t)
		_, err := svc.UpdateEvent(ctx, event.Slug, domain.EventUpdate{
			Agenda: []string{"", " "},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, svc, _ := setup(t)
		_, err := svc.UpdateEvent(ctx, "missing", domain.EventUpdate{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_SimilarEvents(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc domain.EventService, title string, tags []string) *domain.Event {
		t.Helper()
		event := validEvent(title)
		event.Tags = tags
		require.NoError(t, svc.CreateEvent(ctx, event))
		return event
	}

	t.Run("returns only events sharing a tag", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		source := seed(t, svc, "React Summit", []string{"react", "frontend"})
		match := seed(t, svc, "JS Days", []string{"react"})
		seed(t, svc, "Rust Camp", []string{"rust"})

		similar, err := svc.SimilarEvents(ctx, source.Slug)
		require.NoError(t, err)
		require.Len(t, similar, 1)
		assert.Equal(t, match.ID, similar[0].ID)
	})

	t.Run("unknown slug is reported, not swallowed", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		_, err := svc.SimilarEvents(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store errors are reported", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)
		event := seed(t, svc, "React Summit", []string{"react"})
		repo.listErr = errors.New("connection reset")

		_, err := svc.SimilarEvents(ctx, event.Slug)
		require.Error(t, err)
	})
}
