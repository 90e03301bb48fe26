// ABOUTME: Store composing every entity slice around one backend client
// ABOUTME: Fans out events to subscribers, the activity recorder and the snapshot cache
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harperreed/crmdesk/api"
	"github.com/harperreed/crmdesk/logging"
	"github.com/harperreed/crmdesk/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Slice names used in events, cache keys and the activity log.
const (
	SliceContacts   = "contacts"
	SliceLeads      = "leads"
	SliceLocations  = "locations"
	SliceProperties = "properties"
	SliceRoles      = "roles"
	SliceUsers      = "users"
)

// SliceNames lists every slice in display order.
var SliceNames = []string{SliceContacts, SliceLeads, SliceProperties, SliceLocations, SliceUsers, SliceRoles}

// Backend is the subset of the HTTP client the store needs.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

// Recorder persists settled operations.
type Recorder interface {
	Record(ev Event) error
}

// Cache persists fetched lists between runs.
type Cache interface {
	Save(name string, v any) error
	// Load decodes the snapshot into v and reports whether one existed.
	Load(name string, v any) (bool, error)
}

// Store is the application context holding every slice.
type Store struct {
	Contacts   *Slice[models.Contact]
	Leads      *Slice[models.Lead]
	Locations  *Slice[models.Location]
	Properties *Slice[models.Property]
	Roles      *Slice[models.Role]
	Users      *Slice[models.User]

	client   Backend
	logger   logrus.FieldLogger
	cache    Cache
	recorder Recorder

	subMu   sync.RWMutex
	subs    map[int]func(Event)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithCache persists every fulfilled fetch and enables Hydrate.
func WithCache(c Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithRecorder records every settled operation.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// New builds a store around client.
func New(client Backend, opts ...Option) *Store {
	discard := logging.Discard()

	s := &Store{
		client: client,
		logger: discard,
		subs:   make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Contacts = newStoreSlice[models.Contact](s, SliceContacts)
	s.Leads = newStoreSlice[models.Lead](s, SliceLeads)
	s.Locations = newStoreSlice[models.Location](s, SliceLocations)
	s.Properties = newStoreSlice[models.Property](s, SliceProperties)
	s.Roles = newStoreSlice[models.Role](s, SliceRoles)
	s.Users = newStoreSlice[models.User](s, SliceUsers)
	return s
}

func newStoreSlice[T models.Entity](s *Store, name string) *Slice[T] {
	sl := newSlice[T](name, s.publish)
	if s.cache != nil {
		sl.persist = func(list []T) {
			if err := s.cache.Save(name, list); err != nil {
				s.logger.WithError(err).WithField("slice", name).Warn("failed to save snapshot")
			}
		}
	}
	return sl
}

// Subscribe registers fn for every event. The returned func unsubscribes.
// fn runs synchronously on the goroutine that changed the state.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(ev Event) {
	entry := s.logger.WithFields(logrus.Fields{
		"slice": ev.Slice,
		"op":    ev.Op,
		"phase": ev.Phase,
	})
	if ev.ID != 0 {
		entry = entry.WithField("id", ev.ID)
	}
	if ev.Err != nil {
		entry.WithError(ev.Err).Debug("operation failed")
	} else {
		entry.Debug("operation")
	}

	if s.recorder != nil && ev.Settled() {
		if err := s.recorder.Record(ev); err != nil {
			s.logger.WithError(err).Warn("failed to record activity")
		}
	}

	s.subMu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// FetchAll fetches every slice concurrently. Each slice records its own
// error; the first error is returned.
func (s *Store) FetchAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.FetchContacts(ctx) })
	g.Go(func() error { return s.FetchLeads(ctx) })
	g.Go(func() error { return s.FetchLocations(ctx) })
	g.Go(func() error { return s.FetchProperties(ctx) })
	g.Go(func() error { return s.FetchRoles(ctx) })
	g.Go(func() error { return s.FetchUsers(ctx) })
	return g.Wait()
}

// Hydrate loads cached snapshots into slices that are still empty.
func (s *Store) Hydrate() error {
	if s.cache == nil {
		return nil
	}
	for _, err := range []error{
		hydrateSlice(s, s.Contacts),
		hydrateSlice(s, s.Leads),
		hydrateSlice(s, s.Locations),
		hydrateSlice(s, s.Properties),
		hydrateSlice(s, s.Roles),
		hydrateSlice(s, s.Users),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func hydrateSlice[T models.Entity](s *Store, sl *Slice[T]) error {
	var list []T
	found, err := s.cache.Load(sl.Name(), &list)
	if err != nil {
		return fmt.Errorf("failed to load %s snapshot: %w", sl.Name(), err)
	}
	if found && sl.hydrate(list) {
		s.logger.WithField("slice", sl.Name()).WithField("count", len(list)).Debug("hydrated from snapshot")
	}
	return nil
}

// fetchList GETs path and decodes the collection named key.
func fetchList[T models.Entity](ctx context.Context, client Backend, path, key string, normalize func(*T)) ([]T, error) {
	var raw json.RawMessage
	if err := client.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	list, err := api.DecodeList[T](raw, key)
	if err != nil {
		return nil, err
	}
	if normalize != nil {
		for i := range list {
			normalize(&list[i])
		}
	}
	return list, nil
}

// sendOne issues a POST or PATCH and decodes the returned record. ok is
// false when the backend answered with an empty body.
func sendOne[T models.Entity](ctx context.Context, client Backend, method, path, key string, body any, normalize func(*T)) (item T, ok bool, err error) {
	var raw json.RawMessage
	switch method {
	case "POST":
		err = client.Post(ctx, path, body, &raw)
	case "PATCH":
		err = client.Patch(ctx, path, body, &raw)
	default:
		err = fmt.Errorf("unsupported method %s", method)
	}
	if err != nil {
		return item, false, err
	}
	if len(raw) == 0 {
		return item, false, nil
	}

	item, err = api.DecodeOne[T](raw, key)
	if err != nil {
		return item, false, err
	}
	if normalize != nil {
		normalize(&item)
	}
	return item, true, nil
}

// createEntity appends the created record. Callers validate the payload first.
func createEntity[T models.Entity](ctx context.Context, s *Store, sl *Slice[T], path, key string, body any, normalize func(*T)) (T, error) {
	var created T
	err := sl.mutate(ctx, OpCreate, 0, func(ctx context.Context) (func([]T) []T, int64, error) {
		item, ok, err := sendOne(ctx, s.client, "POST", path, key, body, normalize)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, 0, fmt.Errorf("failed to create %s: empty response", key)
		}
		created = item
		return appendEntity(item), item.EntityID(), nil
	})
	return created, err
}

// updateEntity PATCHes body and replaces the record in place. An empty body
// sends nothing and returns the loaded record; an empty response keeps it.
func updateEntity[T models.Entity](ctx context.Context, s *Store, sl *Slice[T], id int64, path, key string, body any, normalize func(*T)) (T, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to encode %s update: %w", key, err)
	}
	if string(encoded) == "{}" {
		current, _ := sl.Find(id)
		return current, nil
	}

	var updated T
	err = sl.mutate(ctx, OpUpdate, id, func(ctx context.Context) (func([]T) []T, int64, error) {
		item, ok, err := sendOne(ctx, s.client, "PATCH", path, key, body, normalize)
		if err != nil {
			return nil, id, err
		}
		if !ok {
			updated, _ = sl.Find(id)
			return nil, id, nil
		}
		updated = item
		return replaceEntity(id, item), id, nil
	})
	return updated, err
}

// softDelete PATCHes {"status":"deleted"} and drops the record locally.
func softDelete[T models.Entity](ctx context.Context, s *Store, sl *Slice[T], id int64, path string) error {
	return sl.mutate(ctx, OpDelete, id, func(ctx context.Context) (func([]T) []T, int64, error) {
		if err := s.client.Patch(ctx, path, models.NewSoftDelete(), nil); err != nil {
			return nil, id, err
		}
		return removeEntity[T](id), id, nil
	})
}

// PropertiesWithLocations joins each property with the currently loaded
// location list. Unresolved references yield a nil Location.
func (s *Store) PropertiesWithLocations() []models.PropertyWithLocation {
	props := s.Properties.List()
	locations := s.Locations.List()

	byID := make(map[int64]models.Location, len(locations))
	for _, l := range locations {
		byID[l.ID] = l
	}

	out := make([]models.PropertyWithLocation, 0, len(props))
	for _, p := range props {
		joined := models.PropertyWithLocation{Property: p}
		if p.LocationID != nil {
			if l, ok := byID[*p.LocationID]; ok {
				loc := l
				joined.Location = &loc
			}
		}
		out = append(out, joined)
	}
	return out
}

// ResolveLocation returns the loaded location with id, or nil.
func (s *Store) ResolveLocation(id int64) *models.Location {
	l, ok := s.Locations.Find(id)
	if !ok {
		return nil
	}
	return &l
}
