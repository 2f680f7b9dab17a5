// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

// Package resolver locates where a user's media catalog lives, provisioning
// the missing structure transparently.
//
// There is no fixed location for "the movies container" on a pod: the
// resolver walks the user's private type index, looking for a registration
// that maps schema:Movie to an instance container. Resolution results,
// including "nothing registered", are memoized per user for the session so
// repeated lookups never refetch the index document.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/podtheca/podtheca/internal/logging"
	"github.com/podtheca/podtheca/internal/metrics"
	"github.com/podtheca/podtheca/internal/models"
	"github.com/podtheca/podtheca/internal/rdf"
	"github.com/podtheca/podtheca/internal/store"
)

// Documents is the persistence surface the resolver needs.
type Documents interface {
	Load(ctx context.Context, location string) (*rdf.Graph, error)
	Save(ctx context.Context, location string, triples []rdf.Triple) error
}

// Provisioner creates a new private type index document for a user whose
// profile declares none.
type Provisioner interface {
	CreatePrivateTypeIndex(ctx context.Context, identity *models.UserIdentity) (string, error)
}

// Config holds resolver configuration.
type Config struct {
	// Classes are the semantic classes registered when a container is
	// provisioned. The first entry is the class resolution targets.
	Classes []string

	// ContainerName is the display name given to a new container.
	ContainerName string

	// ContainerSlug is the path segment appended to the storage root when
	// creating the container.
	ContainerSlug string
}

// DefaultConfig registers movies and watch actions in a "movies/" container.
func DefaultConfig() Config {
	return Config{
		Classes:       []string{rdf.Movie, rdf.WatchAction},
		ContainerName: "Movies",
		ContainerSlug: "movies/",
	}
}

// resolution is one memoized outcome; found=false is the negative cache that
// avoids repeated index lookups within a session.
type resolution struct {
	container string
	found     bool
}

// Resolver finds or provisions the media container for a user.
type Resolver struct {
	docs        Documents
	provisioner Provisioner
	cfg         Config

	mu       sync.Mutex
	memo     map[string]resolution
	indexMu  sync.Mutex            // serializes index-document read-modify-write
	creating map[string]*sync.Mutex // per-identity creation locks
}

// New creates a resolver. A zero-value Config selects DefaultConfig.
func New(docs Documents, provisioner Provisioner, cfg Config) *Resolver {
	if len(cfg.Classes) == 0 {
		cfg = DefaultConfig()
	}
	return &Resolver{
		docs:        docs,
		provisioner: provisioner,
		cfg:         cfg,
		memo:        make(map[string]resolution),
		creating:    make(map[string]*sync.Mutex),
	}
}

// ResolveContainer returns the user's media container location, or "" when
// no type registration matches the target class. Resolution never creates a
// container; that is the caller's explicit follow-up via CreateContainer.
func (r *Resolver) ResolveContainer(ctx context.Context, identity *models.UserIdentity) (string, error) {
	r.mu.Lock()
	if res, ok := r.memo[identity.WebID]; ok {
		r.mu.Unlock()
		metrics.ResolverLookups.WithLabelValues("memoized").Inc()
		return res.container, nil
	}
	r.mu.Unlock()

	indexLocation, err := r.typeIndexLocation(ctx, identity)
	if err != nil {
		metrics.ResolverLookups.WithLabelValues("error").Inc()
		return "", err
	}

	g, err := r.docs.Load(ctx, indexLocation)
	if err != nil {
		metrics.ResolverLookups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("load type index %s: %w", indexLocation, err)
	}

	container := scanRegistrations(g, r.targetClass())

	r.mu.Lock()
	r.memo[identity.WebID] = resolution{container: container, found: container != ""}
	r.mu.Unlock()

	if container == "" {
		metrics.ResolverLookups.WithLabelValues("not_found").Inc()
		logging.Debug().Str("web_id", identity.WebID).Msg("No container registered for target class")
		return "", nil
	}

	metrics.ResolverLookups.WithLabelValues("found").Inc()
	logging.Debug().Str("web_id", identity.WebID).Str("container", container).Msg("Container resolved")
	return container, nil
}

// scanRegistrations finds the first registration subject declaring both a
// forClass triple for the target class and an instanceContainer. Document
// order is the tie-break; no further disambiguation.
func scanRegistrations(g *rdf.Graph, targetClass string) string {
	for _, st := range g.Statements("", rdf.ForClass, targetClass) {
		if inst, ok := g.Statement(st.Subject, rdf.InstanceContainer); ok {
			return inst.Object
		}
	}
	return ""
}

// CreateContainer provisions the media container in the user's first storage
// root, then mints one type registration per configured class into the index
// document, in parallel. A failed registration save is logged and left
// behind, not rolled back.
func (r *Resolver) CreateContainer(ctx context.Context, identity *models.UserIdentity) (string, error) {
	lock := r.creationLock(identity.WebID)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent call may have won the race while we waited.
	r.mu.Lock()
	if res, ok := r.memo[identity.WebID]; ok && res.found {
		r.mu.Unlock()
		return res.container, nil
	}
	r.mu.Unlock()

	if len(identity.StorageRoots) == 0 {
		return "", fmt.Errorf("identity %s has no storage roots", identity.WebID)
	}
	root := identity.StorageRoots[0]
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	containerURL := root + r.cfg.ContainerSlug

	if err := r.docs.Save(ctx, containerURL, store.TriplesForContainer(containerURL, r.cfg.ContainerName)); err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}

	indexLocation, err := r.typeIndexLocation(ctx, identity)
	if err != nil {
		return "", err
	}

	var wg sync.WaitGroup
	for _, class := range r.cfg.Classes {
		wg.Add(1)
		go func(class string) {
			defer wg.Done()
			reg := models.TypeRegistration{
				URL:               indexLocation + "#" + uuid.NewString(),
				ForClass:          class,
				InstanceContainer: containerURL,
			}
			if regErr := r.registerType(ctx, indexLocation, reg); regErr != nil {
				logging.Error().Err(regErr).
					Str("class", class).
					Str("index", indexLocation).
					Msg("Type registration save failed")
			}
		}(class)
	}
	wg.Wait()

	r.mu.Lock()
	r.memo[identity.WebID] = resolution{container: containerURL, found: true}
	r.mu.Unlock()

	metrics.ContainersCreated.Inc()
	logging.Info().Str("container", containerURL).Msg("Media container created")
	return containerURL, nil
}

// registerType appends a registration to the index document. The index
// read-modify-write is serialized in-process; concurrent writers from other
// processes remain last-write-wins.
func (r *Resolver) registerType(ctx context.Context, indexLocation string, reg models.TypeRegistration) error {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()

	existing, err := r.docs.Load(ctx, indexLocation)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	// Do not duplicate an authoritative (class, container) registration.
	for _, st := range existing.Statements("", rdf.ForClass, reg.ForClass) {
		if existing.Contains(st.Subject, rdf.InstanceContainer, reg.InstanceContainer) {
			return nil
		}
	}

	triples := append(existing.Triples(), store.TriplesForRegistration(reg)...)
	if err := r.docs.Save(ctx, indexLocation, triples); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// ContainerModified reads the container's modification time from its parent
// listing. An absent modified statement means the container document does
// not exist yet; that is not an error.
func (r *Resolver) ContainerModified(ctx context.Context, containerURL string) (time.Time, bool, error) {
	parent := store.ParentLocation(containerURL)
	if parent == "" {
		return time.Time{}, false, fmt.Errorf("container %s has no parent location", containerURL)
	}

	g, err := r.docs.Load(ctx, parent)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load parent listing %s: %w", parent, err)
	}

	st, ok := g.Statement(containerURL, rdf.ModifiedDC)
	if !ok {
		return time.Time{}, false, nil
	}

	modified, err := parseModified(st.Object)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("container %s: %w", containerURL, err)
	}
	return modified, true, nil
}

// Forget drops the memoized resolution for a user. Called at logout and
// after external catalog mutations.
func (r *Resolver) Forget(webID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memo, webID)
}

func (r *Resolver) targetClass() string {
	return r.cfg.Classes[0]
}

// typeIndexLocation returns the user's private type index, provisioning one
// when the identity declares none and caching the new location on the
// identity.
func (r *Resolver) typeIndexLocation(ctx context.Context, identity *models.UserIdentity) (string, error) {
	if identity.PrivateTypeIndex != "" {
		return identity.PrivateTypeIndex, nil
	}

	location, err := r.provisioner.CreatePrivateTypeIndex(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("provision type index: %w", err)
	}
	identity.PrivateTypeIndex = location

	logging.Info().Str("web_id", identity.WebID).Str("index", location).Msg("Private type index provisioned")
	return location, nil
}

func (r *Resolver) creationLock(webID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.creating[webID]
	if !ok {
		lock = &sync.Mutex{}
		r.creating[webID] = lock
	}
	return lock
}

func parseModified(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized modified timestamp %q", s)
}
