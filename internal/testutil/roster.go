package testutil

import (
	"context"
	"fmt"

	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/service"
)

// Roster is the set of builders seeded into a test database.
type Roster []model.Builder

// Find returns the builder with id, or nil.
func (r Roster) Find(id string) *model.Builder {
	for i := range r {
		if r[i].ID == id {
			return &r[i]
		}
	}
	return nil
}

// IDs returns the builder IDs in seed order.
func (r Roster) IDs() []string {
	ids := make([]string, len(r))
	for i, b := range r {
		ids[i] = b.ID
	}
	return ids
}

// RosterBuilder collects builders to seed, in the order they were added.
type RosterBuilder struct {
	builders []model.Builder
	seen     map[string]struct{}
}

// NewRoster starts an empty roster.
func NewRoster() *RosterBuilder {
	return &RosterBuilder{seen: make(map[string]struct{})}
}

// WithBuilders adds active builders named "Builder <id>".
func (b *RosterBuilder) WithBuilders(ids ...string) *RosterBuilder {
	for _, id := range ids {
		b.add(model.Builder{ID: id, Name: "Builder " + id, Active: true})
	}
	return b
}

// WithInactive adds deactivated builders.
func (b *RosterBuilder) WithInactive(ids ...string) *RosterBuilder {
	for _, id := range ids {
		b.add(model.Builder{ID: id, Name: "Builder " + id})
	}
	return b
}

// WithBuilder adds a fully specified builder.
func (b *RosterBuilder) WithBuilder(builder model.Builder) *RosterBuilder {
	b.add(builder)
	return b
}

func (b *RosterBuilder) add(builder model.Builder) {
	if _, ok := b.seen[builder.ID]; ok {
		return
	}
	b.seen[builder.ID] = struct{}{}
	b.builders = append(b.builders, builder)
}

// Build creates every builder in store and returns them as stored.
func (b *RosterBuilder) Build(ctx context.Context, store service.Storage) (Roster, error) {
	out := make(Roster, 0, len(b.builders))
	for _, builder := range b.builders {
		builder := builder
		if err := store.CreateBuilder(ctx, &builder); err != nil {
			return nil, fmt.Errorf("failed to create builder %q: %w", builder.ID, err)
		}
		out = append(out, builder)
	}
	return out, nil
}
