// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ar_navigator/internal/geodesy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "places.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreAddGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	added, err := s.Add(ctx, Place{Name: "Marina", Type: "harbour", Phone: "+48 58 000", Location: geodesy.Point(54.35, 18.66)})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	byName, err := s.FindByName(ctx, "Marina")
	require.NoError(t, err)
	assert.Equal(t, added.ID, byName.ID)

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.FindByName(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreAddReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.Add(ctx, Place{ID: "fixed", Name: "Old", Location: geodesy.Point(1, 1)})
	require.NoError(t, err)
	p.Name = "New"
	_, err = s.Add(ctx, p)
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].Name)
}

func TestStoreRejectsInvalidLocation(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Add(context.Background(), Place{Name: "Nowhere", Location: geodesy.Point(0, 200)})
	assert.Error(t, err)
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, name := range []string{"Pier", "Crane", "Lighthouse"} {
		_, err := s.Add(ctx, Place{ID: name, Name: name, Location: geodesy.Point(54.35, 18.65)})
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range all {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Crane", "Lighthouse", "Pier"}, names)

	require.NoError(t, s.Delete(ctx, "Crane"))
	err = s.Delete(ctx, "Crane")
	assert.True(t, errors.Is(err, ErrNotFound))

	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStoreNearby(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seed := []Place{
		{ID: "north", Name: "North", Location: geodesy.Point(54.351, 18.65)}, // ~111 m
		{ID: "east", Name: "East", Location: geodesy.Point(54.35, 18.652)},   // ~130 m
		{ID: "far", Name: "Far", Location: geodesy.Point(54.36, 18.65)},      // ~1112 m
		{ID: "other", Name: "Other", Location: geodesy.Point(-33.86, 151.2)},
	}
	for _, p := range seed {
		_, err := s.Add(ctx, p)
		require.NoError(t, err)
	}

	got, err := s.Nearby(ctx, device, 120)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "north", got[0].ID)

	got, err = s.Nearby(ctx, device, 2000)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
