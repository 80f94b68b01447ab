package zonefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

func TestDecode_DefaultsForAbsentParams(t *testing.T) {
	doc := `
zones:
  spawn:
    center:
      world: world
      x: 0.5
      y: 64
      z: -3
    shape: CIRCLE
    size: 10
    speed: 0.5
`
	zones, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, zones, 1)

	z := zones[0]
	assert.Equal(t, "spawn", z.Name())
	assert.Equal(t, model.NewLocation("world", 0.5, 64, -3), z.Center())
	assert.Equal(t, zone.ShapeCircle, z.Shape())
	assert.Equal(t, 10.0, z.Size())

	want := zone.DefaultParams()
	want.Speed = 0.5
	assert.Equal(t, want, z.Params())
}

func TestDecode_KeepsDocumentOrder(t *testing.T) {
	doc := `
zones:
  zeta: {center: {world: world, x: 0, y: 0, z: 0}, shape: SQUARE, size: 1}
  alpha: {center: {world: world, x: 0, y: 0, z: 0}, shape: CIRCLE, size: 2}
  mid: {center: {world: world, x: 0, y: 0, z: 0}, shape: square, size: 3}
`
	zones, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, zones, 3)
	assert.Equal(t, "zeta", zones[0].Name())
	assert.Equal(t, "alpha", zones[1].Name())
	assert.Equal(t, "mid", zones[2].Name())
}

func TestDecode_SkipsInvalidRecords(t *testing.T) {
	doc := `
zones:
  good: {center: {world: world, x: 0, y: 0, z: 0}, shape: CIRCLE, size: 5}
  badshape: {center: {world: world, x: 0, y: 0, z: 0}, shape: HEXAGON, size: 5}
  nosize: {center: {world: world, x: 0, y: 0, z: 0}, shape: CIRCLE}
  noworld: {center: {x: 0, y: 0, z: 0}, shape: CIRCLE, size: 5}
  frozen: {center: {world: world, x: 0, y: 0, z: 0}, shape: CIRCLE, size: 5, speed: 0}
  garbage: [1, 2, 3]
`
	zones, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "good", zones[0].Name())
}

func TestDecode_EmptyDocuments(t *testing.T) {
	for _, doc := range []string{"", "zones:\n", "other: 1\n"} {
		zones, err := Decode([]byte(doc))
		require.NoError(t, err, "doc %q", doc)
		assert.Empty(t, zones, "doc %q", doc)
	}

	_, err := Decode([]byte("- a\n- b\n"))
	assert.Error(t, err)
	_, err = Decode([]byte("zones: [1]\n"))
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "plugins", "zones.yml"))

	zones, err := s.LoadAll(ctx)
	require.NoError(t, err, "missing file is not an error")
	assert.Empty(t, zones)

	moon := zone.DefaultParams()
	moon.Gravity = 0.25
	moon.Jump = 2
	moon.StaminaDrain = 0.5
	a, err := zone.Restore("moon", model.NewLocation("world", 1.5, 70, -2.25), zone.ShapeCircle, 30, moon)
	require.NoError(t, err)
	b, err := zone.New("arena", model.NewLocation("nether", 0, 0, 0), zone.ShapeSquare, 4)
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(ctx, []zone.Zone{a, b}))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []zone.Zone{a, b}, got)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "shape: CIRCLE")
	assert.Contains(t, string(data), "stamina: 0.5")

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yml")
	require.NoError(t, os.WriteFile(path, []byte("zones: {\n"), 0o644))

	_, err := New(path).LoadAll(context.Background())
	assert.Error(t, err)
}
