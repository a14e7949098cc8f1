package symgraph

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/symgraph/symgraph/blobstore"
	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/graph"
	"github.com/symgraph/symgraph/serial"
)

// geometryModule exports a Point struct with one stored member.
func geometryModule() *graph.Module {
	point := &graph.StructDecl{DeclBase: graph.DeclBase{Name: "Point"}}
	x := &graph.VarDecl{
		DeclBase: graph.DeclBase{Name: "x", Context: point},
		Type:     &graph.NominalType{Decl: point},
	}
	point.Members = []graph.Decl{x}

	return &graph.Module{
		Name:     "geometry",
		TopLevel: []graph.Decl{point},
	}
}

// appModule refers to geometry.Point without containing it.
func appModule() *graph.Module {
	foreignPoint := &graph.StructDecl{
		DeclBase: graph.DeclBase{Name: "Point", Module: "geometry"},
	}
	origin := &graph.VarDecl{
		DeclBase: graph.DeclBase{Name: "origin"},
		Type:     &graph.NominalType{Decl: foreignPoint},
	}

	return &graph.Module{
		Name:     "app",
		TopLevel: []graph.Decl{origin},
	}
}

func TestSessionSaveLoad(t *testing.T) {
	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())

	require.NoError(t, sess.Save(ctx, geometryModule()))

	m, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)

	point, err := m.LookupTopLevel("Point")
	require.NoError(t, err)
	assert.Equal(t, "Point", point.Base().Name)
}

func TestSessionCachesModules(t *testing.T) {
	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())

	require.NoError(t, sess.Save(ctx, geometryModule()))

	first, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)
	second, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSessionModuleNotFound(t *testing.T) {
	sess := NewSession(blobstore.NewMemoryStore())

	_, err := sess.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestSessionCrossModule(t *testing.T) {
	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())

	require.NoError(t, sess.Save(ctx, geometryModule()))
	require.NoError(t, sess.Save(ctx, appModule()))

	app, err := sess.Load(ctx, "app")
	require.NoError(t, err)

	origin, err := app.LookupTopLevel("origin")
	require.NoError(t, err)

	// Decoding origin's type pulls geometry in on demand.
	nominal, ok := origin.(*graph.VarDecl).Type.(*graph.NominalType)
	require.True(t, ok)
	assert.Equal(t, "Point", nominal.Decl.Base().Name)
	assert.ElementsMatch(t, []string{"app", "geometry"}, sess.Modules())

	// The reference lands on the same node geometry's own lookup yields.
	geometry, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)
	point, err := geometry.LookupTopLevel("Point")
	require.NoError(t, err)
	assert.Same(t, point, nominal.Decl)
}

func TestSessionPreloadAndList(t *testing.T) {
	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())

	require.NoError(t, sess.Save(ctx, geometryModule()))
	require.NoError(t, sess.Save(ctx, appModule()))

	names, err := sess.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app", "geometry"}, names)

	require.NoError(t, sess.Preload(ctx, "app", "geometry"))
	assert.ElementsMatch(t, []string{"app", "geometry"}, sess.Modules())
}

func TestSessionInvalidateOnSave(t *testing.T) {
	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())

	require.NoError(t, sess.Save(ctx, geometryModule()))
	before, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)

	require.NoError(t, sess.Save(ctx, geometryModule()))
	after, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
}

func TestCyclicForceDeserialization(t *testing.T) {
	// Two modules that each force-decode a reference into the other. The
	// second load reaches back into the first while it is still loading
	// and must receive the in-progress handle.
	alpha := &graph.Module{Name: "alpha"}
	alphaAnchor := &graph.StructDecl{DeclBase: graph.DeclBase{Name: "AlphaAnchor"}}
	alpha.TopLevel = []graph.Decl{alphaAnchor}
	alpha.KnownConformances = map[format.KnownProtocol][]graph.Decl{
		format.ForceDeserialization: {
			&graph.StructDecl{DeclBase: graph.DeclBase{Name: "BetaAnchor", Module: "beta"}},
		},
	}

	beta := &graph.Module{Name: "beta"}
	betaAnchor := &graph.StructDecl{DeclBase: graph.DeclBase{Name: "BetaAnchor"}}
	beta.TopLevel = []graph.Decl{betaAnchor}
	beta.KnownConformances = map[format.KnownProtocol][]graph.Decl{
		format.ForceDeserialization: {
			&graph.StructDecl{DeclBase: graph.DeclBase{Name: "AlphaAnchor", Module: "alpha"}},
		},
	}

	ctx := context.Background()
	sess := NewSession(blobstore.NewMemoryStore())
	require.NoError(t, sess.Save(ctx, alpha))
	require.NoError(t, sess.Save(ctx, beta))

	loadedAlpha, err := sess.Load(ctx, "alpha")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, sess.Modules())

	// Alpha's forced entity resolves to beta's own node, and vice versa.
	loadedBeta, err := sess.Load(ctx, "beta")
	require.NoError(t, err)

	forced, err := loadedAlpha.KnownConforming(format.ForceDeserialization)
	require.NoError(t, err)
	require.Len(t, forced, 1)
	fromBeta, err := loadedBeta.LookupTopLevel("BetaAnchor")
	require.NoError(t, err)
	assert.Same(t, fromBeta, forced[0])

	forced, err = loadedBeta.KnownConforming(format.ForceDeserialization)
	require.NoError(t, err)
	require.Len(t, forced, 1)
	fromAlpha, err := loadedAlpha.LookupTopLevel("AlphaAnchor")
	require.NoError(t, err)
	assert.Same(t, fromAlpha, forced[0])
}

// slowStore delays Open so concurrent loads overlap.
type slowStore struct {
	blobstore.Store
	delay time.Duration
}

func (s *slowStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	time.Sleep(s.delay)
	return s.Store.Open(ctx, name)
}

func TestConcurrentLoadsShareModule(t *testing.T) {
	ctx := context.Background()
	base := blobstore.NewMemoryStore()

	seed := NewSession(base)
	require.NoError(t, seed.Save(ctx, geometryModule()))

	sess := NewSession(&slowStore{Store: base, delay: 50 * time.Millisecond})

	const loaders = 4
	results := make([]*serial.Module, loaders)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			m, err := sess.Load(ctx, "geometry")
			results[i] = m
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < loaders; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry"+ArtifactSuffix)

	require.NoError(t, SaveFile(path, geometryModule()))

	m, err := LoadFile(path)
	require.NoError(t, err)

	point, err := m.LookupTopLevel("Point")
	require.NoError(t, err)
	assert.Equal(t, "Point", point.Base().Name)
}

func TestLoadBytes(t *testing.T) {
	data, err := Encode(geometryModule())
	require.NoError(t, err)

	sess := NewSession(blobstore.NewMemoryStore())
	m, err := sess.LoadBytes("geometry", data)
	require.NoError(t, err)
	assert.Equal(t, 0, m.DecodedCount())
	assert.Equal(t, []string{"geometry"}, sess.Modules())
}

func TestMetricsCollection(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	sess := NewSession(blobstore.NewMemoryStore(), WithMetricsCollector(metrics))

	require.NoError(t, sess.Save(ctx, geometryModule()))
	_, err := sess.Load(ctx, "geometry")
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Positive(t, stats.SaveTotalBytes)
}
