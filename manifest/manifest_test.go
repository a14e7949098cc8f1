package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/internal/bcio"
)

func TestRoundTrip(t *testing.T) {
	in := &Manifest{
		SourceFiles: []string{"geometry/point.src", "geometry/line.src"},
		Imports: []Import{
			{Name: "Core", Exported: true},
			{Name: "Math", AccessPath: []string{"Trig", "sin"}},
		},
		Libraries: []LinkLibrary{
			{Kind: format.DynamicLibrary, Name: "m"},
			{Kind: format.StaticLibrary, Name: "geomsupport"},
		},
	}

	w := bcio.NewWriter()
	in.WriteBlock(w)

	item, err := bcio.TopLevel(w.Bytes()).Next()
	require.NoError(t, err)
	require.NotNil(t, item.Block)
	require.Equal(t, uint64(format.InputBlockID), item.Block.ID)

	out, err := ReadBlock(item.Block)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestEmpty(t *testing.T) {
	w := bcio.NewWriter()
	(&Manifest{}).WriteBlock(w)

	item, err := bcio.TopLevel(w.Bytes()).Next()
	require.NoError(t, err)

	out, err := ReadBlock(item.Block)
	require.NoError(t, err)
	require.Empty(t, out.SourceFiles)
	require.Empty(t, out.Imports)
	require.Empty(t, out.Libraries)
}

func TestUnknownLibraryKindRejected(t *testing.T) {
	w := bcio.NewWriter()
	w.BeginBlock(uint64(format.InputBlockID))
	w.WriteRecord(bcio.Record{
		Kind:    format.InputLinkLibraryCode,
		Scalars: []uint64{99},
		Blob:    []byte("zlib"),
	})
	w.EndBlock()

	item, err := bcio.TopLevel(w.Bytes()).Next()
	require.NoError(t, err)
	_, err = ReadBlock(item.Block)
	require.Error(t, err)
}
