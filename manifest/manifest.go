// Package manifest models the input block of a module file: the source
// files, imported modules, and link libraries the module was built from.
// It is pure dependency data consumed by the build layer; the symbol
// graph codec never reads it.
package manifest

import (
	"fmt"
	"strings"

	"github.com/symgraph/symgraph/format"
	"github.com/symgraph/symgraph/internal/bcio"
)

// Import describes one imported module.
type Import struct {
	// Name is the imported module's name.
	Name string
	// AccessPath optionally restricts the import to a nested declaration
	// path within the module.
	AccessPath []string
	// Exported marks re-exported imports.
	Exported bool
}

// LinkLibrary describes one library the consumer must link against.
type LinkLibrary struct {
	Kind format.LibraryKind
	Name string
}

// Manifest is the ordered dependency list of a module.
type Manifest struct {
	SourceFiles []string
	Imports     []Import
	Libraries   []LinkLibrary
}

// WriteBlock emits the input block onto w.
func (m *Manifest) WriteBlock(w *bcio.Writer) {
	w.BeginBlock(uint64(format.InputBlockID))
	for _, path := range m.SourceFiles {
		w.WriteRecord(bcio.Record{
			Kind: format.InputSourceFileCode,
			Blob: []byte(path),
		})
	}
	for _, imp := range m.Imports {
		// The blob is the module name, optionally followed by a NUL and
		// the dot-joined access path.
		blob := imp.Name
		if len(imp.AccessPath) > 0 {
			blob += "\x00" + strings.Join(imp.AccessPath, ".")
		}
		exported := uint64(0)
		if imp.Exported {
			exported = 1
		}
		w.WriteRecord(bcio.Record{
			Kind:    format.InputImportedModuleCode,
			Scalars: []uint64{exported},
			Blob:    []byte(blob),
		})
	}
	for _, lib := range m.Libraries {
		w.WriteRecord(bcio.Record{
			Kind:    format.InputLinkLibraryCode,
			Scalars: []uint64{uint64(lib.Kind)},
			Blob:    []byte(lib.Name),
		})
	}
	w.EndBlock()
}

// ReadBlock decodes an input block.
func ReadBlock(b *bcio.Block) (*Manifest, error) {
	m := &Manifest{}
	cur := b.Cursor()
	for !cur.AtEnd() {
		rec, err := cur.NextRecord()
		if err != nil {
			return nil, err
		}
		switch rec.Kind {
		case format.InputSourceFileCode:
			m.SourceFiles = append(m.SourceFiles, string(rec.Blob))
		case format.InputImportedModuleCode:
			imp := Import{Exported: rec.Scalar(0) != 0}
			name, path, ok := strings.Cut(string(rec.Blob), "\x00")
			imp.Name = name
			if ok && path != "" {
				imp.AccessPath = strings.Split(path, ".")
			}
			m.Imports = append(m.Imports, imp)
		case format.InputLinkLibraryCode:
			kind := format.LibraryKind(rec.Scalar(0))
			if !kind.IsValid() {
				return nil, fmt.Errorf("unknown library kind %d", rec.Scalar(0))
			}
			m.Libraries = append(m.Libraries, LinkLibrary{Kind: kind, Name: string(rec.Blob)})
		default:
			// Record codes from a newer minor version are skipped.
		}
	}
	return m, nil
}
