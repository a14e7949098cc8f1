package symgraph_test

import (
	"context"
	"fmt"
	"log"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/blobstore"
	"github.com/symgraph/symgraph/graph"
)

func Example() {
	ctx := context.Background()

	point := &graph.StructDecl{DeclBase: graph.DeclBase{Name: "Point"}}
	mod := &graph.Module{
		Name:     "geometry",
		TopLevel: []graph.Decl{point},
	}

	sess := symgraph.NewSession(blobstore.NewMemoryStore())
	if err := sess.Save(ctx, mod); err != nil {
		log.Fatal(err)
	}

	loaded, err := sess.Load(ctx, "geometry")
	if err != nil {
		log.Fatal(err)
	}

	decl, err := loaded.LookupTopLevel("Point")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(decl.Base().Name)
	// Output: Point
}
