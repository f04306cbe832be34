package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/graphloom/pkg/graph"
)

func ExampleWritePlain() {
	g := graph.New(true)
	_ = g.AddNode(graph.Node{ID: "alice", Attributes: graph.Attributes{"age": int64(30)}})
	_ = g.AddNode(graph.Node{ID: "bob", Label: "Bob"})
	_, _ = g.AddEdge(graph.Edge{Source: "alice", Target: "bob", Weight: 1, Directed: true})

	var buf bytes.Buffer
	if err := graph.WritePlain(g.ToPlain(), &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "directed": true,
	//   "nodes": [
	//     {
	//       "id": "alice",
	//       "label": "alice",
	//       "attributes": {
	//         "age": 30
	//       }
	//     },
	//     {
	//       "id": "bob",
	//       "label": "Bob",
	//       "attributes": {}
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "1",
	//       "source": "alice",
	//       "target": "bob",
	//       "weight": 1,
	//       "directed": true,
	//       "attributes": {}
	//     }
	//   ]
	// }
}

func ExampleGraph_Roots() {
	g := graph.New(true)
	for _, id := range []string{"app", "lib", "util"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_, _ = g.AddEdge(graph.Edge{Source: "app", Target: "lib"})
	_, _ = g.AddEdge(graph.Edge{Source: "lib", Target: "util"})

	fmt.Println("roots:", g.Roots())
	fmt.Println("children of app:", g.Children("app"))
	// Output:
	// roots: [app]
	// children of app: [lib]
}
