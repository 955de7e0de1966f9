package visualizer

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/kinship"
	"github.com/pkg/errors"
)

// The HTML template for the D3.js family view
const d3Template = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Family of {{.RootName}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body {
            margin: 0;
            font-family: Arial, sans-serif;
        }
        #graph {
            width: 100%;
            height: 100vh;
            background-color: #f5f5f5;
        }
        .node {
            stroke: #fff;
            stroke-width: 1.5px;
        }
        .node.root {
            stroke: #000;
            stroke-width: 3px;
        }
        .link {
            stroke: #999;
            stroke-opacity: 0.6;
        }
        .link.spouse { stroke: #c0392b; }
        .link.ex_spouse { stroke: #c0392b; stroke-dasharray: 4 3; }
        .link.late_spouse { stroke: #7f8c8d; }
        .link.sibling { stroke: #2980b9; stroke-dasharray: 2 2; }
        .node-label {
            font-size: 10px;
            pointer-events: none;
        }
        .controls {
            position: absolute;
            top: 10px;
            left: 10px;
            background-color: rgba(255,255,255,0.8);
            padding: 10px;
            border-radius: 5px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
    </style>
</head>
<body>
    <div id="graph"></div>
    <div class="controls">
        <h3>Family of {{.RootName}}</h3>
        <p>People: {{.NodeCount}}, Links: {{.EdgeCount}}</p>
        <div>
            <label for="category-filter">Show:</label>
            <select id="category-filter">
                <option value="all">Everyone</option>
            </select>
        </div>
    </div>

    <script>
        const graphData = {{.GraphData}};

        const simulation = d3.forceSimulation(graphData.nodes)
            .force("link", d3.forceLink(graphData.edges).id(d => d.id).distance(90))
            .force("charge", d3.forceManyBody().strength(-300))
            .force("center", d3.forceCenter(window.innerWidth / 2, window.innerHeight / 2));

        const svg = d3.select("#graph")
            .append("svg")
            .attr("width", "100%")
            .attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => {
                g.attr("transform", event.transform);
            }));

        const g = svg.append("g");

        const categories = [...new Set(graphData.nodes.map(n => n.category))];
        const colorScale = d3.scaleOrdinal(d3.schemeCategory10).domain(categories);

        categories.forEach(c => {
            d3.select("#category-filter")
                .append("option")
                .attr("value", c)
                .text(c);
        });

        const link = g.append("g")
            .selectAll("line")
            .data(graphData.edges)
            .enter()
            .append("line")
            .attr("class", d => "link " + d.type)
            .attr("stroke-width", d => d.type === "parent" ? 2 : 1.5);

        const node = g.append("g")
            .selectAll("circle")
            .data(graphData.nodes)
            .enter()
            .append("circle")
            .attr("class", d => d.id === graphData.root_id ? "node root" : "node")
            .attr("r", d => d.id === graphData.root_id ? 11 : 8)
            .attr("fill", d => colorScale(d.category))
            .call(d3.drag()
                .on("start", dragstarted)
                .on("drag", dragged)
                .on("end", dragended));

        const label = g.append("g")
            .selectAll("text")
            .data(graphData.nodes)
            .enter()
            .append("text")
            .attr("class", "node-label")
            .attr("dx", 12)
            .attr("dy", ".35em")
            .text(d => d.name + " (" + d.label + ")");

        node.append("title")
            .text(d => d.name + ": " + d.label);

        link.append("title")
            .text(d => d.type);

        simulation.on("tick", () => {
            link
                .attr("x1", d => d.source.x)
                .attr("y1", d => d.source.y)
                .attr("x2", d => d.target.x)
                .attr("y2", d => d.target.y);

            node
                .attr("cx", d => d.x)
                .attr("cy", d => d.y);

            label
                .attr("x", d => d.x)
                .attr("y", d => d.y);
        });

        d3.select("#category-filter").on("change", function() {
            const selected = this.value;
            const visible = d => selected === "all" || d.category === selected || d.id === graphData.root_id;

            node.style("visibility", d => visible(d) ? "visible" : "hidden");
            label.style("visibility", d => visible(d) ? "visible" : "hidden");
            link.style("visibility", d => visible(d.source) && visible(d.target) ? "visible" : "hidden");
        });

        function dragstarted(event, d) {
            if (!event.active) simulation.alphaTarget(0.3).restart();
            d.fx = d.x;
            d.fy = d.y;
        }

        function dragged(event, d) {
            d.fx = event.x;
            d.fy = event.y;
        }

        function dragended(event, d) {
            if (!event.active) simulation.alphaTarget(0);
            d.fx = null;
            d.fy = null;
        }
    </script>
</body>
</html>
`

// Node is one person as drawn, labelled relative to the root
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Gender   string `json:"gender"`
}

// Edge is one indexed link. Type is parent (source is the parent), spouse,
// late_spouse, ex_spouse or sibling.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// FamilyView is the data handed to the template
type FamilyView struct {
	RootID string `json:"root_id"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

// NewFamilyView labels everyone in snap relative to rootID and collects the
// indexed links. Spouse and sibling links appear once per pair.
func NewFamilyView(snap *kinship.Snapshot, rootID string) (*FamilyView, error) {
	ix := snap.Index()
	if !ix.Has(rootID) {
		return nil, errors.Wrapf(graph.ErrPersonNotFound, "root %q", rootID)
	}

	view := &FamilyView{RootID: rootID}
	for _, p := range ix.People() {
		rel := snap.Relation(p.ID, rootID)
		view.Nodes = append(view.Nodes, Node{
			ID:       p.ID,
			Name:     p.DisplayName(),
			Label:    snap.Resolve(p.ID, rootID),
			Category: rel.Category.String(),
			Gender:   string(p.Gender),
		})

		for _, child := range graph.Sorted(ix.Children(p.ID)) {
			view.Edges = append(view.Edges, Edge{Source: p.ID, Target: child, Type: "parent"})
		}
		pairs := []struct {
			ids  []string
			kind string
		}{
			{graph.Sorted(ix.CurrentSpouses(p.ID)), "spouse"},
			{graph.Sorted(ix.DeceasedSpouses(p.ID)), "late_spouse"},
			{graph.Sorted(ix.ExSpouses(p.ID)), "ex_spouse"},
			{graph.Sorted(ix.DeclaredSiblings(p.ID)), "sibling"},
		}
		for _, pair := range pairs {
			for _, other := range pair.ids {
				if p.ID < other {
					view.Edges = append(view.Edges, Edge{Source: p.ID, Target: other, Type: pair.kind})
				}
			}
		}
	}
	return view, nil
}

// D3Visualizer renders family views as standalone D3.js HTML pages
type D3Visualizer struct {
	outputPath string
}

// NewD3Visualizer creates a new D3.js visualizer
func NewD3Visualizer(outputPath string) *D3Visualizer {
	return &D3Visualizer{
		outputPath: outputPath,
	}
}

// Render writes the HTML page for view to buf
func (v *D3Visualizer) Render(buf *bytes.Buffer, view *FamilyView, rootName string) error {
	graphData, err := json.Marshal(view)
	if err != nil {
		return errors.Wrap(err, "encode family view")
	}

	tmpl, err := template.New("d3").Parse(d3Template)
	if err != nil {
		return errors.Wrap(err, "parse template")
	}

	data := struct {
		GraphData template.JS
		RootName  string
		NodeCount int
		EdgeCount int
	}{
		GraphData: template.JS(graphData),
		RootName:  rootName,
		NodeCount: len(view.Nodes),
		EdgeCount: len(view.Edges),
	}
	return tmpl.Execute(buf, data)
}

// Visualize writes the HTML page for view to the output path
func (v *D3Visualizer) Visualize(view *FamilyView, rootName string) error {
	dir := filepath.Dir(v.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	var buf bytes.Buffer
	if err := v.Render(&buf, view, rootName); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(v.outputPath, buf.Bytes(), 0644), "write %s", v.outputPath)
}
