// ABOUTME: Graphviz renderings of the contact document
// ABOUTME: Pipeline graph (status to contacts) and geography graph (continent to contacts)
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/yongu/models"
)

// GraphGenerator renders DOT graphs from a document snapshot.
type GraphGenerator struct {
	doc *models.Document
}

func NewGraphGenerator(doc *models.Document) *GraphGenerator {
	if doc == nil {
		doc = &models.Document{}
	}
	return &GraphGenerator{doc: doc}
}

var statusColors = map[models.Status]string{
	models.StatusOld:         "gray80",
	models.StatusNew:         "lightblue",
	models.StatusContacted:   "lightcyan",
	models.StatusNegotiating: "lightyellow",
	models.StatusActive:      "lightgreen",
	models.StatusCompleted:   "palegreen3",
	models.StatusArchived:    "gray60",
}

// GeneratePipelineGraph links each status to the contacts in it, in board order.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	groups := make(map[string][]*models.Contact)
	var order []string
	for _, s := range models.Statuses {
		order = append(order, string(s))
	}
	for i := range g.doc.Clients {
		c := &g.doc.Clients[i]
		key := string(c.Status)
		if _, ok := groups[key]; !ok && !c.Status.Known() {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	return g.render("Pipeline", order, groups, func(label string, node *cgraph.Node) {
		color, ok := statusColors[models.Status(label)]
		if !ok {
			color = "white"
		}
		node.SetFillColor(color)
	})
}

// GenerateGeographyGraph links each continent to the contacts based there.
func (g *GraphGenerator) GenerateGeographyGraph() (string, error) {
	groups := make(map[string][]*models.Contact)
	var order []string
	for _, c := range models.Continents {
		order = append(order, string(c))
	}
	for i := range g.doc.Clients {
		c := &g.doc.Clients[i]
		key := string(c.Continent)
		if _, ok := groups[key]; !ok && !c.Continent.Known() {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	return g.render("Geography", order, groups, func(_ string, node *cgraph.Node) {
		node.SetFillColor("lightblue")
	})
}

// render draws one box per non-empty group with an edge to each member.
func (g *GraphGenerator) render(title string, order []string, groups map[string][]*models.Contact, style func(string, *cgraph.Node)) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(title)
	graph.SetRankDir(cgraph.LRRank)

	for i, key := range order {
		members := groups[key]
		if len(members) == 0 {
			continue
		}
		group, err := graph.CreateNodeByName(fmt.Sprintf("group_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create group node: %w", err)
		}
		group.SetLabel(fmt.Sprintf("%s (%d)", key, len(members)))
		group.SetShape("box")
		group.SetStyle("filled")
		style(key, group)

		for _, c := range members {
			node, err := graph.CreateNodeByName("contact_" + c.ID)
			if err != nil {
				return "", fmt.Errorf("failed to create contact node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\\n%s", c.Name, c.Company))
			node.SetShape("ellipse")

			if _, err := graph.CreateEdgeByName("", group, node); err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
