// ABOUTME: Lead network graph generation using graphviz
// ABOUTME: Links each lead to its contact, assignee, properties and preferred locations
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
)

const unknownLabel = "Unknown"

// GraphGenerator renders graphs from the currently loaded store state.
type GraphGenerator struct {
	store *store.Store
}

func NewGraphGenerator(s *store.Store) *GraphGenerator {
	return &GraphGenerator{store: s}
}

// GenerateLeadGraph returns DOT source for one lead, or for every loaded lead
// when leadID is nil. References that are not loaded render as "Unknown".
func (g *GraphGenerator) GenerateLeadGraph(leadID *int64) (string, error) {
	leads := g.store.Leads.List()
	if leadID != nil {
		lead, ok := g.store.Leads.Find(*leadID)
		if !ok {
			return "", fmt.Errorf("lead %d not found", *leadID)
		}
		leads = []models.Lead{lead}
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Lead Network")
	graph.SetRankDir(cgraph.LRRank)

	b := &graphBuilder{graph: graph, nodes: make(map[string]*cgraph.Node)}
	for _, lead := range leads {
		if err := g.addLead(b, lead); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

func (g *GraphGenerator) addLead(b *graphBuilder, lead models.Lead) error {
	label := fmt.Sprintf("Lead #%d\n%s", lead.ID, lead.Status)
	leadNode, err := b.node(fmt.Sprintf("lead_%d", lead.ID), label, "lightyellow")
	if err != nil {
		return err
	}
	leadNode.SetShape("diamond")

	contactLabel := unknownLabel
	if c, ok := g.store.Contacts.Find(lead.ContactID); ok {
		contactLabel = c.Name()
	}
	contactNode, err := b.node(fmt.Sprintf("contact_%d", lead.ContactID), contactLabel, "lightgreen")
	if err != nil {
		return err
	}
	contactNode.SetShape("ellipse")
	if _, err := b.edge(contactNode, leadNode, "inquired"); err != nil {
		return err
	}

	if lead.AssignedToID != nil {
		userLabel := unknownLabel
		if u, ok := g.store.Users.Find(*lead.AssignedToID); ok {
			userLabel = u.Name()
		}
		userNode, err := b.node(fmt.Sprintf("user_%d", *lead.AssignedToID), userLabel, "lightblue")
		if err != nil {
			return err
		}
		userNode.SetShape("box")
		edge, err := b.edge(leadNode, userNode, "assigned")
		if err != nil {
			return err
		}
		edge.SetStyle("dashed")
	}

	for _, id := range lead.PropertyIDs {
		propLabel := unknownLabel
		if p, ok := g.store.Properties.Find(id); ok {
			propLabel = fmt.Sprintf("%s\n%s", p.Reference, p.Title)
		}
		propNode, err := b.node(fmt.Sprintf("property_%d", id), propLabel, "wheat")
		if err != nil {
			return err
		}
		propNode.SetShape("house")
		if _, err := b.edge(leadNode, propNode, "interested"); err != nil {
			return err
		}
	}

	for _, id := range lead.PreferredLocationIDs {
		locLabel := unknownLabel
		if l, ok := g.store.Locations.Find(id); ok {
			locLabel = l.Parts().Short()
		}
		locNode, err := b.node(fmt.Sprintf("location_%d", id), locLabel, "lavender")
		if err != nil {
			return err
		}
		locNode.SetShape("note")
		edge, err := b.edge(leadNode, locNode, "prefers")
		if err != nil {
			return err
		}
		edge.SetStyle("dotted")
	}
	return nil
}

// graphBuilder dedupes nodes by name.
type graphBuilder struct {
	graph *cgraph.Graph
	nodes map[string]*cgraph.Node
	edges int
}

func (b *graphBuilder) node(name, label, fill string) (*cgraph.Node, error) {
	if n, ok := b.nodes[name]; ok {
		return n, nil
	}
	n, err := b.graph.CreateNodeByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create node %s: %w", name, err)
	}
	n.SetLabel(label)
	n.SetStyle("filled")
	n.SetFillColor(fill)
	b.nodes[name] = n
	return n, nil
}

func (b *graphBuilder) edge(from, to *cgraph.Node, label string) (*cgraph.Edge, error) {
	b.edges++
	e, err := b.graph.CreateEdgeByName(fmt.Sprintf("e%d", b.edges), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to create edge: %w", err)
	}
	e.SetLabel(label)
	return e, nil
}
