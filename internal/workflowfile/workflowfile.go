// Package workflowfile loads workflow definitions from YAML files so they
// can be created or updated through the API.
package workflowfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	reporunner "github.com/reporunner/reporunner-go"
)

var (
	ErrMissingName = errors.New("workflow name is required")
	ErrNoNodes     = errors.New("workflow must define at least one node")
)

// Definition is the on-disk representation of a workflow.
type Definition struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Active      *bool          `yaml:"active"`
	Nodes       []Node         `yaml:"nodes"`
	Connections []Connection   `yaml:"connections"`
	Settings    map[string]any `yaml:"settings"`
}

// Node is a workflow node in a definition file.
type Node struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Position   Position       `yaml:"position"`
	Parameters map[string]any `yaml:"parameters"`
}

// Position is a node's canvas position.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Connection links two nodes in a definition file.
type Connection struct {
	Source      Endpoint `yaml:"source"`
	Destination Endpoint `yaml:"destination"`
}

// Endpoint is one side of a connection.
type Endpoint struct {
	Node   string `yaml:"node"`
	Output *int   `yaml:"output"`
	Input  *int   `yaml:"input"`
}

// Load reads and validates a workflow definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a workflow definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing workflow file: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks structural constraints: a name, at least one node,
// unique non-empty node IDs, and connections that reference known nodes.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if len(d.Nodes) == 0 {
		return ErrNoNodes
	}

	ids := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: id is required", i)
		}
		if n.Type == "" {
			return fmt.Errorf("node %q: type is required", n.ID)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	for i, conn := range d.Connections {
		if _, ok := ids[conn.Source.Node]; !ok {
			return fmt.Errorf("connection %d: unknown source node %q", i, conn.Source.Node)
		}
		if _, ok := ids[conn.Destination.Node]; !ok {
			return fmt.Errorf("connection %d: unknown destination node %q", i, conn.Destination.Node)
		}
	}
	return nil
}

// CreateRequest converts the definition into an API create request.
func (d *Definition) CreateRequest() reporunner.CreateWorkflowRequest {
	return reporunner.CreateWorkflowRequest{
		Name:        d.Name,
		Description: d.Description,
		Nodes:       d.apiNodes(),
		Connections: d.apiConnections(),
		Settings:    d.Settings,
	}
}

// UpdateRequest converts the definition into an API update request.
func (d *Definition) UpdateRequest() reporunner.UpdateWorkflowRequest {
	return reporunner.UpdateWorkflowRequest{
		Name:        &d.Name,
		Description: &d.Description,
		Active:      d.Active,
		Nodes:       d.apiNodes(),
		Connections: d.apiConnections(),
		Settings:    d.Settings,
	}
}

func (d *Definition) apiNodes() []reporunner.Node {
	nodes := make([]reporunner.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		name := n.Name
		if name == "" {
			name = n.ID
		}
		nodes = append(nodes, reporunner.Node{
			ID:         n.ID,
			Name:       name,
			Type:       n.Type,
			Position:   reporunner.Position{X: n.Position.X, Y: n.Position.Y},
			Parameters: n.Parameters,
		})
	}
	return nodes
}

func (d *Definition) apiConnections() []reporunner.Connection {
	conns := make([]reporunner.Connection, 0, len(d.Connections))
	for _, c := range d.Connections {
		conns = append(conns, reporunner.Connection{
			Source: reporunner.ConnectionEndpoint{
				NodeID:      c.Source.Node,
				OutputIndex: c.Source.Output,
			},
			Destination: reporunner.ConnectionEndpoint{
				NodeID:     c.Destination.Node,
				InputIndex: c.Destination.Input,
			},
		})
	}
	return conns
}
