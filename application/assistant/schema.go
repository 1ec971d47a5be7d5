package assistant

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/air_routes.yaml templates/system_prompt.tmpl
var templates embed.FS

// DefaultMaxResults bounds the result size the model is asked to produce.
const DefaultMaxResults = 25

// Property describes one vertex or edge property.
type Property struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// VertexType describes one vertex label.
type VertexType struct {
	Label       string     `yaml:"label"`
	Description string     `yaml:"description"`
	Properties  []Property `yaml:"properties"`
}

// EdgeType describes one edge label and its endpoints.
type EdgeType struct {
	Label       string     `yaml:"label"`
	From        string     `yaml:"from"`
	To          string     `yaml:"to"`
	Description string     `yaml:"description"`
	Properties  []Property `yaml:"properties"`
}

// Schema is the graph description given to the language model.
type Schema struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Vertices    []VertexType `yaml:"vertices"`
	Edges       []EdgeType   `yaml:"edges"`
}

// LoadSchema reads a YAML schema from path, or the embedded air-routes
// schema when path is empty.
func LoadSchema(path string) (*Schema, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = templates.ReadFile("templates/air_routes.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read graph schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode graph schema: %w", err)
	}
	if len(schema.Vertices) == 0 {
		return nil, fmt.Errorf("graph schema %q declares no vertex labels", schema.Name)
	}
	for i, v := range schema.Vertices {
		if v.Label == "" {
			return nil, fmt.Errorf("graph schema vertex %d has no label", i)
		}
	}
	for i, e := range schema.Edges {
		if e.Label == "" || e.From == "" || e.To == "" {
			return nil, fmt.Errorf("graph schema edge %d needs label, from and to", i)
		}
	}
	return &schema, nil
}

// BuildSystemPrompt renders the fixed system instructions for a schema.
func BuildSystemPrompt(schema *Schema, maxResults int) (string, error) {
	tmpl, err := template.ParseFS(templates, "templates/system_prompt.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse system prompt: %w", err)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		*Schema
		MaxResults int
	}{schema, maxResults})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return buf.String(), nil
}
