package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AddRoot appends root to workspace.roots in filename and reports whether
// the file changed. A missing file is created. Comments and unrelated keys
// are kept. A root whose path is already listed is not added again.
func AddRoot(filename string, root RootConfig) (bool, error) {
	if err := root.Validate(); err != nil {
		return false, fmt.Errorf("invalid root: %w", err)
	}

	var doc yaml.Node
	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return false, fmt.Errorf("failed to read config file %s: %w", filename, err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return false, fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return false, fmt.Errorf("config file %s: top level is not a mapping", filename)
	}

	workspace, err := mappingValue(top, "workspace", yaml.MappingNode)
	if err != nil {
		return false, err
	}
	roots, err := mappingValue(workspace, "roots", yaml.SequenceNode)
	if err != nil {
		return false, fmt.Errorf("workspace: %w", err)
	}

	want := cleanRootPath(root.Path)
	for _, item := range roots.Content {
		var existing RootConfig
		if err := item.Decode(&existing); err != nil {
			return false, fmt.Errorf("workspace.roots: %w", err)
		}
		if cleanRootPath(existing.Path) == want {
			return false, nil
		}
	}

	var item yaml.Node
	if err := item.Encode(root); err != nil {
		return false, fmt.Errorf("encode root: %w", err)
	}
	roots.Content = append(roots.Content, &item)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file %s: %w", filename, err)
	}
	return true, nil
}

// mappingValue returns the value node stored under key in m, adding an
// empty node of the given kind when the key is absent or null.
func mappingValue(m *yaml.Node, key string, kind yaml.Kind) (*yaml.Node, error) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		value := m.Content[i+1]
		if value.Tag == "!!null" {
			*value = *emptyNode(kind)
		}
		if value.Kind != kind {
			return nil, fmt.Errorf("%s: unexpected value type", key)
		}
		return value, nil
	}

	value := emptyNode(kind)
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	return value, nil
}

func emptyNode(kind yaml.Kind) *yaml.Node {
	if kind == yaml.SequenceNode {
		return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func cleanRootPath(p string) string {
	return filepath.Clean(expandHome(os.ExpandEnv(p)))
}
