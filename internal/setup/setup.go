// Package setup handles mcuwatch project initialization.
package setup

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/mcuwatch/internal/config"
	atomicyaml "github.com/msageha/mcuwatch/internal/yaml"
	"github.com/msageha/mcuwatch/templates"
)

const envExampleFile = ".env.example"

// Options pre-fill the generated configuration. Empty fields keep the
// template value.
type Options struct {
	MCUURL   string
	Username string
}

// Run writes a starter mcuwatch.yaml, a .env.example and the state and log
// directories into dir. An existing configuration is never overwritten.
func Run(dir string, opts Options) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve dir: %w", err)
	}
	cfgPath := filepath.Join(absDir, config.DefaultFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{config.DefaultStateDir, config.DefaultLogDir} {
		if err := os.MkdirAll(filepath.Join(absDir, d), 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	content, err := generateConfig(opts)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}
	if _, err := config.Parse(content); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}
	if err := atomicyaml.WriteDocument(cfgPath, content); err != nil {
		return fmt.Errorf("write %s: %w", config.DefaultFileName, err)
	}

	return copyTemplateFile("env.example", filepath.Join(absDir, envExampleFile))
}

func copyTemplateFile(name, dst string) error {
	data, err := fs.ReadFile(templates.FS, name)
	if err != nil {
		return fmt.Errorf("read template %s: %w", name, err)
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// generateConfig edits the template through its node tree so the comments
// survive.
func generateConfig(opts Options) ([]byte, error) {
	data, err := fs.ReadFile(templates.FS, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read config template: %w", err)
	}
	if opts.MCUURL == "" && opts.Username == "" {
		return data, nil
	}

	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}
	if opts.MCUURL != "" {
		if err := setScalar(&doc, opts.MCUURL, "mcu", "url"); err != nil {
			return nil, err
		}
	}
	if opts.Username != "" {
		if err := setScalar(&doc, opts.Username, "mcu", "username"); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func setScalar(doc *yamlv3.Node, value string, path ...string) error {
	node := doc
	if node.Kind == yamlv3.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, key := range path {
		next := mappingValue(node, key)
		if next == nil {
			return fmt.Errorf("config template has no %q key", key)
		}
		node = next
	}
	if node.Kind != yamlv3.ScalarNode {
		return fmt.Errorf("config template key %q is not a scalar", path[len(path)-1])
	}
	node.Value = value
	node.Tag = "!!str"
	return nil
}

func mappingValue(m *yamlv3.Node, key string) *yamlv3.Node {
	if m.Kind != yamlv3.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
