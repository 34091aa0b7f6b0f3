package template

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/c360/flowcompiler/config"
	"github.com/c360/flowcompiler/errors"
)

// templateSchema constrains the shape of a template document. Anything the
// schema rejects surfaces as a malformed template, never as a silent
// partial resolution.
const templateSchema = `{
	"type": "object",
	"required": ["defaults"],
	"properties": {
		"description": {"type": "string"},
		"version": {"type": ["string", "number"]},
		"defaults": {"type": "object", "minProperties": 1}
	},
	"additionalProperties": false
}`

// FSCatalog resolves templates from YAML files under a root directory.
// A template URI maps to a relative file path: "templates/ingest" resolves
// to <root>/templates/ingest.yaml (or .yml).
type FSCatalog struct {
	root   string
	schema *gojsonschema.Schema
	logger *slog.Logger
}

// NewFSCatalog creates a filesystem-backed catalog rooted at the given
// directory. An unreadable root is fatal: the catalog, and any compiler
// constructed on top of it, must not come up half-configured.
func NewFSCatalog(root string, logger *slog.Logger) (*FSCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %s: %v", errors.ErrCatalogUnavailable, root, err),
			"FSCatalog", "NewFSCatalog", "stat catalog root")
	}
	if !info.IsDir() {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %s is not a directory", errors.ErrCatalogUnavailable, root),
			"FSCatalog", "NewFSCatalog", "check catalog root")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(templateSchema))
	if err != nil {
		return nil, errors.WrapFatal(err, "FSCatalog", "NewFSCatalog", "compile template schema")
	}

	return &FSCatalog{root: root, schema: schema, logger: logger}, nil
}

// Resolve implements Catalog.
func (c *FSCatalog) Resolve(ctx context.Context, uri string) (*JobTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "FSCatalog", "Resolve", "context check")
	}

	rel, err := c.relativePath(uri)
	if err != nil {
		return nil, err
	}

	data, err := c.readTemplateFile(rel, uri)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s: %v", errors.ErrTemplateMalformed, uri, err),
			"FSCatalog", "Resolve", "decode template")
	}

	result, err := c.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s: %v", errors.ErrTemplateMalformed, uri, err),
			"FSCatalog", "Resolve", "validate template")
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s: %s", errors.ErrTemplateMalformed, uri, strings.Join(issues, "; ")),
			"FSCatalog", "Resolve", "validate template")
	}

	defaults, _ := config.GetMap(doc, "defaults")
	tmpl := &JobTemplate{
		URI:         uri,
		Version:     config.GetString(doc, "version", "1"),
		Description: config.GetString(doc, "description", ""),
		Defaults:    config.FromMap(defaults),
	}

	c.logger.Debug("Resolved job template",
		"uri", uri,
		"version", tmpl.Version,
		"defaults", len(tmpl.Defaults.Paths()))
	return tmpl, nil
}

// relativePath maps a template URI to a path under the catalog root,
// rejecting anything that would escape it.
func (c *FSCatalog) relativePath(uri string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimPrefix(uri, "/"))
	if cleaned == "/" || strings.Contains(cleaned, "..") {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: invalid template URI %q", errors.ErrTemplateNotFound, uri),
			"FSCatalog", "Resolve", "map template URI")
	}
	return filepath.FromSlash(strings.TrimPrefix(cleaned, "/")), nil
}

func (c *FSCatalog) readTemplateFile(rel, uri string) ([]byte, error) {
	candidates := []string{rel, rel + ".yaml", rel + ".yml"}
	for _, candidate := range candidates {
		data, err := os.ReadFile(filepath.Join(c.root, candidate))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.WrapTransient(err, "FSCatalog", "Resolve", "read template file")
		}
	}
	return nil, errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrTemplateNotFound, uri),
		"FSCatalog", "Resolve", "template lookup")
}
