// Package filesource reads the scoreboard state from a local file, the way
// the desktop plugin leaves plugin.json next to the overlay.
package filesource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
)

// ErrNoPath is returned when the provider has no file to read.
var ErrNoPath = errors.New("filesource: no state file configured")

// Provider re-reads its file on every fetch.
type Provider struct {
	path     string
	readFile func(string) ([]byte, error)
}

// New creates a provider for path.
func New(path string) *Provider {
	return &Provider{
		path:     strings.TrimSpace(path),
		readFile: os.ReadFile,
	}
}

// Path returns the file the provider reads.
func (p *Provider) Path() string {
	return p.path
}

// FetchState reads and decodes the state file. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func (p *Provider) FetchState(ctx context.Context) (jsonval.Value, error) {
	if err := ctx.Err(); err != nil {
		return jsonval.Undefined, err
	}
	if p.path == "" {
		return jsonval.Undefined, ErrNoPath
	}
	raw, err := p.readFile(p.path)
	if err != nil {
		return jsonval.Undefined, fmt.Errorf("filesource: read %s: %w", p.path, err)
	}
	if isYAML(p.path) {
		return decodeYAML(raw)
	}
	state, err := jsonval.Decode(raw)
	if err != nil {
		return jsonval.Undefined, fmt.Errorf("filesource: decode %s: %w", p.path, err)
	}
	return state, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func decodeYAML(raw []byte) (jsonval.Value, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return jsonval.Undefined, fmt.Errorf("filesource: decode yaml: %w", err)
	}
	return jsonval.FromAny(doc)
}
