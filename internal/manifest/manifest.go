// Package manifest builds screen trees from YAML documents and drives them
// through a scripted sequence of host operations. It backs the screenmesh
// CLI and doubles as an executable description of lifecycle scenarios.
//
//	root: one_active
//	screens:
//	  - name: editor
//	    kind: one_active
//	    children:
//	      - name: a.txt
//	      - name: b.txt
//	        veto_close: true
//	script:
//	  - op: start
//	  - op: open
//	    screen: editor
//	  - op: shutdown
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/screenmesh/host"
)

// Node kinds.
const (
	KindScreen    = "screen"
	KindConductor = "conductor"
	KindOneActive = "one_active"
	KindAllActive = "all_active"
)

// Script operations.
const (
	OpStart      = "start"
	OpOpen       = "open"
	OpClose      = "close"
	OpDeactivate = "deactivate"
	OpCanClose   = "can_close"
	OpShutdown   = "shutdown"
)

// Manifest describes a host, its screens and a script to run against them.
type Manifest struct {
	// Root overrides the configured root conductor kind.
	Root string `yaml:"root,omitempty"`
	// CloseStrategy overrides the configured root close strategy.
	CloseStrategy string `yaml:"close_strategy,omitempty"`
	Screens       []Node `yaml:"screens"`
	Script        []Step `yaml:"script"`
}

// Node is a screen or conductor. Top level nodes are registered with the
// host under their name; nested nodes are conducted by their parent.
type Node struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind,omitempty"`
	VetoClose bool   `yaml:"veto_close,omitempty"`
	FailInit  bool   `yaml:"fail_init,omitempty"`
	Children  []Node `yaml:"children,omitempty"`
}

// Step is one host operation. Screen names a top level node for open, close
// and deactivate.
type Step struct {
	Op          string `yaml:"op"`
	Screen      string `yaml:"screen,omitempty"`
	ExpectError bool   `yaml:"expect_error,omitempty"`
}

func (s Step) String() string {
	if s.Screen == "" {
		return s.Op
	}
	return s.Op + " " + s.Screen
}

// Parse decodes a manifest and validates it.
func Parse(data []byte) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("manifest: document is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	m.normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadReader reads a manifest from r.
func LoadReader(r io.Reader) (*Manifest, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	return Parse(content)
}

// LoadFile reads a manifest from path.
func LoadFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) normalize() {
	for i := range m.Screens {
		m.Screens[i].normalize()
	}
	for i := range m.Script {
		m.Script[i].Op = strings.ToLower(strings.TrimSpace(m.Script[i].Op))
	}
}

func (n *Node) normalize() {
	n.Kind = strings.ToLower(strings.TrimSpace(n.Kind))
	if n.Kind == "" {
		n.Kind = KindScreen
	}
	for i := range n.Children {
		n.Children[i].normalize()
	}
}

// Validate reports every structural problem in the manifest.
func (m *Manifest) Validate() error {
	var errs []error
	seen := map[string]bool{}

	if m.Root != "" && !slices.Contains([]string{host.RootSingle, host.RootOneActive, host.RootAllActive}, m.Root) {
		errs = append(errs, fmt.Errorf("root: unknown kind %q", m.Root))
	}
	if m.CloseStrategy != "" {
		if _, err := host.CloseStrategyByName(m.CloseStrategy); err != nil {
			errs = append(errs, fmt.Errorf("close_strategy: %w", err))
		}
	}
	if len(m.Screens) == 0 {
		errs = append(errs, errors.New("no screens declared"))
	}
	for i := range m.Screens {
		errs = append(errs, m.Screens[i].validate("screens", seen)...)
	}

	topLevel := make([]string, 0, len(m.Screens))
	for _, n := range m.Screens {
		topLevel = append(topLevel, n.Name)
	}

	for i, step := range m.Script {
		path := fmt.Sprintf("script[%d]", i)
		switch step.Op {
		case OpStart, OpCanClose, OpShutdown:
			if step.Screen != "" {
				errs = append(errs, fmt.Errorf("%s: %s takes no screen", path, step.Op))
			}
		case OpOpen, OpClose, OpDeactivate:
			if step.Screen == "" {
				errs = append(errs, fmt.Errorf("%s: %s requires a screen", path, step.Op))
			} else if !slices.Contains(topLevel, step.Screen) {
				msg := fmt.Sprintf("%s: %q is not a top level screen", path, step.Screen)
				if hint := suggest(step.Screen, topLevel); hint != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", hint)
				}
				errs = append(errs, errors.New(msg))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown op %q", path, step.Op))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest: invalid: %w", errors.Join(errs...))
	}
	return nil
}

func (n *Node) validate(path string, seen map[string]bool) []error {
	var errs []error
	path = fmt.Sprintf("%s/%s", path, n.Name)

	switch {
	case n.Name == "":
		errs = append(errs, fmt.Errorf("%s: name is required", path))
	case seen[n.Name]:
		errs = append(errs, fmt.Errorf("%s: duplicate name", path))
	default:
		seen[n.Name] = true
	}

	switch n.Kind {
	case KindScreen:
		if len(n.Children) > 0 {
			errs = append(errs, fmt.Errorf("%s: a screen cannot have children", path))
		}
	case KindConductor:
		if len(n.Children) > 1 {
			errs = append(errs, fmt.Errorf("%s: a conductor holds at most one child", path))
		}
	case KindOneActive, KindAllActive:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown kind %q", path, n.Kind))
	}

	if n.VetoClose && n.Kind != KindScreen {
		errs = append(errs, fmt.Errorf("%s: veto_close applies to screens only", path))
	}

	for i := range n.Children {
		errs = append(errs, n.Children[i].validate(path, seen)...)
	}
	return errs
}
