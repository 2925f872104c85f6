package phantom

import "fmt"

// builtinEntry is one row of a built-in phantom's element table:
// {kind, cx, cy, u, v, theta, a}.
type builtinEntry struct {
	kind           Kind
	cx, cy, u, v   float64
	theta, a       float64
}

// builtinTables holds the literal element tables for every named,
// file-free phantom Named resolves.
var builtinTables = map[string][]builtinEntry{
	"herman": {
		{Ellipse, 0, 0, 0.9, 0.9, 0, 1.0},
		{Ellipse, 0.35, 0.1, 0.15, 0.2, 0.2, 1.0},
		{Rectangle, -0.3, -0.3, 0.1, 0.1, 0, 0.3},
	},

	// Classic Shepp-Logan head phantom, normalized to the unit disc.
	"shepplogan": {
		{Ellipse, 0, 0, 0.69, 0.92, 0, 2.0},
		{Ellipse, 0, -0.0184, 0.6624, 0.874, 0, -0.98},
		{Ellipse, 0.22, 0, 0.11, 0.31, -0.3141592653589793, -0.02},
		{Ellipse, -0.22, 0, 0.16, 0.41, 0.3141592653589793, -0.02},
		{Ellipse, 0, 0.35, 0.21, 0.25, 0, 0.01},
		{Ellipse, 0, 0.1, 0.046, 0.046, 0, 0.01},
		{Ellipse, 0, -0.1, 0.046, 0.046, 0, 0.01},
		{Ellipse, -0.08, -0.605, 0.046, 0.023, 0, 0.01},
		{Ellipse, 0, -0.605, 0.023, 0.023, 0, 0.01},
		{Ellipse, 0.06, -0.605, 0.023, 0.046, 0, 0.01},
	},

	"hollowcircle": {
		{Ellipse, 0, 0, 0.9, 0.9, 0, 1.0},
		{Ellipse, 0, 0, 0.6, 0.6, 0, -1.0},
	},

	"twohollowcircle": {
		{Ellipse, -0.4, 0, 0.3, 0.3, 0, 1.0},
		{Ellipse, -0.4, 0, 0.2, 0.2, 0, -1.0},
		{Ellipse, 0.4, 0, 0.3, 0.3, 0, 1.0},
		{Ellipse, 0.4, 0, 0.2, 0.2, 0, -1.0},
	},

	"unitdisc": {
		{Ellipse, 0, 0, 1.0, 1.0, 0, 1.0},
	},
}

// Named constructs a built-in phantom by name (case-sensitive keys as
// listed above: herman, shepplogan, hollowcircle, twohollowcircle,
// unitdisc). It returns an error if the name is not registered.
func Named(name string) (*Phantom, error) {
	table, ok := builtinTables[name]
	if !ok {
		return nil, fmt.Errorf("phantom: unknown built-in phantom %q", name)
	}
	p := New(name)
	for _, e := range table {
		p.AddElement(e.kind, e.cx, e.cy, e.u, e.v, e.theta, e.a)
	}
	return p, nil
}

// BuiltinNames returns the registered built-in phantom names.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinTables))
	for name := range builtinTables {
		names = append(names, name)
	}
	return names
}
