// Package plugin extends visualizers with algorithms, renderers,
// exporters, and layouts without core changes. Definitions are
// process-wide; installations are per visualizer instance, so two
// visualizers never share plugin state.
package plugin

import (
	"time"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
)

// Info identifies a plugin and the visualizer kinds it can attach to.
type Info struct {
	Name    string
	Version string
	Kinds   []draw.Kind
}

// Compatible reports whether the plugin accepts a visualizer of kind k.
func (i Info) Compatible(k draw.Kind) bool {
	for _, pk := range i.Kinds {
		if pk == k {
			return true
		}
	}
	return false
}

// Plugin is the base contract. A definition must additionally satisfy at
// least one of Algorithm, Renderer, Exporter, or Layout.
type Plugin interface {
	Info() Info
}

// Host is the narrow visualizer view handed to hooks and exporters. The
// dataset is the live one and is only valid for the duration of the
// call; hooks that need to keep data must copy it.
type Host interface {
	ID() string
	Kind() draw.Kind
	Dataset() *graph.Dataset
	Surface() draw.Surface
	Redraw()
}

// Algorithm plugins contribute a new adapter to the instance's
// algorithm registry.
type Algorithm interface {
	Plugin
	Adapter() algo.Adapter
}

// Drawer is a renderer plugin's draw pass. The visualizer requests a
// fresh pass per frame.
type Drawer interface {
	Draw(s draw.Surface, ds *graph.Dataset) error
}

// Renderer plugins replace the built-in draw pass for their instance.
type Renderer interface {
	Plugin
	NewRenderer() Drawer
}

// ExportConfig tunes an export run.
type ExportConfig struct {
	Format string
	Width  int
	Height int
	Delay  time.Duration
}

// Blob is a finished export.
type Blob struct {
	Format string
	Data   []byte
}

// Exporter plugins serialize a visualizer into one or more formats.
type Exporter interface {
	Plugin
	Formats() []string
	Export(h Host, cfg ExportConfig) (Blob, error)
}

// Layout plugins contribute a layout algorithm.
type Layout interface {
	Plugin
	Layout() layout.Algorithm
}

// Optional hooks, discovered by assertion. OnInstall may veto the
// install by returning an error; the instance's installed set is left
// unchanged. The remaining hooks are notifications.
type InstallHook interface {
	OnInstall(h Host) error
}

type UninstallHook interface {
	OnUninstall(h Host)
}

type BeforeRenderHook interface {
	BeforeRender(h Host)
}

type AfterRenderHook interface {
	AfterRender(h Host)
}

type DataChangeHook interface {
	OnDataChange(h Host)
}
