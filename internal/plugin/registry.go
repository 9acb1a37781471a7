package plugin

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/draw"
)

// Registry holds plugin definitions and per-instance installations. All
// methods are safe for concurrent use; installs against different
// instances never contend beyond the registry lock.
type Registry struct {
	mu        sync.RWMutex
	defs      map[string]Plugin
	installed map[Host]map[string]Plugin
}

func New() *Registry {
	return &Registry{
		defs:      make(map[string]Plugin),
		installed: make(map[Host]map[string]Plugin),
	}
}

// Define registers a plugin definition. The definition must carry a
// name, at least one valid kind, and satisfy one of the four plugin
// contracts.
func (r *Registry) Define(p Plugin) error {
	if p == nil {
		return errors.Wrap(ErrInvalidPlugin, "nil plugin")
	}
	info := p.Info()
	if info.Name == "" {
		return errors.Wrap(ErrInvalidPlugin, "empty name")
	}
	if len(info.Kinds) == 0 {
		return errors.Wrapf(ErrInvalidPlugin, "%q declares no kinds", info.Name)
	}
	for _, k := range info.Kinds {
		if _, ok := draw.ParseKind(string(k)); !ok {
			return errors.Wrapf(ErrInvalidPlugin, "%q declares unknown kind %q", info.Name, k)
		}
	}
	if len(categories(p)) == 0 {
		return errors.Wrapf(ErrInvalidPlugin, "%q satisfies no plugin contract", info.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[info.Name]; ok {
		return errors.Wrapf(ErrDuplicatePlugin, "%q", info.Name)
	}
	r.defs[info.Name] = p
	return nil
}

func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.defs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPlugin, "%q", name)
	}
	return p, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

// Names lists defined plugins sorted by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install attaches a defined plugin to a visualizer instance. On any
// failure, including an OnInstall veto, the instance's installed set is
// unchanged.
func (r *Registry) Install(h Host, name string) error {
	if h == nil {
		return errors.Wrap(ErrInvalidPlugin, "nil host")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.defs[name]
	if !ok {
		return errors.Wrapf(ErrUnknownPlugin, "%q", name)
	}
	if _, ok := r.installed[h][name]; ok {
		return errors.Wrapf(ErrAlreadyInstalled, "%q on %q", name, h.ID())
	}
	if !p.Info().Compatible(h.Kind()) {
		return errors.Wrapf(ErrIncompatiblePlugin, "%q supports %v, visualizer is %q", name, p.Info().Kinds, h.Kind())
	}
	if hook, ok := p.(InstallHook); ok {
		if err := hook.OnInstall(h); err != nil {
			return errors.Wrapf(err, "install %q", name)
		}
	}
	if r.installed[h] == nil {
		r.installed[h] = make(map[string]Plugin)
	}
	r.installed[h][name] = p
	return nil
}

// Uninstall detaches a plugin from an instance, firing OnUninstall
// first.
func (r *Registry) Uninstall(h Host, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.installed[h][name]
	if !ok {
		return errors.Wrapf(ErrNotInstalled, "%q", name)
	}
	if hook, ok := p.(UninstallHook); ok {
		hook.OnUninstall(h)
	}
	delete(r.installed[h], name)
	if len(r.installed[h]) == 0 {
		delete(r.installed, h)
	}
	return nil
}

// Release uninstalls everything attached to h. Visualizers call it on
// Close.
func (r *Registry) Release(h Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range sortedNames(r.installed[h]) {
		if hook, ok := r.installed[h][name].(UninstallHook); ok {
			hook.OnUninstall(h)
		}
	}
	delete(r.installed, h)
}

func (r *Registry) IsInstalled(h Host, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.installed[h][name]
	return ok
}

// Installed lists the plugins attached to h, sorted by name.
func (r *Registry) Installed(h Host) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedNames(r.installed[h])
}

// InstalledPlugins snapshots h's plugins in name order, the dispatch
// order for every hook.
func (r *Registry) InstalledPlugins(h Host) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := sortedNames(r.installed[h])
	out := make([]Plugin, 0, len(names))
	for _, name := range names {
		out = append(out, r.installed[h][name])
	}
	return out
}

// FireBeforeRender notifies h's plugins that a draw pass is starting.
func (r *Registry) FireBeforeRender(h Host) {
	for _, p := range r.InstalledPlugins(h) {
		if hook, ok := p.(BeforeRenderHook); ok {
			hook.BeforeRender(h)
		}
	}
}

// FireAfterRender notifies h's plugins that a draw pass completed.
func (r *Registry) FireAfterRender(h Host) {
	for _, p := range r.InstalledPlugins(h) {
		if hook, ok := p.(AfterRenderHook); ok {
			hook.AfterRender(h)
		}
	}
}

// FireDataChange notifies h's plugins that the dataset was mutated.
func (r *Registry) FireDataChange(h Host) {
	for _, p := range r.InstalledPlugins(h) {
		if hook, ok := p.(DataChangeHook); ok {
			hook.OnDataChange(h)
		}
	}
}

// RendererOverride returns a draw pass from the first installed
// renderer plugin in name order, if any.
func (r *Registry) RendererOverride(h Host) (Drawer, bool) {
	for _, p := range r.InstalledPlugins(h) {
		if rp, ok := p.(Renderer); ok {
			return rp.NewRenderer(), true
		}
	}
	return nil, false
}

// ExporterFor finds an installed exporter claiming the format.
func (r *Registry) ExporterFor(h Host, format string) (Exporter, error) {
	for _, p := range r.InstalledPlugins(h) {
		ex, ok := p.(Exporter)
		if !ok {
			continue
		}
		for _, f := range ex.Formats() {
			if f == format {
				return ex, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrNoExporter, "%q", format)
}

// Categories reports which of the four contracts a definition
// satisfies, for listings.
func Categories(p Plugin) []string { return categories(p) }

func categories(p Plugin) []string {
	var out []string
	if _, ok := p.(Algorithm); ok {
		out = append(out, "algorithm")
	}
	if _, ok := p.(Renderer); ok {
		out = append(out, "renderer")
	}
	if _, ok := p.(Exporter); ok {
		out = append(out, "exporter")
	}
	if _, ok := p.(Layout); ok {
		out = append(out, "layout")
	}
	return out
}

func sortedNames(m map[string]Plugin) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide registry. Tests that define throwaway
// plugins should use New instead.
var Default = New()

func Define(p Plugin) error             { return Default.Define(p) }
func Get(name string) (Plugin, error)   { return Default.Get(name) }
func Has(name string) bool              { return Default.Has(name) }
func Names() []string                   { return Default.Names() }
func Install(h Host, name string) error { return Default.Install(h, name) }
