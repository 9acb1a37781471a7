package plugin

import "github.com/cockroachdb/errors"

var (
	ErrUnknownPlugin      = errors.New("algoviz/plugin: unknown plugin")
	ErrDuplicatePlugin    = errors.New("algoviz/plugin: plugin already defined")
	ErrInvalidPlugin      = errors.New("algoviz/plugin: invalid plugin")
	ErrAlreadyInstalled   = errors.New("algoviz/plugin: plugin already installed")
	ErrNotInstalled       = errors.New("algoviz/plugin: plugin not installed")
	ErrIncompatiblePlugin = errors.New("algoviz/plugin: plugin incompatible with visualizer kind")
	ErrNoExporter         = errors.New("algoviz/plugin: no exporter for format")
)
