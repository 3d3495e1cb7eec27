// Package fs provides the project workspace the compiler runs in.
package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

const projectPattern = "wasmc-project-*"

// Workspace creates throwaway project directories below a root.
type Workspace struct {
	root string
}

// NewWorkspace creates a Workspace. An empty root uses the system temp directory.
func NewWorkspace(root string) *Workspace {
	return &Workspace{root: root}
}

// Create makes a fresh, empty project directory.
func (w *Workspace) Create() (ports.Project, error) {
	if w.root != "" {
		if err := os.MkdirAll(w.root, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create workspace root"), "path", w.root)
		}
	}

	dir, err := os.MkdirTemp(w.root, projectPattern)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create project directory")
	}
	return &Project{dir: dir}, nil
}

// Project is a flat directory of files.
type Project struct {
	dir string
}

// Dir returns the host path of the project.
func (p *Project) Dir() string {
	return p.dir
}

// WriteFile writes data to name at the project root.
func (p *Project) WriteFile(name string, data []byte) error {
	path, err := p.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write project file"), "name", name)
	}
	return nil
}

// ReadFile reads name from the project root.
func (p *Project) ReadFile(name string) ([]byte, error) {
	path, err := p.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // name is validated to stay inside the project
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read project file"), "name", name)
	}
	return data, nil
}

// Close removes the project directory and everything in it.
func (p *Project) Close() error {
	if err := os.RemoveAll(p.dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove project directory"), "path", p.dir)
	}
	return nil
}

func (p *Project) path(name string) (string, error) {
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidProjectPath, "project file"), "name", name)
	}
	return filepath.Join(p.dir, name), nil
}

var (
	_ ports.Workspace = (*Workspace)(nil)
	_ ports.Project   = (*Project)(nil)
)
