package ports

// Workspace creates project directories for compiler invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Create returns a fresh, empty project. The caller must Close it.
	Create() (Project, error)
}

// Project is a directory the compiler sees at domain.ProjectMountPoint.
type Project interface {
	// Dir returns the host path of the project.
	Dir() string
	// WriteFile writes a file at the project root.
	WriteFile(name string, data []byte) error
	// ReadFile reads a file from the project root.
	ReadFile(name string) ([]byte, error)
	// Close removes the project directory.
	Close() error
}
