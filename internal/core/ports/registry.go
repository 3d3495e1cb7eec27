package ports

import "context"

// Registry fetches compiler module images.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// FetchCompiler downloads the module image published under identifier.
	FetchCompiler(ctx context.Context, identifier string) ([]byte, error)
}
