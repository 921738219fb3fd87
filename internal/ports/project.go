package ports

import "framework-kit/internal/types"

// ProjectLocatorPort discovers the generated native projects under a project
// root.
type ProjectLocatorPort interface {
	Locate(root string) (types.ProjectRoot, error)
}
