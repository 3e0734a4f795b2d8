package civsearch

import "context"

// IndexInfo describes one registered index.
type IndexInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
}

// Validate returns an error if the index info contains invalid fields.
// Only the name is required; description and domain are free-form metadata.
func (i *IndexInfo) Validate() error {
	if i.Name == "" {
		return Errorf(EINVALID, "index name required")
	}
	return nil
}

// RegistryService manages the name -> {description, domain} index registry
// the retrieval pipeline selects among. The registry is read-only during a
// request. There is no deletion.
type RegistryService interface {
	// List returns all registered indexes in registration order.
	List(ctx context.Context) ([]IndexInfo, error)

	// Register adds an index to the registry. Registering an existing name
	// updates its description and domain in place.
	Register(ctx context.Context, info IndexInfo) error
}
