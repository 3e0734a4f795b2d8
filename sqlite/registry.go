package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/civsearch/civsearch"
)

// Compile-time interface verification.
var _ civsearch.RegistryService = (*RegistryService)(nil)

// RegistryService implements civsearch.RegistryService using SQLite.
type RegistryService struct {
	db *DB
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(db *DB) *RegistryService {
	return &RegistryService{db: db}
}

// List returns all registered indexes in registration order.
func (s *RegistryService) List(ctx context.Context) ([]civsearch.IndexInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, domain
		FROM indexes
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []civsearch.IndexInfo
	for rows.Next() {
		var info civsearch.IndexInfo
		if err := rows.Scan(&info.Name, &info.Description, &info.Domain); err != nil {
			return nil, err
		}
		indexes = append(indexes, info)
	}

	return indexes, rows.Err()
}

// Register adds an index to the registry, or updates its description and
// domain if the name is already registered. Registration order is preserved
// across updates.
func (s *RegistryService) Register(ctx context.Context, info civsearch.IndexInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO indexes (id, name, description, domain, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			domain = excluded.domain
	`, uuid.New().String(), info.Name, info.Description, info.Domain,
		time.Now().UTC().Format(time.RFC3339))

	return err
}
