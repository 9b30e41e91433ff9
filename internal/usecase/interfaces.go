package usecase

import "github.com/xavierca1/leadboard/internal/entity"

// Storage is the persistence boundary of the lead table. The manager
// hands it the full set on every mutation; the adapter decides how to
// make the write durable.
type Storage interface {
	Load() ([]entity.Lead, error)
	Save(leads []entity.Lead) error
}
