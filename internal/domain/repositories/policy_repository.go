package repositories

import "github.com/rios0rios0/safeupdate/internal/domain/entities"

// PolicyRepository decides whether a safe update may be proposed.
// A policy can only hold updates back, never approve an unsafe one.
type PolicyRepository interface {
	Allows(update entities.ResolvedUpdate) (bool, error)
}
