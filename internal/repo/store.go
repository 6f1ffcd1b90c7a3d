package repo

import (
	"fmt"

	"swag-shop/internal/domain"
)

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreIO, op, err)
}

// normalize makes empty collections encode as [] rather than null.
func normalize(s *domain.Snapshot) *domain.Snapshot {
	if s == nil {
		s = &domain.Snapshot{}
	}
	if s.Swags == nil {
		s.Swags = []domain.Swag{}
	}
	if s.Users == nil {
		s.Users = []domain.User{}
	}
	for i := range s.Users {
		if s.Users[i].Orders == nil {
			s.Users[i].Orders = []domain.OrderRecord{}
		}
	}
	return s
}
