package service

import (
	"context"

	"go.uber.org/zap"

	"swag-shop/internal/core/logger"
	"swag-shop/internal/domain"
)

type CatalogService struct {
	tx  SnapshotTx
	log *zap.Logger
}

func NewCatalogService(tx SnapshotTx, l *zap.Logger) *CatalogService {
	return &CatalogService{tx: tx, log: l}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Swag, error) {
	var out []domain.Swag
	err := s.tx.View(ctx, func(snap *domain.Snapshot) error {
		out = snap.Swags
		return nil
	})
	return out, err
}

func (s *CatalogService) Create(ctx context.Context, attrs SwagAttrs) (domain.Swag, error) {
	var created domain.Swag
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		sw, err := CreateSwag(snap.Swags, attrs)
		if err != nil {
			return err
		}
		snap.Swags = append(snap.Swags, sw)
		created = sw
		return nil
	})
	if err != nil {
		return domain.Swag{}, err
	}
	logger.Ctx(ctx, s.log).Info("swag created", zap.Int("swag_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Edit replaces the swag with the given id and returns the submitted swag.
// Editing an unknown id changes nothing and is not an error.
func (s *CatalogService) Edit(ctx context.Context, id int, attrs SwagAttrs) (domain.Swag, error) {
	var (
		edited domain.Swag
		found  bool
	)
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		out, e, ok, err := EditSwag(snap.Swags, id, attrs)
		if err != nil {
			return err
		}
		snap.Swags, edited, found = out, e, ok
		return nil
	})
	if err != nil {
		return domain.Swag{}, err
	}
	if !found {
		logger.Ctx(ctx, s.log).Warn("edit of unknown swag ignored", zap.Int("swag_id", id))
	}
	return edited, nil
}

// Delete removes the swag; unknown ids are a no-op.
func (s *CatalogService) Delete(ctx context.Context, id int) error {
	var found bool
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Swags, found = DeleteSwag(snap.Swags, id)
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		logger.Ctx(ctx, s.log).Warn("delete of unknown swag ignored", zap.Int("swag_id", id))
	}
	return nil
}

// Seed appends swags to the catalog, assigning fresh ids. Used by the admin CLI.
func (s *CatalogService) Seed(ctx context.Context, items []SwagAttrs) ([]domain.Swag, error) {
	var created []domain.Swag
	err := s.tx.Update(ctx, func(snap *domain.Snapshot) error {
		for _, a := range items {
			sw, err := CreateSwag(snap.Swags, a)
			if err != nil {
				return err
			}
			snap.Swags = append(snap.Swags, sw)
			created = append(created, sw)
		}
		return nil
	})
	return created, err
}
