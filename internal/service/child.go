package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/transport"
)

type ChildService struct {
	Repo *repo.GormRepo
}

func (s *ChildService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Child, error) {
	children, err := s.Repo.ListChildrenByParent(ctx, parentID)
	if err != nil {
		return nil, persistenceErr("list children", err)
	}
	return children, nil
}

func (s *ChildService) CreateChild(ctx context.Context, parentID uuid.UUID, req transport.CreateChildRequest) (*models.Child, error) {
	name := strings.TrimSpace(req.Name)
	class := strings.TrimSpace(req.ClassName)
	if name == "" || class == "" {
		return nil, fmt.Errorf("%w: name and class required", ErrValidation)
	}
	if parentID == uuid.Nil {
		return nil, fmt.Errorf("%w: parent id required", ErrValidation)
	}

	child := &models.Child{ParentID: parentID, Name: name, ClassName: class, IsActive: true}
	if err := s.Repo.CreateChild(ctx, child); err != nil {
		return nil, persistenceErr("create child", err)
	}
	return child, nil
}
