package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

type CategoryService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewCategoryService(store storage.Store, resolver *auth.Resolver) *CategoryService {
	return &CategoryService{store: store, resolver: resolver}
}

// List returns the categories visible to the organization: its own plus the
// shared system defaults, optionally narrowed to one type.
func (s *CategoryService) List(ctx context.Context, profileID, orgID string, typ core.CategoryType) ([]core.Category, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}
	if typ != "" && !typ.Valid() {
		return nil, core.Invalid("type", "must be expense or income")
	}
	return s.store.CategoriesForOrganization(ctx, m.OrganizationID, typ)
}

type CreateCategoryInput struct {
	OrganizationID string
	Name           string
	Type           core.CategoryType
	Color          string
	Icon           string
	ParentID       string
}

func (s *CategoryService) Create(ctx context.Context, profileID string, in CreateCategoryInput) (core.Category, error) {
	m, err := s.resolver.Require(ctx, profileID, in.OrganizationID, auth.CapManageCategories)
	if err != nil {
		return core.Category{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return core.Category{}, core.Invalid("name", "empty")
	}
	if !in.Type.Valid() {
		return core.Category{}, core.Invalid("type", "must be expense or income")
	}

	if in.ParentID != "" {
		parent, err := s.store.CategoryByID(ctx, in.ParentID)
		if err != nil {
			return core.Category{}, core.Invalid("parent_category_id", "unknown category")
		}
		if !parent.IsSystemDefault && parent.OrganizationID != m.OrganizationID {
			return core.Category{}, core.Invalid("parent_category_id", "unknown category")
		}
		// One level of nesting only.
		if parent.ParentID != "" {
			return core.Category{}, core.Invalid("parent_category_id", "categories nest one level deep")
		}
		if parent.Type != in.Type {
			return core.Category{}, core.Invalid("parent_category_id", "parent has a different type")
		}
	}

	now := time.Now().UTC()
	c := core.Category{
		ID:             uuid.NewString(),
		OrganizationID: m.OrganizationID,
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		Color:          in.Color,
		Icon:           in.Icon,
		ParentID:       in.ParentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return c, nil
}

// Delete removes an organization-owned category. System defaults cannot be
// deleted; categories of other organizations read as missing.
func (s *CategoryService) Delete(ctx context.Context, profileID, orgID, id string) error {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageCategories)
	if err != nil {
		return err
	}

	c, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if c.IsSystemDefault {
		return core.ErrForbidden
	}
	if c.OrganizationID != m.OrganizationID {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}
	return s.store.DeleteCategory(ctx, id)
}
