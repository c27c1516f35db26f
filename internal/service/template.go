package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type TemplateService struct {
	repo repository.TemplateRepository
}

func NewTemplateService(repo repository.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

type TemplateInput struct {
	Name       string
	Genre      string
	Structure  []models.TemplateChapter
	Layout     *models.PageLayout
	CoverStyle string
	Public     bool
}

func (s *TemplateService) Create(ctx context.Context, owner primitive.ObjectID, input TemplateInput) (*models.BookTemplate, error) {
	tpl := &models.BookTemplate{
		Owner:      owner,
		Name:       input.Name,
		Genre:      input.Genre,
		Structure:  input.Structure,
		Layout:     input.Layout,
		CoverStyle: input.CoverStyle,
		Public:     input.Public,
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) List(ctx context.Context, userID primitive.ObjectID) ([]models.BookTemplate, error) {
	return s.repo.FindVisible(ctx, userID)
}

func (s *TemplateService) Get(ctx context.Context, id, userID primitive.ObjectID) (*models.BookTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !tpl.Public && tpl.Owner != userID {
		return nil, ErrForbidden
	}
	return tpl, nil
}

// loadOwnedTemplate 範本的修改與刪除僅限擁有者
func (s *TemplateService) loadOwned(ctx context.Context, id, userID primitive.ObjectID, role string) (*models.BookTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tpl.Owner != userID && role != string(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, id, userID primitive.ObjectID, role string, input TemplateInput) (*models.BookTemplate, error) {
	tpl, err := s.loadOwned(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		tpl.Name = input.Name
	}
	if input.Genre != "" {
		tpl.Genre = input.Genre
	}
	if input.Structure != nil {
		tpl.Structure = input.Structure
	}
	if input.Layout != nil {
		tpl.Layout = input.Layout
	}
	if input.CoverStyle != "" {
		tpl.CoverStyle = input.CoverStyle
	}
	tpl.Public = input.Public

	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, id, userID primitive.ObjectID, role string) error {
	if _, err := s.loadOwned(ctx, id, userID, role); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
