package ledger

import (
	"context"
	"fmt"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCategoryInUse = fmt.Errorf("%w: the category still has transactions", models.ErrConflict)

type CategoryCreate struct {
	BudgetID uuid.UUID
	Name     string
	Type     models.CategoryType
	Limit    decimal.Decimal
}

// CategoryUpdate contains the fields to change. nil fields are not changed.
type CategoryUpdate struct {
	Name  *string
	Limit *decimal.Decimal
}

// AddCategoryToBudget creates a category. Only the OWNER can do this.
func (s *Service) AddCategoryToBudget(ctx context.Context, userID uuid.UUID, create CategoryCreate) (models.Category, error) {
	category := models.Category{
		BudgetID: create.BudgetID,
		Name:     create.Name,
		Type:     create.Type,
		Limit:    create.Limit,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := access.RequireOwner(tx, create.BudgetID, userID)
		if err != nil {
			return err
		}

		return tx.Omit("Budget").Create(&category).Error
	})

	record("add_category", err)
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// UpdateCategory changes name and limit of a category. The type cannot be
// changed since it determines the sign of all existing transactions.
func (s *Service) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, update CategoryUpdate) (models.Category, error) {
	var category models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, "id = ?", categoryID).Error
		if err != nil {
			return err
		}

		err = access.RequireOwner(tx, category.BudgetID, userID)
		if err != nil {
			return err
		}

		var fields []any
		if update.Name != nil {
			category.Name = *update.Name
			fields = append(fields, "Name")
		}

		if update.Limit != nil {
			category.Limit = *update.Limit
			fields = append(fields, "Limit")
		}

		if len(fields) == 0 {
			return nil
		}

		return tx.Model(&category).Select(fields[0], fields[1:]...).Updates(&category).Error
	})

	record("update_category", err)
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}

// DeleteCategory deletes a category without transactions.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		err := tx.First(&category, "id = ?", categoryID).Error
		if err != nil {
			return err
		}

		err = access.RequireOwner(tx, category.BudgetID, userID)
		if err != nil {
			return err
		}

		var count int64
		err = tx.Model(&models.Transaction{}).Where(&models.Transaction{CategoryID: category.ID}).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}

		return tx.Where("id = ?", category.ID).Delete(&models.Category{}).Error
	})

	record("delete_category", err)
	return err
}

// GetCategoriesByBudget returns the categories of a budget sorted by name,
// optionally only those of one type.
func (s *Service) GetCategoriesByBudget(ctx context.Context, userID, budgetID uuid.UUID, categoryType *models.CategoryType) ([]models.Category, error) {
	db := s.db.WithContext(ctx)

	_, err := access.RequireMember(db, budgetID, userID)
	if err != nil {
		return nil, err
	}

	q := db.Where(&models.Category{BudgetID: budgetID}).Order("name ASC")
	if categoryType != nil {
		if !categoryType.Valid() {
			return nil, models.ErrCategoryTypeInvalid
		}
		q = q.Where(&models.Category{Type: *categoryType})
	}

	var categories []models.Category
	err = q.Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// GetCategory returns a category of a budget the user is a member of.
func (s *Service) GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (models.Category, error) {
	db := s.db.WithContext(ctx)

	var category models.Category
	err := db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		return models.Category{}, err
	}

	_, err = access.RequireMember(db, category.BudgetID, userID)
	if err != nil {
		return models.Category{}, err
	}

	return category, nil
}
