package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetshare/backend/internal/access"
	"github.com/budgetshare/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

var (
	ErrInviteNotAllowed = fmt.Errorf("%w: this email address cannot be invited", models.ErrValidation)
	ErrOwnerCannotLeave = fmt.Errorf("%w: the owner cannot leave the budget, transfer the ownership first", models.ErrConflict)
)

// GetBudgetMembers returns all memberships of a budget with their users.
// The OWNER is always listed first.
func (s *Service) GetBudgetMembers(ctx context.Context, userID, budgetID uuid.UUID) ([]models.BudgetUser, error) {
	db := s.db.WithContext(ctx)

	_, err := access.RequireMember(db, budgetID, userID)
	if err != nil {
		return nil, err
	}

	var members []models.BudgetUser
	err = db.
		Preload("User").
		Where(&models.BudgetUser{BudgetID: budgetID}).
		Order(fmt.Sprintf("CASE WHEN role = '%s' THEN 0 ELSE 1 END, created_at ASC", models.RoleOwner)).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// inviteAllowed checks the address against the configured patterns.
func (s *Service) inviteAllowed(email string) bool {
	if len(s.invitePatterns) == 0 {
		return true
	}

	for _, pattern := range s.invitePatterns {
		if glob.Glob(pattern, email) {
			return true
		}
	}

	return false
}

// InviteToBudget adds the user with the email address as MEMBER.
func (s *Service) InviteToBudget(ctx context.Context, userID, budgetID uuid.UUID, email string) (models.BudgetUser, error) {
	email = models.NormalizeEmail(email)
	if !s.inviteAllowed(email) {
		return models.BudgetUser{}, ErrInviteNotAllowed
	}

	var membership models.BudgetUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := access.RequireOwner(tx, budgetID, userID)
		if err != nil {
			return err
		}

		var invitee models.User
		err = tx.Where(&models.User{Email: email}).First(&invitee).Error
		if err != nil {
			return err
		}

		var count int64
		err = tx.Model(&models.BudgetUser{}).Where(&models.BudgetUser{BudgetID: budgetID, UserID: invitee.ID}).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrMembershipNotUnique
		}

		membership = models.BudgetUser{
			BudgetID: budgetID,
			UserID:   invitee.ID,
			Role:     models.RoleMember,
		}

		err = tx.Omit("User", "Budget").Create(&membership).Error
		if err != nil {
			return err
		}

		membership.User = invitee
		return nil
	})

	record("invite", err)
	if err != nil {
		return models.BudgetUser{}, err
	}

	return membership, nil
}

// RemoveUserFromBudget removes a member from a budget.
//
// The OWNER can remove every member but themselves. Members can only remove
// themselves, which is leaving the budget.
func (s *Service) RemoveUserFromBudget(ctx context.Context, callerID, budgetID, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := access.RequireMember(tx, budgetID, callerID)
		if err != nil {
			return err
		}

		if callerID == userID {
			if caller.Role == models.RoleOwner {
				return ErrOwnerCannotLeave
			}
			return tx.Where("id = ?", caller.ID).Delete(&models.BudgetUser{}).Error
		}

		if caller.Role != models.RoleOwner {
			return fmt.Errorf("%w: only the owner of the budget can remove other members", models.ErrForbidden)
		}

		var membership models.BudgetUser
		err = tx.Where(&models.BudgetUser{BudgetID: budgetID, UserID: userID}).First(&membership).Error
		if err != nil {
			return err
		}

		return tx.Where("id = ?", membership.ID).Delete(&models.BudgetUser{}).Error
	})

	record("remove_member", err)
	return err
}

// TransferOwnership makes another member the OWNER of the budget. The
// previous OWNER becomes a MEMBER.
func (s *Service) TransferOwnership(ctx context.Context, callerID, budgetID, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := access.RequireMember(tx, budgetID, callerID)
		if err != nil {
			return err
		}

		if owner.Role != models.RoleOwner {
			return fmt.Errorf("%w: only the owner of the budget can do this", models.ErrForbidden)
		}

		if callerID == userID {
			return nil
		}

		var target models.BudgetUser
		err = tx.Where(&models.BudgetUser{BudgetID: budgetID, UserID: userID}).First(&target).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return fmt.Errorf("%w: the new owner must be a member of the budget", models.ErrValidation)
		} else if err != nil {
			return err
		}

		err = tx.Model(&owner).Update("role", models.RoleMember).Error
		if err != nil {
			return err
		}

		return tx.Model(&target).Update("role", models.RoleOwner).Error
	})

	record("transfer_ownership", err)
	return err
}
