package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/domain/repositories"
	"slotzi.backend/internal/domain/services"
	"slotzi.backend/pkg/logger"
)

// BusinessUserUsecase manages the Admin and Staff relations of a business.
// Owner relations are only ever created together with the business.
type BusinessUserUsecase struct {
	relationRepo repositories.BusinessUserRepository
	businessRepo repositories.BusinessRepository
	userRepo     repositories.UserRepository
	mailer       services.EmailDispatcher
}

func NewBusinessUserUsecase(
	relationRepo repositories.BusinessUserRepository,
	businessRepo repositories.BusinessRepository,
	userRepo repositories.UserRepository,
	mailer services.EmailDispatcher,
) *BusinessUserUsecase {
	return &BusinessUserUsecase{
		relationRepo: relationRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		mailer:       mailer,
	}
}

// CreateBusinessRelation links username to the business as Admin or Staff.
// The relation starts unverified and the supervisor receives a confirmation link.
func (u *BusinessUserUsecase) CreateBusinessRelation(ctx context.Context, supervisorID uuid.UUID, input *entities.CreateRelationInput) (*entities.BusinessUser, error) {
	if input.Type == entities.RelationOwner {
		return nil, domainerrors.BadRequest("Owner relations cannot be created directly")
	}
	if !input.Type.Assignable() {
		return nil, domainerrors.BadRequest("Relation type must be Admin or Staff")
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domainerrors.BadRequest("Username is required")
	}

	if _, err := u.businessRepo.GetByID(ctx, input.BusinessID); err != nil {
		return nil, notFoundAs(err, "Business not found")
	}
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	supervisor, err := u.userRepo.GetByID(ctx, supervisorID)
	if err != nil {
		return nil, notFoundAs(err, "Supervisor not found")
	}

	supervision, err := u.relationRepo.GetByUserAndBusiness(ctx, supervisor.ID, input.BusinessID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Forbidden("Supervisor is not related to this business")
		}
		return nil, err
	}
	if supervision.Type == entities.RelationStaff {
		return nil, domainerrors.Conflict("Staff members cannot supervise user relations")
	}

	if _, err := u.relationRepo.GetByUserAndBusiness(ctx, user.ID, input.BusinessID); err == nil {
		return nil, domainerrors.Conflict("User is already related to this business")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}
	relation := &entities.BusinessUser{
		UserID:            user.ID,
		BusinessID:        input.BusinessID,
		Type:              input.Type,
		SupervisorID:      supervisor.ID,
		VerificationToken: null.StringFrom(token),
	}
	if err := u.relationRepo.Create(ctx, relation); err != nil {
		return nil, err
	}

	if err := u.mailer.SendRelationVerification(ctx, supervisor.Email, token); err != nil {
		logger.Warn(ctx, "Failed to send relation verification",
			zap.String("relation_id", relation.ID.String()),
			zap.Error(err),
		)
	}
	return relation, nil
}

// ListRelationsByUser returns every business relation of username
func (u *BusinessUserUsecase) ListRelationsByUser(ctx context.Context, username string) ([]*entities.BusinessUser, error) {
	user, err := u.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, notFoundAs(err, "User not found")
	}
	return u.relationRepo.ListByUser(ctx, user.ID)
}

// ListRelationsByBusiness returns every relation of a business, Owner included
func (u *BusinessUserUsecase) ListRelationsByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error) {
	if _, err := u.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, notFoundAs(err, "Business not found")
	}
	return u.relationRepo.ListByBusiness(ctx, businessID)
}

// VerifyRelation confirms the relation holding token
func (u *BusinessUserUsecase) VerifyRelation(ctx context.Context, token string) (*entities.BusinessUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainerrors.BadRequest("verification token is required")
	}
	relation, err := u.relationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, notFoundAs(err, "invalid or expired verification link")
	}
	if err := u.relationRepo.MarkVerified(ctx, relation.ID); err != nil {
		return nil, err
	}
	relation.IsVerified = true
	relation.VerificationToken = null.String{}
	return relation, nil
}

// notFoundAs replaces a bare not-found with a client-facing message.
func notFoundAs(err error, message string) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(message)
	}
	return err
}
