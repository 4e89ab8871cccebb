package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/domain/repositories"
	"slotzi.backend/internal/domain/services"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/pkg/crypto"
	"slotzi.backend/pkg/logger"
	"slotzi.backend/pkg/saga"
	"slotzi.backend/pkg/utils"
)

const (
	businessCreateSaga = "business_create"
	businessUpdateSaga = "business_update"

	logoFolder  = "logos"
	coverFolder = "covers"
)

var generateVerificationToken = crypto.GenerateVerificationToken

// BusinessStores groups the single-table repositories a business spans
type BusinessStores struct {
	Businesses repositories.BusinessRepository
	Locations  repositories.LocationRepository
	Emails     repositories.EmailRepository
	Contacts   repositories.ContactRepository
	Relations  repositories.BusinessUserRepository
	Categories repositories.CategoryRepository
	Users      repositories.UserRepository
	UpdateLogs repositories.BusinessUpdateLogRepository
}

// BusinessUsecase handles the business aggregate. Multi-table writes run as
// compensating sagas because the store offers no cross-table transactions.
type BusinessUsecase struct {
	stores BusinessStores
	media  services.MediaStore
	mailer services.EmailDispatcher
	locker repositories.Locker
}

// NewBusinessUsecase creates a new business usecase
func NewBusinessUsecase(
	stores BusinessStores,
	media services.MediaStore,
	mailer services.EmailDispatcher,
	locker repositories.Locker,
) *BusinessUsecase {
	return &BusinessUsecase{
		stores: stores,
		media:  media,
		mailer: mailer,
		locker: locker,
	}
}

// CreateBusiness registers a business with the acting user as its Owner
func (u *BusinessUsecase) CreateBusiness(ctx context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error) {
	owner, err := u.resolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateCreateBusiness(input); err != nil {
		return nil, err
	}

	category, err := u.stores.Categories.GetByName(ctx, strings.TrimSpace(input.CategoryName))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Category not found")
		}
		return nil, err
	}
	if err := u.ensurePrimaryEmailFree(ctx, input.PrimaryEmail, uuid.Nil); err != nil {
		return nil, err
	}
	token, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	location := &entities.Location{
		Line1:   strings.TrimSpace(input.Location.Line1),
		Line2:   strings.TrimSpace(input.Location.Line2),
		Line3:   strings.TrimSpace(input.Location.Line3),
		Country: strings.TrimSpace(input.Location.Country),
	}
	business := &entities.Business{
		BusinessProfile: entities.BusinessProfile{
			Name:          strings.TrimSpace(input.Name),
			CategoryID:    category.ID,
			Website:       optional(input.Website),
			Description:   optional(input.Description),
			OpeningHour:   optional(input.OpeningHour),
			ClosingHour:   optional(input.ClosingHour),
			FacebookLink:  optional(input.FacebookLink),
			InstagramLink: optional(input.InstagramLink),
			TwitterLink:   optional(input.TwitterLink),
		},
		VerificationToken: null.StringFrom(token),
	}

	s := saga.New(businessCreateSaga, metrics.SagaObserver())
	err = s.Run(ctx,
		u.uploadStep("upload_logo", input.Logo, logoFolder, &business.Logo),
		u.uploadStep("upload_cover", input.Cover, coverFolder, &business.Cover),
		saga.Step{
			Name: "create_location",
			Do:   func(ctx context.Context) error { return u.stores.Locations.Create(ctx, location) },
			Compensate: func(ctx context.Context) error {
				if location.ID == uuid.Nil {
					return nil
				}
				return u.stores.Locations.Delete(ctx, location.ID)
			},
		},
		saga.Step{
			Name: "create_business",
			Do: func(ctx context.Context) error {
				business.LocationID = location.ID
				return u.stores.Businesses.Create(ctx, business)
			},
			Compensate: func(ctx context.Context) error {
				if business.ID == uuid.Nil {
					return nil
				}
				return u.stores.Businesses.Delete(ctx, business.ID)
			},
		},
		saga.Step{
			Name: "create_emails",
			Do: func(ctx context.Context) error {
				emails := []*entities.Email{{BusinessID: business.ID, Address: strings.TrimSpace(input.PrimaryEmail), Type: entities.EmailTypePrimary}}
				for _, e := range input.Emails {
					emails = append(emails, &entities.Email{BusinessID: business.ID, Address: strings.TrimSpace(e.Address), Type: e.Type})
				}
				return u.stores.Emails.CreateMany(ctx, emails)
			},
			Compensate: func(ctx context.Context) error { return u.stores.Emails.DeleteByBusiness(ctx, business.ID) },
		},
		saga.Step{
			Name: "create_contacts",
			Do: func(ctx context.Context) error {
				return u.stores.Contacts.CreateMany(ctx, contactsFor(business.ID, input.Contacts))
			},
			Compensate: func(ctx context.Context) error { return u.stores.Contacts.DeleteByBusiness(ctx, business.ID) },
		},
		saga.Step{
			Name: "create_owner",
			Do: func(ctx context.Context) error {
				return u.stores.Relations.Create(ctx, &entities.BusinessUser{
					UserID:       owner.ID,
					BusinessID:   business.ID,
					Type:         entities.RelationOwner,
					SupervisorID: owner.ID,
					IsVerified:   true,
				})
			},
			Compensate: func(ctx context.Context) error { return u.stores.Relations.DeleteByBusiness(ctx, business.ID) },
		},
		saga.Step{
			Name: "send_verification",
			Do: func(ctx context.Context) error {
				return u.mailer.SendBusinessVerification(ctx, strings.TrimSpace(input.PrimaryEmail), token)
			},
		},
		saga.Step{
			Name: "write_log",
			Do: func(ctx context.Context) error {
				return u.stores.UpdateLogs.Create(ctx, &entities.BusinessUpdateLog{
					BusinessID:  business.ID,
					UserID:      owner.ID,
					Description: "Business created",
				})
			},
		},
	)
	metrics.ObserveSaga(businessCreateSaga, err)
	if err != nil {
		logSagaFailure(ctx, err)
		return nil, rolledBack("Failed to create business, changes have been rolled back", err)
	}

	logger.Info(ctx, "Business created", zap.String("business_id", business.ID.String()), zap.String("owner_id", owner.ID.String()))
	return business, nil
}

// GetBusiness returns a business with its location, emails, contacts and relations
func (u *BusinessUsecase) GetBusiness(ctx context.Context, id uuid.UUID) (*entities.BusinessDetail, error) {
	business, err := u.getBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &entities.BusinessDetail{Business: business}
	if category, err := u.stores.Categories.GetByID(ctx, business.CategoryID); err == nil {
		detail.Category = category
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if detail.Location, err = u.stores.Locations.GetByID(ctx, business.LocationID); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if detail.Emails, err = u.stores.Emails.ListByBusiness(ctx, id); err != nil {
		return nil, err
	}
	if detail.Contacts, err = u.stores.Contacts.ListByBusiness(ctx, id); err != nil {
		return nil, err
	}
	if detail.Relations, err = u.stores.Relations.ListByBusiness(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListBusinesses returns one page of businesses
func (u *BusinessUsecase) ListBusinesses(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Business, utils.PaginationMeta, error) {
	items, total, err := u.stores.Businesses.List(ctx, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

// ListUpdateLogs returns the latest audit entries of a business
func (u *BusinessUsecase) ListUpdateLogs(ctx context.Context, id uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error) {
	if _, err := u.getBusiness(ctx, id); err != nil {
		return nil, err
	}
	return u.stores.UpdateLogs.ListByBusiness(ctx, id, limit)
}

// DeleteBusiness removes a business and its owned rows. Only the Owner may do this.
func (u *BusinessUsecase) DeleteBusiness(ctx context.Context, userID, id uuid.UUID) error {
	actor, err := u.resolveActor(ctx, userID)
	if err != nil {
		return err
	}
	business, err := u.getBusiness(ctx, id)
	if err != nil {
		return err
	}
	rel, err := u.stores.Relations.GetByUserAndBusiness(ctx, actor.ID, id)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}
	if rel == nil || rel.Type != entities.RelationOwner {
		return domainerrors.Forbidden("only the owner can delete a business")
	}

	return u.locker.WithLock(ctx, businessLockKey(id), func(ctx context.Context) error {
		if err := u.stores.Businesses.Delete(ctx, id); err != nil {
			return err
		}
		if err := u.stores.Emails.DeleteByBusiness(ctx, id); err != nil {
			return err
		}
		if err := u.stores.Contacts.DeleteByBusiness(ctx, id); err != nil {
			return err
		}
		if err := u.stores.Relations.DeleteByBusiness(ctx, id); err != nil {
			return err
		}
		if err := u.stores.Locations.Delete(ctx, business.LocationID); err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		logger.Info(ctx, "Business deleted", zap.String("business_id", id.String()))
		return nil
	})
}

// VerifyBusinessEmail confirms the primary email of the business owning token
func (u *BusinessUsecase) VerifyBusinessEmail(ctx context.Context, token string) (*entities.Business, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainerrors.BadRequest("verification token is required")
	}
	business, err := u.stores.Businesses.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("invalid or expired verification link")
		}
		return nil, err
	}
	if err := u.stores.Businesses.MarkVerified(ctx, business.ID); err != nil {
		return nil, err
	}
	business.IsVerified = true
	business.VerificationToken = null.String{}
	return business, nil
}

func (u *BusinessUsecase) resolveActor(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	if userID == uuid.Nil {
		return nil, domainerrors.Unauthorized("Invalid user")
	}
	user, err := u.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Invalid user")
		}
		return nil, err
	}
	return user, nil
}

func (u *BusinessUsecase) getBusiness(ctx context.Context, id uuid.UUID) (*entities.Business, error) {
	business, err := u.stores.Businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Business not found")
		}
		return nil, err
	}
	return business, nil
}

// ensurePrimaryEmailFree rejects a primary address already owned by another business.
func (u *BusinessUsecase) ensurePrimaryEmailFree(ctx context.Context, address string, businessID uuid.UUID) error {
	owners, err := u.stores.Emails.FindByAddress(ctx, strings.TrimSpace(address), entities.EmailTypePrimary)
	if err != nil {
		return err
	}
	for _, e := range owners {
		if e.BusinessID != businessID {
			return domainerrors.Conflict("Primary email is already registered to another business")
		}
	}
	return nil
}

// uploadStep stores an image and writes its public URL to target. The
// uploaded object is deleted on compensation.
func (u *BusinessUsecase) uploadStep(name string, upload *entities.MediaUpload, folder string, target *null.String) saga.Step {
	if upload == nil {
		return saga.Step{Name: name}
	}
	var url string
	return saga.Step{
		Name: name,
		Do: func(ctx context.Context) error {
			var err error
			url, err = u.media.UploadImage(ctx, upload, folder)
			if err != nil {
				return err
			}
			*target = null.StringFrom(url)
			return nil
		},
		Compensate: func(ctx context.Context) error {
			if url == "" {
				return nil
			}
			return u.media.Delete(ctx, url)
		},
	}
}

func validateCreateBusiness(input *entities.CreateBusinessInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.BadRequest("Business name is required")
	}
	if strings.TrimSpace(input.CategoryName) == "" {
		return domainerrors.BadRequest("Category is required")
	}
	if !entities.ValidEmail(strings.TrimSpace(input.PrimaryEmail)) {
		return domainerrors.BadRequest("Invalid primary email")
	}
	if err := validateEmails(input.Emails); err != nil {
		return err
	}
	for _, e := range input.Emails {
		if e.Type == entities.EmailTypePrimary {
			return domainerrors.BadRequest("Only one primary email is allowed")
		}
	}
	if err := validateLocation(&input.Location); err != nil {
		return err
	}
	if err := validateContacts(input.Contacts); err != nil {
		return err
	}
	for _, hour := range []string{input.OpeningHour, input.ClosingHour} {
		if hour != "" && !entities.ValidHour(hour) {
			return domainerrors.BadRequest("Hours must use the HH:MM:SS format")
		}
	}
	return nil
}

func validateEmails(emails []entities.EmailInput) error {
	seen := make(map[entities.EmailType]struct{}, len(emails))
	for _, e := range emails {
		if !e.Type.Valid() {
			return domainerrors.BadRequest("Invalid email type: " + string(e.Type))
		}
		if !entities.ValidEmail(strings.TrimSpace(e.Address)) {
			return domainerrors.BadRequest("Invalid email address: " + e.Address)
		}
		if _, dup := seen[e.Type]; dup {
			return domainerrors.BadRequest("Duplicate email type: " + string(e.Type))
		}
		seen[e.Type] = struct{}{}
	}
	return nil
}

func validateLocation(l *entities.LocationInput) error {
	if strings.TrimSpace(l.Line1) == "" || strings.TrimSpace(l.Country) == "" {
		return domainerrors.BadRequest("Location line1 and country are required")
	}
	return nil
}

func validateContacts(contacts []entities.ContactInput) error {
	for _, c := range contacts {
		if !entities.ValidContactNumber(strings.TrimSpace(c.Number)) {
			return domainerrors.BadRequest("Invalid contact number: " + c.Number)
		}
	}
	return nil
}

func contactsFor(businessID uuid.UUID, inputs []entities.ContactInput) []*entities.Contact {
	contacts := make([]*entities.Contact, 0, len(inputs))
	for _, c := range inputs {
		contacts = append(contacts, &entities.Contact{
			BusinessID: businessID,
			Number:     strings.TrimSpace(c.Number),
			Type:       strings.TrimSpace(c.Type),
		})
	}
	return contacts
}

func optional(v string) null.String {
	v = strings.TrimSpace(v)
	if v == "" {
		return null.String{}
	}
	return null.StringFrom(v)
}

func rolledBack(message string, err error) *domainerrors.AppError {
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError, message, err)
}

func businessLockKey(id uuid.UUID) string {
	return "business:" + id.String()
}
