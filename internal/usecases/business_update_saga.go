package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/pkg/logger"
	"slotzi.backend/pkg/saga"
)

const noChangesLine = "No changes were made."

// businessUpdate is the rollback buffer and write plan of one update.
// Snapshots are taken before any mutation.
type businessUpdate struct {
	actor    *entities.User
	patch    *entities.BusinessPatch
	business *entities.Business
	next     entities.BusinessProfile

	location  *entities.Location
	emails    []*entities.Email
	contacts  []*entities.Contact
	relations []*entities.BusinessUser

	primaryFrom     *entities.Email
	primaryTo       string
	emailUpdates    map[uuid.UUID]string
	emailInserts    []*entities.Email
	newLocation     *entities.Location
	newContacts     []*entities.Contact
	newRelations    []*entities.BusinessUser
	pendingRequests []*entities.BusinessUser

	changes []string
}

// UpdateBusiness applies patch to a business. Sections are written in a fixed
// order (emails, location, contacts, relations, media, scalar fields) and
// each written section registers a compensation that restores its snapshot.
// Updates of one business are serialized by a lease.
func (u *BusinessUsecase) UpdateBusiness(ctx context.Context, userID, businessID uuid.UUID, patch *entities.BusinessPatch) (*entities.BusinessUpdateResult, error) {
	actor, err := u.resolveActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateBusinessPatch(patch); err != nil {
		return nil, err
	}

	ctx = logger.WithBusiness(ctx, businessID.String())
	var result *entities.BusinessUpdateResult
	err = u.locker.WithLock(ctx, businessLockKey(businessID), func(ctx context.Context) error {
		plan, err := u.prepareUpdate(ctx, actor, businessID, patch)
		if err != nil {
			return err
		}
		if err := u.applyUpdate(ctx, plan); err != nil {
			return err
		}
		result = &entities.BusinessUpdateResult{BusinessID: businessID, ChangeLog: plan.changeLog()}
		u.notifySupervisor(ctx, plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *BusinessUsecase) prepareUpdate(ctx context.Context, actor *entities.User, businessID uuid.UUID, patch *entities.BusinessPatch) (*businessUpdate, error) {
	business, err := u.getBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	membership, err := u.stores.Relations.GetByUserAndBusiness(ctx, actor.ID, businessID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Forbidden("User is not allowed to manage this business")
		}
		return nil, err
	}
	if patch.Relations != nil && membership.Type == entities.RelationStaff {
		return nil, domainerrors.Conflict("Staff members cannot supervise user relations")
	}

	plan := &businessUpdate{
		actor:        actor,
		patch:        patch,
		business:     business,
		next:         business.BusinessProfile,
		emailUpdates: make(map[uuid.UUID]string),
	}
	if plan.location, err = u.stores.Locations.GetByID(ctx, business.LocationID); err != nil {
		return nil, err
	}
	if plan.emails, err = u.stores.Emails.ListByBusiness(ctx, businessID); err != nil {
		return nil, err
	}
	if plan.contacts, err = u.stores.Contacts.ListByBusiness(ctx, businessID); err != nil {
		return nil, err
	}
	if plan.relations, err = u.stores.Relations.ListByBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	if err := u.planScalars(ctx, plan); err != nil {
		return nil, err
	}
	if err := u.planEmails(ctx, plan); err != nil {
		return nil, err
	}
	planLocation(plan)
	planContacts(plan)
	if err := u.planRelations(ctx, plan); err != nil {
		return nil, err
	}
	if patch.Logo != nil {
		plan.changes = append(plan.changes, "Logo updated")
	}
	if patch.Cover != nil {
		plan.changes = append(plan.changes, "Cover image updated")
	}
	return plan, nil
}

func (u *BusinessUsecase) planScalars(ctx context.Context, plan *businessUpdate) error {
	patch, current := plan.patch, plan.business

	if v := trimmed(patch.Name); v != "" && v != current.Name {
		plan.changes = append(plan.changes, fmt.Sprintf("Business name changed from %q to %q", current.Name, v))
		plan.next.Name = v
	}

	if v := trimmed(patch.CategoryName); v != "" {
		category, err := u.stores.Categories.GetByName(ctx, v)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("Category not found")
			}
			return err
		}
		if category.ID != current.CategoryID {
			oldName := ""
			if old, err := u.stores.Categories.GetByID(ctx, current.CategoryID); err == nil {
				oldName = old.Name
			}
			plan.changes = append(plan.changes, fmt.Sprintf("Category changed from %q to %q", oldName, v))
			plan.next.CategoryID = category.ID
		}
	}

	texts := []struct {
		label string
		value *string
		field *null.String
	}{
		{"Website", patch.Website, &plan.next.Website},
		{"Description", patch.Description, &plan.next.Description},
		{"Opening hour", patch.OpeningHour, &plan.next.OpeningHour},
		{"Closing hour", patch.ClosingHour, &plan.next.ClosingHour},
		{"Facebook link", patch.FacebookLink, &plan.next.FacebookLink},
		{"Instagram link", patch.InstagramLink, &plan.next.InstagramLink},
		{"Twitter link", patch.TwitterLink, &plan.next.TwitterLink},
	}
	for _, t := range texts {
		v := trimmed(t.value)
		if v == "" || (t.field.Valid && t.field.String == v) {
			continue
		}
		plan.changes = append(plan.changes, fmt.Sprintf("%s changed from %q to %q", t.label, t.field.String, v))
		*t.field = null.StringFrom(v)
	}
	return nil
}

func (u *BusinessUsecase) planEmails(ctx context.Context, plan *businessUpdate) error {
	if plan.patch.Emails == nil {
		return nil
	}
	byType := make(map[entities.EmailType]*entities.Email, len(plan.emails))
	for _, e := range plan.emails {
		if _, ok := byType[e.Type]; !ok {
			byType[e.Type] = e
		}
	}

	for _, in := range plan.patch.Emails {
		address := strings.TrimSpace(in.Address)
		current := byType[in.Type]
		if current != nil && current.Address == address {
			continue
		}

		if in.Type == entities.EmailTypePrimary {
			if err := u.ensurePrimaryEmailFree(ctx, address, plan.business.ID); err != nil {
				return err
			}
			plan.primaryFrom, plan.primaryTo = current, address
			from := ""
			if current != nil {
				from = current.Address
			}
			plan.changes = append(plan.changes, fmt.Sprintf("Primary email updated from %q to %q", from, address))
			continue
		}

		if current == nil {
			plan.emailInserts = append(plan.emailInserts, &entities.Email{BusinessID: plan.business.ID, Address: address, Type: in.Type})
			plan.changes = append(plan.changes, fmt.Sprintf("Non-primary email (type %s) added %q", in.Type, address))
			continue
		}
		plan.emailUpdates[current.ID] = address
		plan.changes = append(plan.changes, fmt.Sprintf("Non-primary email (type %s) updated from %q to %q", in.Type, current.Address, address))
	}
	return nil
}

func planLocation(plan *businessUpdate) {
	in := plan.patch.Location
	if in == nil {
		return
	}
	next := &entities.Location{
		ID:      plan.location.ID,
		Line1:   strings.TrimSpace(in.Line1),
		Line2:   strings.TrimSpace(in.Line2),
		Line3:   strings.TrimSpace(in.Line3),
		Country: strings.TrimSpace(in.Country),
	}
	if next.SameAddress(plan.location) {
		return
	}
	plan.newLocation = next
	plan.changes = append(plan.changes, "Location updated")
}

func planContacts(plan *businessUpdate) {
	if plan.patch.Contacts == nil {
		return
	}
	next := contactsFor(plan.business.ID, plan.patch.Contacts)
	if sameContacts(plan.contacts, next) {
		return
	}
	plan.newContacts = next
	plan.changes = append(plan.changes, "Contacts updated")
}

func (u *BusinessUsecase) planRelations(ctx context.Context, plan *businessUpdate) error {
	if plan.patch.Relations == nil {
		return nil
	}

	type pair struct {
		user uuid.UUID
		kind entities.RelationType
	}
	existing := make(map[pair]*entities.BusinessUser, len(plan.relations))
	owners := make(map[uuid.UUID]bool)
	for _, r := range plan.relations {
		if r.Type == entities.RelationOwner {
			owners[r.UserID] = true
			continue
		}
		existing[pair{r.UserID, r.Type}] = r
	}

	next := make([]*entities.BusinessUser, 0, len(plan.patch.Relations))
	for _, in := range plan.patch.Relations {
		user, err := u.stores.Users.GetByUsername(ctx, strings.TrimSpace(in.Username))
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("User not found: " + in.Username)
			}
			return err
		}
		if owners[user.ID] {
			continue
		}

		rel := &entities.BusinessUser{
			UserID:       user.ID,
			BusinessID:   plan.business.ID,
			Type:         in.Type,
			SupervisorID: plan.actor.ID,
		}
		if prev, ok := existing[pair{user.ID, in.Type}]; ok && prev.IsVerified {
			rel.SupervisorID = prev.SupervisorID
			rel.IsVerified = true
		} else {
			token, err := generateVerificationToken()
			if err != nil {
				return err
			}
			rel.VerificationToken = null.StringFrom(token)
			plan.pendingRequests = append(plan.pendingRequests, rel)
		}
		next = append(next, rel)
	}

	if len(next) == len(existing) {
		same := true
		for _, rel := range next {
			prev, ok := existing[pair{rel.UserID, rel.Type}]
			if !ok || prev.IsVerified != rel.IsVerified {
				same = false
				break
			}
		}
		if same {
			plan.pendingRequests = nil
			return nil
		}
	}
	plan.newRelations = next
	plan.changes = append(plan.changes, "Users updated")
	return nil
}

func (u *BusinessUsecase) applyUpdate(ctx context.Context, plan *businessUpdate) error {
	businessID := plan.business.ID
	s := saga.New(businessUpdateSaga, metrics.SagaObserver())

	var verificationToken string
	steps := []saga.Step{}
	if plan.primaryTo != "" || len(plan.emailUpdates) > 0 || len(plan.emailInserts) > 0 {
		steps = append(steps, saga.Step{
			Name: "emails",
			Do: func(ctx context.Context) error {
				for id, address := range plan.emailUpdates {
					if err := u.stores.Emails.UpdateAddress(ctx, id, address); err != nil {
						return err
					}
				}
				if err := u.stores.Emails.CreateMany(ctx, plan.emailInserts); err != nil {
					return err
				}
				if plan.primaryTo == "" {
					return nil
				}
				if plan.primaryFrom != nil {
					if err := u.stores.Emails.UpdateAddress(ctx, plan.primaryFrom.ID, plan.primaryTo); err != nil {
						return err
					}
				} else if err := u.stores.Emails.Create(ctx, &entities.Email{BusinessID: businessID, Address: plan.primaryTo, Type: entities.EmailTypePrimary}); err != nil {
					return err
				}
				token, err := generateVerificationToken()
				if err != nil {
					return err
				}
				verificationToken = token
				if err := u.stores.Businesses.SetVerification(ctx, businessID, false, null.StringFrom(token)); err != nil {
					return err
				}
				return u.mailer.SendBusinessVerification(ctx, plan.primaryTo, token)
			},
			Compensate: func(ctx context.Context) error {
				if err := u.stores.Emails.DeleteByBusiness(ctx, businessID); err != nil {
					return err
				}
				if err := u.stores.Emails.CreateMany(ctx, plan.emails); err != nil {
					return err
				}
				if verificationToken == "" {
					return nil
				}
				return u.stores.Businesses.SetVerification(ctx, businessID, plan.business.IsVerified, plan.business.VerificationToken)
			},
		})
	}

	if plan.newLocation != nil {
		steps = append(steps, saga.Step{
			Name:       "location",
			Do:         func(ctx context.Context) error { return u.stores.Locations.Update(ctx, plan.newLocation) },
			Compensate: func(ctx context.Context) error { return u.stores.Locations.Update(ctx, plan.location) },
		})
	}

	if plan.newContacts != nil {
		steps = append(steps, saga.Step{
			Name: "contacts",
			Do: func(ctx context.Context) error {
				if err := u.stores.Contacts.DeleteByBusiness(ctx, businessID); err != nil {
					return err
				}
				return u.stores.Contacts.CreateMany(ctx, plan.newContacts)
			},
			Compensate: func(ctx context.Context) error {
				if err := u.stores.Contacts.DeleteByBusiness(ctx, businessID); err != nil {
					return err
				}
				return u.stores.Contacts.CreateMany(ctx, plan.contacts)
			},
		})
	}

	if plan.newRelations != nil {
		steps = append(steps, saga.Step{
			Name: "relations",
			Do: func(ctx context.Context) error {
				if err := u.stores.Relations.DeleteNonOwnerByBusiness(ctx, businessID); err != nil {
					return err
				}
				return u.stores.Relations.CreateMany(ctx, plan.newRelations)
			},
			Compensate: func(ctx context.Context) error {
				if err := u.stores.Relations.DeleteNonOwnerByBusiness(ctx, businessID); err != nil {
					return err
				}
				previous := make([]*entities.BusinessUser, 0, len(plan.relations))
				for _, r := range plan.relations {
					if r.Type != entities.RelationOwner {
						previous = append(previous, r)
					}
				}
				return u.stores.Relations.CreateMany(ctx, previous)
			},
		})
	}

	steps = append(steps,
		u.uploadStep("upload_logo", plan.patch.Logo, logoFolder, &plan.next.Logo),
		u.uploadStep("upload_cover", plan.patch.Cover, coverFolder, &plan.next.Cover),
		saga.Step{
			Name: "business",
			Do: func(ctx context.Context) error {
				if plan.next == plan.business.BusinessProfile {
					return nil
				}
				return u.stores.Businesses.UpdateProfile(ctx, businessID, plan.next)
			},
			Compensate: func(ctx context.Context) error {
				return u.stores.Businesses.UpdateProfile(ctx, businessID, plan.business.BusinessProfile)
			},
		},
		saga.Step{
			Name: "update_log",
			Do: func(ctx context.Context) error {
				return u.stores.UpdateLogs.Create(ctx, &entities.BusinessUpdateLog{
					BusinessID:  businessID,
					UserID:      plan.actor.ID,
					Description: renderUpdateLog(plan.changes),
				})
			},
		},
	)

	err := s.Run(ctx, steps...)
	metrics.ObserveSaga(businessUpdateSaga, err)
	if err != nil {
		logSagaFailure(ctx, err)
		return rolledBack("Failed to update business, changes have been rolled back", err)
	}
	logger.Info(ctx, "Business updated", zap.Int("changes", len(plan.changes)))
	return nil
}

// notifySupervisor mails the acting user one confirmation link per new
// relation. Failures are logged; the relations stay pending.
func (u *BusinessUsecase) notifySupervisor(ctx context.Context, plan *businessUpdate) {
	if plan.newRelations == nil {
		return
	}
	for _, rel := range plan.pendingRequests {
		if err := u.mailer.SendRelationVerification(ctx, plan.actor.Email, rel.VerificationToken.String); err != nil {
			logger.Warn(ctx, "Failed to send relation verification",
				zap.String("user_id", rel.UserID.String()),
				zap.Error(err),
			)
		}
	}
}

func (p *businessUpdate) changeLog() []string {
	if len(p.changes) == 0 {
		return []string{noChangesLine}
	}
	return p.changes
}

// renderUpdateLog formats change lines as a single audit description.
func renderUpdateLog(changes []string) string {
	if len(changes) == 0 {
		changes = []string{noChangesLine}
	}
	return "Business updated:\n" + strings.Join(changes, "\n")
}

func validateBusinessPatch(patch *entities.BusinessPatch) error {
	if patch == nil {
		return domainerrors.BadRequest("No updates provided")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domainerrors.BadRequest("Business name cannot be empty")
	}
	if err := validateEmails(patch.Emails); err != nil {
		return err
	}
	if patch.Location != nil {
		if err := validateLocation(patch.Location); err != nil {
			return err
		}
	}
	if err := validateContacts(patch.Contacts); err != nil {
		return err
	}
	for _, hour := range []*string{patch.OpeningHour, patch.ClosingHour} {
		if v := trimmed(hour); v != "" && !entities.ValidHour(v) {
			return domainerrors.BadRequest("Hours must use the HH:MM:SS format")
		}
	}
	seen := make(map[string]struct{}, len(patch.Relations))
	for _, r := range patch.Relations {
		if !r.Type.Assignable() {
			return domainerrors.BadRequest("Relation type must be Admin or Staff")
		}
		name := strings.TrimSpace(r.Username)
		if name == "" {
			return domainerrors.BadRequest("Relation username is required")
		}
		if _, dup := seen[name]; dup {
			return domainerrors.BadRequest("Duplicate relation for user " + name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func sameContacts(a, b []*entities.Contact) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Number != b[i].Number || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
