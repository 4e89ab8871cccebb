package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// EmailType distinguishes the single primary address from the optional ones
type EmailType string

const (
	EmailTypePrimary   EmailType = "Primary"
	EmailTypeSecondary EmailType = "Secondary"
	EmailTypeSupport   EmailType = "Support"
	EmailTypeBilling   EmailType = "Billing"
)

// Valid reports whether t is a known email type.
func (t EmailType) Valid() bool {
	switch t {
	case EmailTypePrimary, EmailTypeSecondary, EmailTypeSupport, EmailTypeBilling:
		return true
	}
	return false
}

// BusinessProfile is the scalar part of a business that updates may touch
type BusinessProfile struct {
	Name          string      `json:"name"`
	CategoryID    uuid.UUID   `json:"categoryId"`
	Website       null.String `json:"website"`
	Description   null.String `json:"description"`
	OpeningHour   null.String `json:"openingHour"`
	ClosingHour   null.String `json:"closingHour"`
	FacebookLink  null.String `json:"facebookLink"`
	InstagramLink null.String `json:"instagramLink"`
	TwitterLink   null.String `json:"twitterLink"`
	Logo          null.String `json:"logo"`
	Cover         null.String `json:"cover"`
}

// Business is the aggregate root for location, emails, contacts, relations and floor plans
type Business struct {
	ID uuid.UUID `json:"id"`
	BusinessProfile
	LocationID        uuid.UUID   `json:"locationId"`
	IsVerified        bool        `json:"isVerified"`
	VerificationToken null.String `json:"-"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Location is the 1:1 address of a business
type Location struct {
	ID      uuid.UUID `json:"id"`
	Line1   string    `json:"line1"`
	Line2   string    `json:"line2"`
	Line3   string    `json:"line3"`
	Country string    `json:"country"`
}

// SameAddress compares address fields only.
func (l *Location) SameAddress(o *Location) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.Line1 == o.Line1 && l.Line2 == o.Line2 && l.Line3 == o.Line3 && l.Country == o.Country
}

// Email belongs to a business
type Email struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"businessId"`
	Address    string    `json:"emailAddress"`
	Type       EmailType `json:"emailType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Contact is a business phone number
type Contact struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"businessId"`
	Number     string    `json:"number"`
	Type       string    `json:"type"`
}

// Category groups businesses (restaurant, cafe, ...)
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BusinessUpdateLog is an append-only audit entry
type BusinessUpdateLog struct {
	ID          uuid.UUID `json:"id"`
	BusinessID  uuid.UUID `json:"businessId"`
	UserID      uuid.UUID `json:"userId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BusinessDetail is the read model returned by GET /businesses/:id
type BusinessDetail struct {
	Business  *Business       `json:"business"`
	Category  *Category       `json:"category,omitempty"`
	Location  *Location       `json:"location"`
	Emails    []*Email        `json:"emails"`
	Contacts  []*Contact      `json:"contacts"`
	Relations []*BusinessUser `json:"relations"`
}

// LocationInput is the desired address
type LocationInput struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	Line3   string `json:"line3"`
	Country string `json:"country"`
}

// EmailInput is a desired typed email
type EmailInput struct {
	Address string    `json:"emailAddress"`
	Type    EmailType `json:"emailType"`
}

// ContactInput is a desired phone number
type ContactInput struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// RelationInput names a user and the relation type they should hold
type RelationInput struct {
	Username string       `json:"username"`
	Type     RelationType `json:"type"`
}

// MediaUpload is an image received with a business form
type MediaUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateBusinessInput is the business registration form
type CreateBusinessInput struct {
	Name          string         `json:"name"`
	CategoryName  string         `json:"categoryName"`
	Website       string         `json:"website"`
	Description   string         `json:"description"`
	OpeningHour   string         `json:"openingHour"`
	ClosingHour   string         `json:"closingHour"`
	FacebookLink  string         `json:"facebookLink"`
	InstagramLink string         `json:"instagramLink"`
	TwitterLink   string         `json:"twitterLink"`
	PrimaryEmail  string         `json:"primaryEmail"`
	Emails        []EmailInput   `json:"emails"`
	Location      LocationInput  `json:"location"`
	Contacts      []ContactInput `json:"contacts"`
	Logo          *MediaUpload   `json:"-"`
	Cover         *MediaUpload   `json:"-"`
}

// BusinessPatch lists the parts of a business an update touches. Nil fields
// and nil slices are left alone; a non-nil empty slice replaces with nothing.
type BusinessPatch struct {
	Name          *string         `json:"name"`
	CategoryName  *string         `json:"categoryName"`
	Website       *string         `json:"website"`
	Description   *string         `json:"description"`
	OpeningHour   *string         `json:"openingHour"`
	ClosingHour   *string         `json:"closingHour"`
	FacebookLink  *string         `json:"facebookLink"`
	InstagramLink *string         `json:"instagramLink"`
	TwitterLink   *string         `json:"twitterLink"`
	Emails        []EmailInput    `json:"emails"`
	Location      *LocationInput  `json:"location"`
	Contacts      []ContactInput  `json:"contacts"`
	Relations     []RelationInput `json:"userRelations"`
	Logo          *MediaUpload    `json:"-"`
	Cover         *MediaUpload    `json:"-"`
}

// BusinessUpdateResult is returned by a successful update
type BusinessUpdateResult struct {
	BusinessID uuid.UUID `json:"businessId"`
	ChangeLog  []string  `json:"changeLogs"`
}
