package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section names. Users and media are only ever written to the audit trail
// under these names; they are not content collections.
const (
	SectionBanners       = "banners"
	SectionProducts      = "products"
	SectionTestimonials  = "testimonials"
	SectionArticles      = "articles"
	SectionSEO           = "seo"
	SectionAboutStats    = "about_stats"
	SectionFooter        = "footer"
	SectionEMICalculator = "emi_calculator"
	SectionUsers         = "users"
	SectionMedia         = "media"
)

// SortKey orders a section's documents by one field of their data. Documents
// without the field come last; creation time breaks ties.
type SortKey struct {
	Field string
	Desc  bool
}

var (
	byOrderIndex    = &SortKey{Field: "order_index"}
	newestPublished = &SortKey{Field: "published_date", Desc: true}
)

// Section describes one content collection of the site.
type Section struct {
	Name string
	// Singleton sections hold one live document (footer, EMI config) and cannot be deleted.
	Singleton      bool
	RequiredFields []string
	// Sort is nil for sections listed in creation order
	Sort *SortKey
}

var contentSections = map[string]Section{
	SectionBanners:       {Name: SectionBanners, RequiredFields: []string{"title_en", "title_ta", "image_url"}, Sort: byOrderIndex},
	SectionProducts:      {Name: SectionProducts, RequiredFields: []string{"name_en", "name_ta", "interest_rate"}, Sort: byOrderIndex},
	SectionTestimonials:  {Name: SectionTestimonials, RequiredFields: []string{"name", "content_en", "content_ta"}, Sort: byOrderIndex},
	SectionArticles:      {Name: SectionArticles, RequiredFields: []string{"title_en", "title_ta", "content_en", "content_ta"}, Sort: newestPublished},
	SectionSEO:           {Name: SectionSEO, RequiredFields: []string{"page", "meta_title_en", "meta_title_ta"}},
	SectionAboutStats:    {Name: SectionAboutStats, Singleton: true},
	SectionFooter:        {Name: SectionFooter, Singleton: true},
	SectionEMICalculator: {Name: SectionEMICalculator, Singleton: true, RequiredFields: []string{"min_amount", "max_amount", "min_rate", "max_rate"}},
}

// LookupSection returns the descriptor of a content collection.
func LookupSection(name string) (Section, bool) {
	s, ok := contentSections[name]
	return s, ok
}

// IsKnownSection reports whether name may appear in the audit trail.
func IsKnownSection(name string) bool {
	if _, ok := contentSections[name]; ok {
		return true
	}
	return name == SectionUsers || name == SectionMedia
}

// ContentDocument stores one document of any content section. Data is the
// section-specific JSON object.
type ContentDocument struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Section   string          `gorm:"size:50;not null;index" json:"section"`
	Data      json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	Status    bool            `gorm:"not null;index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ContentDocument
func (ContentDocument) TableName() string {
	return "content_documents"
}

func (d *ContentDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ContentSnapshot is the audit representation of a document: everything the
// editor controls, without generated identifiers or timestamps.
type ContentSnapshot struct {
	Data   json.RawMessage `json:"data"`
	Status bool            `json:"status"`
}

// Snapshot returns the audit representation of d.
func (d *ContentDocument) Snapshot() ContentSnapshot {
	data := make(json.RawMessage, len(d.Data))
	copy(data, d.Data)
	return ContentSnapshot{Data: data, Status: d.Status}
}
