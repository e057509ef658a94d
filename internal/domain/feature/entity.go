// internal/domain/feature/entity.go
package feature

// Category groups features for display and plan comparison.
type Category string

const (
	CategorySocialMedia Category = "social_media"
	CategoryLinkInBio   Category = "link_in_bio"
	CategoryEcommerce   Category = "ecommerce"
	CategoryCourses     Category = "courses"
	CategoryCRM         Category = "crm"
	CategoryAnalytics   Category = "analytics"
	CategoryEnterprise  Category = "enterprise"
)

// Feature is a toggleable unit of platform functionality, priced
// individually under paid plans. Essential marks recommended defaults;
// it is advisory only and never enforced as a mandatory inclusion.
type Feature struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Essential bool     `json:"essential"`
}
