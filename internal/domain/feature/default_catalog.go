// internal/domain/feature/default_catalog.go
package feature

// DefaultCatalog is the deployed feature table. Order matters: listings
// and category grouping follow insertion order.
func DefaultCatalog() *Catalog {
	return MustNewCatalog([]Feature{
		// Social media
		{ID: "post_scheduling", Name: "Post Scheduling", Category: CategorySocialMedia, Essential: true},
		{ID: "content_calendar", Name: "Content Calendar", Category: CategorySocialMedia, Essential: true},
		{ID: "ai_content_generation", Name: "AI Content Generation", Category: CategorySocialMedia},
		{ID: "instagram_leads", Name: "Instagram Lead Generation", Category: CategorySocialMedia},
		{ID: "hashtag_suggestions", Name: "Hashtag Suggestions", Category: CategorySocialMedia},
		{ID: "multi_account_publishing", Name: "Multi-Account Publishing", Category: CategorySocialMedia},

		// Link in bio
		{ID: "bio_page", Name: "Bio Page", Category: CategoryLinkInBio, Essential: true},
		{ID: "custom_links", Name: "Custom Links", Category: CategoryLinkInBio, Essential: true},
		{ID: "link_analytics", Name: "Link Click Analytics", Category: CategoryLinkInBio},
		{ID: "qr_codes", Name: "QR Codes", Category: CategoryLinkInBio},

		// E-commerce
		{ID: "product_listings", Name: "Product Listings", Category: CategoryEcommerce, Essential: true},
		{ID: "marketplace", Name: "Marketplace Storefront", Category: CategoryEcommerce},
		{ID: "order_management", Name: "Order Management", Category: CategoryEcommerce},
		{ID: "discount_codes", Name: "Discount Codes", Category: CategoryEcommerce},
		{ID: "booking", Name: "Appointment Booking", Category: CategoryEcommerce},

		// Courses
		{ID: "course_builder", Name: "Course Builder", Category: CategoryCourses},
		{ID: "video_hosting", Name: "Video Hosting", Category: CategoryCourses},
		{ID: "quizzes", Name: "Quizzes & Assessments", Category: CategoryCourses},
		{ID: "certificates", Name: "Completion Certificates", Category: CategoryCourses},

		// CRM
		{ID: "contact_management", Name: "Contact Management", Category: CategoryCRM, Essential: true},
		{ID: "email_campaigns", Name: "Email Campaigns", Category: CategoryCRM},
		{ID: "lead_pipelines", Name: "Lead Pipelines", Category: CategoryCRM},

		// Analytics
		{ID: "engagement_analytics", Name: "Engagement Analytics", Category: CategoryAnalytics, Essential: true},
		{ID: "audience_insights", Name: "Audience Insights", Category: CategoryAnalytics},
		{ID: "competitor_tracking", Name: "Competitor Tracking", Category: CategoryAnalytics},

		// Enterprise
		{ID: "white_label", Name: "White Label Branding", Category: CategoryEnterprise},
		{ID: "priority_support", Name: "Priority Support", Category: CategoryEnterprise},
		{ID: "sso", Name: "Single Sign-On", Category: CategoryEnterprise},
		{ID: "audit_logs", Name: "Audit Logs", Category: CategoryEnterprise},
		{ID: "api_access", Name: "API Access", Category: CategoryEnterprise},
	})
}
