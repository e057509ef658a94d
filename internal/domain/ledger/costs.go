// internal/domain/ledger/costs.go
package ledger

// FeatureCosts maps a metered feature/action key to its token cost.
type FeatureCosts map[string]int64

// Cost looks up the per-invocation cost for key.
func (fc FeatureCosts) Cost(key string) (int64, bool) {
	c, ok := fc[key]
	return c, ok
}

// DefaultFeatureCosts is the deployed cost table for metered actions.
func DefaultFeatureCosts() FeatureCosts {
	return FeatureCosts{
		"ai_content_generation": 50,
		"ai_image_generation":   100,
		"ai_caption_rewrite":    20,
		"post_publish":          1,
		"instagram_lead_scan":   25,
		"hashtag_suggestions":   10,
		"audience_insights":     30,
		"competitor_tracking":   40,
		"email_campaign_send":   5,
	}
}
