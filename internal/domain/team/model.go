package team

// Team is a merged entity: feed-sourced identity plus whatever the CMS knows
// about the club. Built fresh on every resolution pass and never mutated.
type Team struct {
	// ID is the normalized (prefix-stripped) feed id, the canonical join key.
	ID     string
	FeedID string
	Name   string
	Short  string

	// CMS-sourced fields. CMSUID is empty when the club is not yet onboarded
	// in the CMS; that is a flagged state, not an error.
	CMSUID       string
	Country      string
	PrimaryColor string
	CrestURL     string
}

// Resolved reports whether the CMS side of the merge was found.
func (t Team) Resolved() bool {
	return t.CMSUID != ""
}

// CMSRecord is the CMS's own view of a club, read-only for this service. The
// feed id is stored there as an opaque string and may lag behind the feed.
type CMSRecord struct {
	UID          string
	Name         string
	Short        string
	Country      string
	PrimaryColor string
	CrestURL     string
	FeedID       string
}
