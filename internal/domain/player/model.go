package player

// Player is a merged squad entry: feed identity plus optional CMS profile.
type Player struct {
	// ID is the normalized feed id.
	ID        string
	FeedID    string
	TeamID    string
	Name      string
	Position  string
	ShirtNo   int
	CMSUID    string
	PhotoURL  string
	FirstName string
	LastName  string
}

func (p Player) Resolved() bool {
	return p.CMSUID != ""
}

// CMSRecord is the CMS's editorial profile of a player.
type CMSRecord struct {
	UID      string
	Name     string
	PhotoURL string
	FeedID   string
}
