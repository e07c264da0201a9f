package engine

import "time"

// Interaction kinds accepted by RecordInteraction.
const (
	InteractView   = "view"
	InteractLike   = "like"
	InteractShare  = "share"
	InteractRead   = "read"
	InteractSearch = "search"
)

// ValidKind reports whether kind is one of the accepted interaction kinds.
func ValidKind(kind string) bool {
	switch kind {
	case InteractView, InteractLike, InteractShare, InteractRead, InteractSearch:
		return true
	}
	return false
}

// Strategy tags carried on every recommendation result.
const (
	ResultTrending      = "trending"
	ResultPersonalized  = "personalized"
	ResultSimilar       = "similar"
	ResultCollaborative = "collaborative"
	ResultEditorial     = "editorial"
)

// Reading-time preference buckets.
const (
	ReadingShort  = "short"
	ReadingMedium = "medium"
	ReadingLong   = "long"
	ReadingAny    = "any"
)

// Preference list caps — the top-K entries by weighted interaction count.
const (
	maxCategories    = 5
	maxAuthors       = 10
	maxTopics        = 15
	maxSearchHistory = 100
	maxReadingHours  = 100
)

// Preferences is the ranked, implicitly-learned side of a profile. The
// category/author/topic lists are fully recomputed on every interaction,
// never patched in place.
type Preferences struct {
	Categories   []string `json:"categories"`
	Authors      []string `json:"authors"`
	Topics       []string `json:"topics"`
	ReadingTime  string   `json:"reading_time"` // short, medium, long, any
	ContentTypes []string `json:"content_types,omitempty"`
}

// Behavior is the raw interaction history a profile is learned from.
type Behavior struct {
	Read          []string           `json:"read"`
	Liked         []string           `json:"liked"`
	Shared        []string           `json:"shared"`
	SearchHistory []string           `json:"search_history,omitempty"`
	TimeSpent     map[string]float64 `json:"time_spent,omitempty"` // item id -> minutes
	ReadingHours  []int              `json:"reading_hours,omitempty"`
	DeviceTypes   []string           `json:"device_types,omitempty"`
}

// Demographics holds the coarse attributes supplied by the platform.
type Demographics struct {
	AgeGroup string `json:"age_group,omitempty"` // young, adult, senior
	Location string `json:"location,omitempty"`
	Language string `json:"language,omitempty"`
}

// UserProfile is a per-user interest profile. Created lazily on first
// interaction and mutated only by the ProfileStore.
type UserProfile struct {
	ID           string       `json:"id"`
	Preferences  Preferences  `json:"preferences"`
	Behavior     Behavior     `json:"behavior"`
	Demographics Demographics `json:"demographics"`
}

func defaultProfile(userID string) *UserProfile {
	return &UserProfile{
		ID: userID,
		Preferences: Preferences{
			ReadingTime: ReadingAny,
		},
		Behavior: Behavior{
			TimeSpent: make(map[string]float64),
		},
	}
}

// Engagement counters maintained by the ingestion collaborator.
type Engagement struct {
	Views        int     `json:"views"`
	Likes        int     `json:"likes"`
	Shares       int     `json:"shares"`
	Comments     int     `json:"comments"`
	AvgTimeSpent float64 `json:"avg_time_spent,omitempty"`
}

// Metadata flags set editorially or by upstream classification.
type Metadata struct {
	Difficulty string `json:"difficulty,omitempty"` // easy, medium, hard
	Trending   bool   `json:"trending,omitempty"`
	Breaking   bool   `json:"breaking,omitempty"`
	Featured   bool   `json:"featured,omitempty"`
}

// ContentItem is a recommendable piece of content. The engine treats items
// as immutable for the duration of a request; updates arrive via AddContent.
type ContentItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	Category    string     `json:"category"`
	Author      string     `json:"author"`
	PublishDate time.Time  `json:"publish_date"`
	Tags        []string   `json:"tags,omitempty"`
	ReadingTime int        `json:"reading_time"` // minutes
	Type        string     `json:"type"`         // article, podcast, video
	Engagement  Engagement `json:"engagement"`
	Metadata    Metadata   `json:"metadata"`
}

// Request describes one recommendation call.
type Request struct {
	UserID          string
	Count           int
	ExcludeIDs      []string
	Categories      []string
	ContentTypes    []string
	IncludeBreaking bool
	IncludeTrending bool
}

// Result is a scored item reference with human-readable reasons. Reasons
// exist for explainability only; they never feed back into ranking.
type Result struct {
	Item    ContentItem
	Score   float64
	Reasons []string
	Type    string
}

// InteractionMeta carries the optional payload of an interaction event.
type InteractionMeta struct {
	TimeSpent float64   // minutes, for read events
	Query     string    // for search events
	Device    string    // mobile, desktop, tablet
	When      time.Time // event time; zero means now
}

// ProfileUpdate applies explicit preference overrides to a profile.
// Nil slices and empty strings leave the corresponding field untouched.
type ProfileUpdate struct {
	Categories   []string
	Authors      []string
	Topics       []string
	ReadingTime  string
	ContentTypes []string
	AgeGroup     string
	Location     string
	Language     string
}

// Stats is the diagnostic read for one user.
type Stats struct {
	ProfileCompleteness float64  `json:"profile_completeness"`
	TotalInteractions   int      `json:"total_interactions"`
	PreferredCategories []string `json:"preferred_categories"`
	SimilarUserCount    int      `json:"similar_user_count"`
}
