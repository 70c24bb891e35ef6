package cms

import "time"

// Language values accepted by the posts endpoints.
const (
	LanguageEnglish = "English"
	LanguageArabic  = "Arabic"
)

// Post status values accepted by the posts endpoints.
const (
	PostStatusDraft     = "Draft"
	PostStatusScheduled = "Scheduled"
	PostStatusPublished = "Published"
)

// VideoPostRequest creates a video post inside a category. Either VideoURL
// (an external video, which then requires VideoEmbedCode) or VideoFileURLs
// (uploaded media) must be set.
type VideoPostRequest struct {
	Title                     string   `json:"title"`
	Slug                      string   `json:"slug,omitempty"`
	MetaDescription           string   `json:"metaDescription,omitempty"`
	MetaKeywords              string   `json:"metaKeywords,omitempty"`
	Visibility                bool     `json:"visibility"`
	AddToSlider               bool     `json:"addToSlider"`
	AddToFeatured             bool     `json:"addToFeatured"`
	AddToBreaking             bool     `json:"addToBreaking"`
	AddToRecommended          bool     `json:"addToRecommended"`
	ShowOnlyToRegisteredUsers bool     `json:"showOnlyToRegisteredUsers"`
	TagIDs                    []string `json:"tagIds"`
	OptionalURL               string   `json:"optionalURL,omitempty"`
	Content                   string   `json:"content"`
	VideoURL                  string   `json:"videoUrl,omitempty"`
	VideoEmbedCode            string   `json:"videoEmbedCode,omitempty"`
	VideoThumbnailURL         string   `json:"videoThumbnailUrl"`
	Duration                  string   `json:"duration,omitempty"`
	VideoFileURLs             []string `json:"videoFileUrls"`
	CategoryID                string   `json:"categoryId"`
	Language                  string   `json:"language"`
	AuthorID                  string   `json:"authorId,omitempty"`
	ScheduledAt               string   `json:"scheduledAt,omitempty"`
	Status                    string   `json:"status"`
}

// VideoPost is the server's view of a created video post.
type VideoPost struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	Content           string    `json:"content"`
	VideoURL          string    `json:"videoUrl,omitempty"`
	VideoEmbedCode    string    `json:"videoEmbedCode,omitempty"`
	VideoThumbnailURL string    `json:"videoThumbnailUrl"`
	Duration          string    `json:"duration,omitempty"`
	CategoryID        string    `json:"categoryId"`
	Language          string    `json:"language"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ReelRequest creates a reel from an already-processed video URL.
type ReelRequest struct {
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Caption      string   `json:"caption,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	AuthorID     string   `json:"authorId,omitempty"`
}

// Reel is the server's view of a reel.
type Reel struct {
	ID            string    `json:"id"`
	VideoURL      string    `json:"videoUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	Caption       string    `json:"caption"`
	Duration      string    `json:"duration"`
	ViewsCount    int       `json:"viewsCount"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	SharesCount   int       `json:"sharesCount"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName,omitempty"`
	Tags          []string  `json:"tags"`
}

// ReelPage is one page of a reel listing.
type ReelPage struct {
	PageSize   int    `json:"pageSize"`
	PageNumber int    `json:"pageNumber"`
	TotalCount int    `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
	ItemsFrom  int    `json:"itemsFrom"`
	ItemsTo    int    `json:"itemsTo"`
	Items      []Reel `json:"items"`
}

// ReelListParams filters and pages a reel listing. Zero values are omitted
// from the query.
type ReelListParams struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection string
	SearchPhrase  string
	UserID        string
	IsPublished   *bool
}
