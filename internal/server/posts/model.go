package posts

import "time"

// Post is a top-level discussion thread. MaxComments, when set, caps how
// many comments the post accepts. AuthorName and CommentCount are join
// results filled by list/get queries, not stored columns.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	AuthorID     int64     `json:"author_id"`
	AuthorName   string    `json:"author"`
	CreatedAt    time.Time `json:"timestamp"`
	MaxComments  *int      `json:"max_comments"`
	CommentCount int       `json:"comment_count"`
}
