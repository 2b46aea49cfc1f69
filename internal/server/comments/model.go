package comments

import "time"

// Comment belongs to a post. AuthorID is nil for anonymous comments, which
// nobody but an admin-elevated caller may edit or delete. Edited is set on
// the first successful edit and never cleared. AuthorName and
// InterestingCount are join results.
type Comment struct {
	ID               int64     `json:"id"`
	PostID           int64     `json:"post_id"`
	AuthorID         *int64    `json:"author_id"`
	AuthorName       *string   `json:"author"`
	Text             string    `json:"text"`
	CreatedAt        time.Time `json:"timestamp"`
	Edited           bool      `json:"edited"`
	InterestingCount int       `json:"interesting_count"`
}

// Anonymous reports whether the comment has no author.
func (c *Comment) Anonymous() bool {
	return c.AuthorID == nil
}
