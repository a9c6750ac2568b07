package catalog

import "strconv"

// Count is a comment counter that may also carry a sentinel state instead of a number.
type Count int

const (
	// Disabled means the feature does not exist for this comment.
	Disabled Count = -1
	// Hidden means the feature exists but its number is not shown.
	Hidden Count = -2
)

// Visibility describes which parts of a counter a UI should render.
type Visibility struct {
	Affordance bool // icon and button
	Number     bool
}

// Visibility maps the counter to what should be shown.
func (c Count) Visibility() Visibility {
	switch c {
	case Disabled:
		return Visibility{}
	case Hidden:
		return Visibility{Affordance: true}
	default:
		return Visibility{Affordance: true, Number: true}
	}
}

// Label renders the number, or an empty string for zero and sentinel values.
func (c Count) Label() string {
	if c <= 0 {
		return ""
	}
	return strconv.Itoa(int(c))
}

// Comment is one comment with its nested replies.
type Comment struct {
	ID           string `json:"id,omitempty"`
	Text         string `json:"text"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
	Date         string `json:"date,omitempty"`

	Likes    Count `json:"likes"`
	Dislikes Count `json:"dislikes"`
	Comments Count `json:"comments"`
	// Votes is nil when the extension has no voting.
	Votes *int `json:"votes,omitempty"`

	CanComment bool       `json:"canComment"`
	Items      []*Comment `json:"items,omitempty"`
}

// VotesVisible reports whether a vote counter should be rendered.
func (c *Comment) VotesVisible() bool {
	return c.Votes != nil
}

// Walk visits the comment and its replies depth first. Returning false stops the walk.
func (c *Comment) Walk(visit func(comment *Comment, depth int) bool) {
	c.walk(visit, 0)
}

func (c *Comment) walk(visit func(*Comment, int) bool, depth int) bool {
	if !visit(c, depth) {
		return false
	}

	for _, item := range c.Items {
		if !item.walk(visit, depth+1) {
			return false
		}
	}

	return true
}
