package catalog

// Tag is a descriptive label attached to a media record.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Adult       bool   `json:"adult,omitempty"`
	Spoiler     bool   `json:"spoiler,omitempty"`
}

func (t Tag) String() string {
	return t.Name
}
