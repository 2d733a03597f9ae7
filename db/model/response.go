package model

// Slider bounds for a response value.
const (
	SliderMin = 0
	SliderMax = 10
)

// Response unifies votes and slider answers: one row per (poll, author).
// FlipFlopCount is monotonically non-decreasing and counts every write
// through the update path, including same-value resubmissions.
type Response struct {
	Base
	PollID           uint   `gorm:"uniqueIndex:idx_response_poll_author" json:"poll_id"`
	AuthorID         uint   `gorm:"uniqueIndex:idx_response_poll_author" json:"author_id"`
	Poll             *Poll  `gorm:"foreignKey:PollID" json:"-"`
	Author           *User  `gorm:"foreignKey:AuthorID" json:"-"`
	Value            int    `json:"value"`
	IsHidden         bool   `json:"is_hidden"`
	IsSharedPublicly bool   `json:"is_shared_publicly"`
	PublicComment    string `json:"public_comment"`
	FlipFlopCount    int    `json:"flip_flop_count"`
}
