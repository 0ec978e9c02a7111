package entity

import "time"

type Video struct {
	ID uint64

	Title       string
	Description string
	Price       int64
	URL         string
	Thumbnail   string
	Duration    int32
	IsPublic    bool

	CreatedAt time.Time
}
