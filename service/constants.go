package service

import "time"

const (
	MaxToolFieldLength   = 2000
	DefaultAICacheTTL    = 24 * time.Hour
	DefaultPostPageSize  = 10
	MaxPostPageSize      = 100
	MaxPostTitleLength   = 200
	MaxPostExcerptLength = 500
	MaxTagsPerPost       = 20
	MaxUploadBytes       = 5 << 20
)
