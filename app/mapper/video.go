package mapper

import (
	"time"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/types"
)

func VideoToResponse(item *entity.Video) *types.VideoResponse {
	if item == nil {
		return nil
	}
	return &types.VideoResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		URL:         item.URL,
		Thumbnail:   item.Thumbnail,
		Duration:    item.Duration,
		IsPublic:    item.IsPublic,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func VideosToResponse(items []*entity.Video) []*types.VideoResponse {
	result := make([]*types.VideoResponse, 0, len(items))
	for _, item := range items {
		result = append(result, VideoToResponse(item))
	}
	return result
}
