package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/types"
)

type videoRepository interface {
	Create(ctx context.Context, video *entity.Video) error
	FindByID(ctx context.Context, id uint64) (*entity.Video, error)
	ListPublic(ctx context.Context) ([]*entity.Video, error)
}

type VideoService struct {
	videoRepo videoRepository
	logger    logrus.FieldLogger
}

func NewVideoService(videoRepo videoRepository) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		logger:    factory.NewModuleLogger("video-service"),
	}
}

func (s *VideoService) CreateVideo(ctx context.Context, req *types.CreateVideoRequest) (*entity.Video, error) {
	video := &entity.Video{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		IsPublic:    req.IsPublic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) GetVideo(ctx context.Context, id uint64) (*entity.Video, error) {
	video, err := s.videoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil || !video.IsPublic {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *VideoService) ListPublicVideos(ctx context.Context) ([]*entity.Video, error) {
	return s.videoRepo.ListPublic(ctx)
}
