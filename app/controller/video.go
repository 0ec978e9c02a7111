package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/mapper"
	"github.com/mkarani499/video-platform-2/app/service"
	"github.com/mkarani499/video-platform-2/app/types"
)

type VideoController struct {
	videoService *service.VideoService
	logger       logrus.FieldLogger
}

func NewVideoController(videoService *service.VideoService) *VideoController {
	return &VideoController{
		videoService: videoService,
		logger:       factory.NewModuleLogger("video-controller"),
	}
}

func (c *VideoController) ListVideos(ctx echo.Context) error {
	items, err := c.videoService.ListPublicVideos(ctx.Request().Context())
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List videos failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.VideosToResponse(items))
}

func (c *VideoController) GetVideo(ctx echo.Context) error {
	req, err := types.NewGetVideoRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.videoService.GetVideo(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "video not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get video failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.VideoToResponse(item))
}

func (c *VideoController) CreateVideo(ctx echo.Context) error {
	req, err := types.NewCreateVideoRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.videoService.CreateVideo(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create video failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.CreateVideoResponse{
		Success: true,
		Message: "Video created",
		Video:   mapper.VideoToResponse(item),
	})
}

func (c *VideoController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
