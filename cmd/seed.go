package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a sample video",
	Long:  "Insert a sample video into the catalog for local development.",
	Run:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	database := mustOpenDatabase(cfg)
	defer closeDatabase(database)

	videoRepo := repository.NewVideoRepository(database)
	video := &entity.Video{
		Title:       "Sample Tutorial Video",
		Description: "Learn how to integrate M-Pesa payments",
		Price:       50,
		URL:         "https://example.com/sample-video.mp4",
		Thumbnail:   "https://example.com/thumbnail.jpg",
		Duration:    300,
		IsPublic:    true,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := videoRepo.Create(ctx, video); err != nil {
		logrus.WithError(err).Fatal("Seed failed")
	}

	logrus.WithField("video_id", video.ID).Info("Sample video inserted")
}
