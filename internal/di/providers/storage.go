package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/bookhiveapp/bookhive-server/internal/config"
	"github.com/bookhiveapp/bookhive-server/internal/logger"
	"github.com/bookhiveapp/bookhive-server/internal/media/covers"
	"github.com/bookhiveapp/bookhive-server/internal/media/images"
)

// ImageStorages groups all image storage services.
type ImageStorages struct {
	Covers *images.Storage
	Photos *images.Storage
}

// ImageProcessors groups the processors writing into those storages.
type ImageProcessors struct {
	Covers *images.Processor
	Photos *images.Processor
}

// ProvideImageStorages provides cover and profile photo storage.
func ProvideImageStorages(i do.Injector) (*ImageStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	coverStorage, err := images.NewStorage(cfg.Media.CoverPath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	photoStorage, err := images.NewStorage(filepath.Join(cfg.Data.BasePath, "photos"))
	if err != nil {
		return nil, fmt.Errorf("photo storage: %w", err)
	}

	log.Info("Image storages initialized",
		"cover_path", cfg.Media.CoverPath,
	)

	return &ImageStorages{
		Covers: coverStorage,
		Photos: photoStorage,
	}, nil
}

// ProvideImageProcessors provides the cover and photo image processors.
func ProvideImageProcessors(i do.Injector) (*ImageProcessors, error) {
	storages := do.MustInvoke[*ImageStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &ImageProcessors{
		Covers: images.NewProcessor(storages.Covers, log.Logger),
		Photos: images.NewProcessor(storages.Photos, log.Logger),
	}, nil
}

// ProvideCoverDownloader provides the remote cover fetcher.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	processors := do.MustInvoke[*ImageProcessors](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewDownloader(processors.Covers, log.Logger), nil
}
