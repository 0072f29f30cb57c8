package images

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
)

// ProcessResult describes a stored cover.
type ProcessResult struct {
	Hash     string // SHA256 of the stored bytes, for ETag validation
	BlurHash string // Compact placeholder for clients
	Width    int
	Height   int
}

// Processor validates and stores uploaded cover images.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process validates imgData as a decodable image, stores it for the
// book, and computes the content hash and BlurHash placeholder.
func (p *Processor) Process(bookID string, imgData []byte) (*ProcessResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}

	if err := p.storage.Save(bookID, imgData); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	hash, err := p.storage.Hash(bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cover hash: %w", err)
	}

	blurHash, err := ComputeBlurHash(imgData)
	if err != nil {
		// A cover without a placeholder is still usable.
		p.logger.Warn("failed to compute blurhash",
			"book_id", bookID,
			"error", err,
		)
		blurHash = ""
	}

	p.logger.Debug("processed cover",
		"book_id", bookID,
		"size", len(imgData),
		"width", cfg.Width,
		"height", cfg.Height,
	)

	return &ProcessResult{
		Hash:     hash,
		BlurHash: blurHash,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
