package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/internal/shared"
)

// DeleteMediaHandler retries removal of a cover or preview file whose
// synchronous delete failed during a book mutation.
type DeleteMediaHandler struct {
	media *storage.MediaStore
}

func NewDeleteMediaHandler(media *storage.MediaStore) *DeleteMediaHandler {
	return &DeleteMediaHandler{media: media}
}

func (h *DeleteMediaHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteMediaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteMedia payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Path == "" {
		return nil
	}

	if err := h.media.Delete(ctx, payload.Path); err != nil {
		log.Error().
			Err(err).
			Str("path", payload.Path).
			Msg("Failed to delete media")
		return fmt.Errorf("delete media: %w", err)
	}

	log.Info().
		Str("path", payload.Path).
		Msg("Media deleted")

	return nil
}
