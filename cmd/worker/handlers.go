package main

import (
	"github.com/hibiken/asynq"

	bookJob "bookstore-catalog/internal/domains/book/job"
	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteMedia *bookJob.DeleteMediaHandler
	sweepOrphan *bookJob.OrphanSweepHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteMedia: bookJob.NewDeleteMediaHandler(c.Media),
		sweepOrphan: bookJob.NewOrphanSweepHandler(c.Media, c.BookRepo),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteMedia, h.deleteMedia.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphanMedia, h.sweepOrphan.ProcessTask)
}
