package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ugeco-backoffice/internal/domain"
	"ugeco-backoffice/internal/logger"
	"ugeco-backoffice/internal/repository"
)

// notFoundOr converts a repository miss into a NotFound with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return err
}

// loadVisibleBrand returns a non-archived brand. Archived brands are reported
// exactly like missing ones.
func loadVisibleBrand(ctx context.Context, repo repository.BrandRepository, id int32) (*domain.Brand, error) {
	brand, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	if brand.IsArchived {
		return nil, domain.NotFound("Brand not found")
	}
	return brand, nil
}

// removeFile deletes a replaced upload. Failures are logged and dropped.
func removeFile(ctx context.Context, files FileDeleter, path string) {
	if files == nil || path == "" {
		return
	}
	if err := files.Delete(ctx, path); err != nil {
		logger.WarnContext(ctx, "Failed to delete replaced file", "path", path, "error", err)
	}
}

func joinIDs(ids []int32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
