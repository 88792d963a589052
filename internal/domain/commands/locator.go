package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
	"github.com/rios0rios0/safeupdate/internal/domain/repositories"
)

// LocateManifests reads the candidate manifest of every ecosystem, in order.
// Missing files are skipped silently; other read errors are logged and skipped.
func LocateManifests(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	ecosystems []repositories.EcosystemRepository,
) []entities.ManifestFile {
	var manifests []entities.ManifestFile
	for _, ecosystem := range ecosystems {
		path := ecosystem.ManifestPath()
		content, err := provider.GetFileContent(ctx, repo, path)
		if err != nil {
			if !errors.Is(err, repositories.ErrFileNotFound) {
				logger.WithFields(logger.Fields{
					"repository": repo.FullName(),
					"manifest":   path,
					"stage":      "locate",
				}).Warnf("[locator] Failed to read manifest: %v", err)
			}
			continue
		}

		logger.Debugf("[locator] Found %s in %s", path, repo.FullName())
		manifests = append(manifests, entities.ManifestFile{
			Path:      path,
			Ecosystem: ecosystem.Ecosystem(),
			Content:   content,
		})
	}
	return manifests
}
