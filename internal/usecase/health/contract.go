package health

import (
	"context"

	domcol "github.com/kailas-cloud/docchat/internal/domain/collection"
)

// DocServiceProbe is any cheap read against the document service.
type DocServiceProbe interface {
	ListCollections(ctx context.Context) ([]domcol.Collection, error)
}
