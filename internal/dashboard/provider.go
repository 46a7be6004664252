package dashboard

import (
	"context"

	"github.com/Bahjat/crawl-insight/internal/model"
)

// CrawlProvider defines the contract for anything that can run a crawl and
// return the backend's raw response.
type CrawlProvider interface {
	Crawl(ctx context.Context, req model.CrawlRequest) (*model.CrawlResponse, error)
}
