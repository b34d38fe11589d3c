package common

import (
	"errors"

	"github.com/giftmatch/catalog-ingest/internal/artifact"
)

// ErrNoURLs is returned when neither arguments nor a file supplied any URLs.
var ErrNoURLs = errors.New("no URLs provided: pass URLs as arguments or use --file")

// CollectURLs merges URLs given as arguments with those read from an
// optional file (one per line, '#' comments skipped), preserving order.
func CollectURLs(args []string, file string) ([]string, error) {
	urls := make([]string, 0, len(args))
	urls = append(urls, args...)

	if file != "" {
		fileURLs, err := artifact.ReadURLFile(file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fileURLs...)
	}

	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	return urls, nil
}
