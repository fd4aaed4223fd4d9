// Package imagecdn builds fetch URLs for media objects served through a CDN.
//
// Cloudinary-style bases get a delivery transform segment injected into the
// URL path; any other base is treated as a flat object host and the
// transform is ignored.
package imagecdn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssetIDRequired indicates a URL was requested without an asset ID.
var ErrAssetIDRequired = errors.New("asset id is required")

// Delivery constrains the delivered image width in pixels.
type Delivery struct {
	WidthPX int
}

// Request describes one asset URL resolution.
type Request struct {
	AssetID  string
	Delivery *Delivery
}

// CDN resolves asset IDs to fetchable URLs under a configured base.
type CDN struct {
	base       string
	cloudinary bool
}

// New returns a CDN rooted at base. Trailing slashes are trimmed.
func New(base string) *CDN {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	return &CDN{
		base:       trimmed,
		cloudinary: strings.Contains(trimmed, "cloudinary.com"),
	}
}

// URL resolves one asset request to a fetchable URL.
func (c *CDN) URL(req Request) (string, error) {
	if c == nil || c.base == "" {
		return "", errors.New("cdn base is not configured")
	}
	assetID := strings.TrimSpace(req.AssetID)
	if assetID == "" {
		return "", ErrAssetIDRequired
	}

	if !c.cloudinary {
		return c.base + "/" + assetID, nil
	}

	var segments []string
	if delivery := req.Delivery; delivery != nil && delivery.WidthPX > 0 {
		segments = append(segments, fmt.Sprintf(
			"f_auto,q_auto,dpr_auto,c_limit,w_%d",
			delivery.WidthPX,
		))
	}
	segments = append(segments, assetID)
	return c.base + "/" + strings.Join(segments, "/"), nil
}
