package ai

import (
	"context"
	"log"
	"time"

	"dokumen-agent/internal/core"
)

// AddressResolver implements core.AddressResolver by tiering: web search
// first, then the model, then nothing. Every failure degrades to "" so a
// flow can fall back to its placeholder instead of stalling a turn.
type AddressResolver struct {
	search  *SerperClient
	client  *Client
	timeout time.Duration
}

// NewAddressResolver accepts nil tiers; a resolver with no tiers always
// returns "".
func NewAddressResolver(search *SerperClient, client *Client) *AddressResolver {
	return &AddressResolver{search: search, client: client, timeout: 45 * time.Second}
}

// Resolve returns a sanitized mailing address or "".
func (r *AddressResolver) Resolve(ctx context.Context, companyName string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.search != nil {
		addr, err := r.search.SearchAddress(ctx, companyName)
		if err != nil {
			log.Printf("address search failed for %q: %v", companyName, err)
		} else if a := core.SanitizeAddress(addr); a != "" {
			return a
		}
	}

	if r.client != nil {
		addr, err := r.client.ExtractAddress(ctx, companyName)
		if err != nil {
			log.Printf("address extraction failed for %q: %v", companyName, err)
		} else if a := core.SanitizeAddress(addr); a != "" {
			return a
		}
	}
	return ""
}
