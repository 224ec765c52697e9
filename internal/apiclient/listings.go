package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/filter"
)

// ListListings returns the listings matching sel, filtered server-side.
func (c *Client) ListListings(ctx context.Context, sel filter.Selection) ([]domain.Listing, error) {
	var page domain.ListingPage
	if err := c.do(ctx, http.MethodGet, "/vagas/", sel.Values(), nil, &page); err != nil {
		return nil, err
	}
	if page.Listings == nil {
		page.Listings = []domain.Listing{}
	}
	return page.Listings, nil
}

// PingListings runs the cheapest possible listing query, touching the
// backend's data layer.
func (c *Client) PingListings(ctx context.Context) error {
	var page domain.ListingPage
	return c.do(ctx, http.MethodGet, "/vagas/", url.Values{"limit": {"1"}}, nil, &page)
}

func (c *Client) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	var l domain.Listing
	err := c.do(ctx, http.MethodGet, listingPath(id), nil, nil, &l)
	return l, err
}

func (c *Client) CreateListing(ctx context.Context, in domain.Listing) (domain.Listing, error) {
	var l domain.Listing
	err := c.do(ctx, http.MethodPost, "/vagas/", nil, in, &l)
	return l, err
}

func (c *Client) UpdateListing(ctx context.Context, id int64, upd domain.ListingUpdate) (domain.Listing, error) {
	var l domain.Listing
	err := c.do(ctx, http.MethodPatch, listingPath(id), nil, upd, &l)
	return l, err
}

// UpdateListingStatus changes only the review status. Nothing is patched
// locally; callers re-fetch to observe the change.
func (c *Client) UpdateListingStatus(ctx context.Context, id int64, status domain.Status) (domain.Listing, error) {
	var l domain.Listing
	q := url.Values{"status": {string(status)}}
	err := c.do(ctx, http.MethodPatch, listingPath(id)+"/status", q, nil, &l)
	return l, err
}

func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, listingPath(id), nil, nil, nil)
}

func listingPath(id int64) string {
	return "/vagas/" + strconv.FormatInt(id, 10)
}
