package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/evcraddock/realty-site/internal/listing"
)

// parseListingFilter reads list filters from the query string.
func parseListingFilter(q url.Values) (listing.Filter, error) {
	f := listing.Filter{
		PropertyType: q.Get("type"),
		ListingType:  listing.Type(q.Get("listingType")),
		FeaturedOnly: q.Get("featured") == "true",
		Query:        q.Get("q"),
	}

	ints := []struct {
		key string
		dst *int64
	}{
		{"location", &f.LocationID},
		{"developer", &f.DeveloperID},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return f, fmt.Errorf("%s must be an integer", p.key)
			}
			*p.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
	}
	for _, p := range floats {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || n < 0 {
				return f, fmt.Errorf("%s must be a non-negative number", p.key)
			}
			*p.dst = n
		}
	}

	counts := []struct {
		key string
		dst *int
	}{
		{"beds", &f.MinBeds},
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	}
	for _, p := range counts {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return f, fmt.Errorf("%s must be a non-negative integer", p.key)
			}
			*p.dst = n
		}
	}

	if v := q.Get("status"); v != "" {
		st, err := listing.ParseReviewStatus(v)
		if err != nil {
			return f, err
		}
		f.ReviewStatus = st
	}
	return f, nil
}

// handleListProperties returns approved listings only.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	f, err := parseListingFilter(r.URL.Query())
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	listings, err := s.cfg.Listings.ListApproved(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, listings, http.StatusOK)
}

// handleGetProperty hides listings that are not approved behind a 404.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := s.cfg.Listings.GetApproved(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, l, http.StatusOK)
}

// handleSubmitProperty accepts a listing from the public form. It is stored
// as pending whatever review status the body carries.
func (s *Server) handleSubmitProperty(w http.ResponseWriter, r *http.Request) {
	var l listing.Listing
	if !decodeJSON(w, r, &l) {
		return
	}
	saved, err := s.cfg.Listings.Submit(r.Context(), &l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.notify(func() error { return s.cfg.Notifier.ListingSubmitted(saved) }, "listing")
	apiJSON(w, saved, http.StatusCreated)
}

func (s *Server) handleAdminListListings(w http.ResponseWriter, r *http.Request) {
	f, err := parseListingFilter(r.URL.Query())
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	listings, err := s.cfg.Listings.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, listings, http.StatusOK)
}

func (s *Server) handleAdminCreateListing(w http.ResponseWriter, r *http.Request) {
	var l listing.Listing
	if !decodeJSON(w, r, &l) {
		return
	}
	saved, err := s.cfg.Listings.Create(r.Context(), &l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, saved, http.StatusCreated)
}

func (s *Server) handleAdminGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := s.cfg.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, l, http.StatusOK)
}

func (s *Server) handleAdminUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p listing.Patch
	if !decodeJSON(w, r, &p) {
		return
	}
	l, err := s.cfg.Listings.Update(r.Context(), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	apiJSON(w, l, http.StatusOK)
}

func (s *Server) handleAdminDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.cfg.Listings.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReview returns a handler that moves a listing to status.
func (s *Server) handleReview(status listing.ReviewStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		l, err := s.cfg.Listings.SetReviewStatus(r.Context(), id, status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		apiJSON(w, l, http.StatusOK)
	}
}
