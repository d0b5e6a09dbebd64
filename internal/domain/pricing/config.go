package pricing

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Config is the in-memory pricing aggregate read by the fare estimator:
// the local rate card (absent until loaded), the name-ordered city set and
// the (from, to)-ordered route set.
type Config struct {
	LocalRates *LocalFareRate `json:"local_rates,omitempty"`
	Cities     []City         `json:"cities"`
	Routes     []Route        `json:"routes"`
}

// Clone returns a deep copy so callers can read without holding locks.
func (c Config) Clone() Config {
	out := Config{
		Cities: make([]City, len(c.Cities)),
		Routes: make([]Route, len(c.Routes)),
	}
	copy(out.Cities, c.Cities)
	copy(out.Routes, c.Routes)
	if c.LocalRates != nil {
		rates := *c.LocalRates
		out.LocalRates = &rates
	}
	return out
}

// InsertCity adds a city keeping the name ordering.
func (c *Config) InsertCity(city City) {
	c.Cities = append(c.Cities, city)
	sort.Slice(c.Cities, func(i, j int) bool {
		return strings.ToLower(c.Cities[i].Name) < strings.ToLower(c.Cities[j].Name)
	})
}

// RemoveCity deletes the city with the given id, if present.
func (c *Config) RemoveCity(id uuid.UUID) {
	for i, city := range c.Cities {
		if city.ID == id {
			c.Cities = append(c.Cities[:i], c.Cities[i+1:]...)
			return
		}
	}
}

// HasCity reports whether a city with the given name already exists.
// Comparison is case-insensitive to match the store's uniqueness intent.
func (c *Config) HasCity(name string) bool {
	for _, city := range c.Cities {
		if strings.EqualFold(city.Name, name) {
			return true
		}
	}
	return false
}

// InsertRoute adds a route keeping the (from, to) ordering.
func (c *Config) InsertRoute(route Route) {
	c.Routes = append(c.Routes, route)
	sort.Slice(c.Routes, func(i, j int) bool {
		if c.Routes[i].FromCity != c.Routes[j].FromCity {
			return c.Routes[i].FromCity < c.Routes[j].FromCity
		}
		return c.Routes[i].ToCity < c.Routes[j].ToCity
	})
}

// ReplaceRoute swaps the entry with the same id. From/to never change here;
// price updates are the only mutation routes support.
func (c *Config) ReplaceRoute(route Route) {
	for i, r := range c.Routes {
		if r.ID == route.ID {
			c.Routes[i] = route
			return
		}
	}
}

// RemoveRoute deletes the route with the given id, if present.
func (c *Config) RemoveRoute(id uuid.UUID) {
	for i, r := range c.Routes {
		if r.ID == id {
			c.Routes = append(c.Routes[:i], c.Routes[i+1:]...)
			return
		}
	}
}

// HasRoutePair reports whether a route with the same (from, to) pair exists.
func (c *Config) HasRoutePair(fromCity, toCity string) bool {
	for _, r := range c.Routes {
		if strings.EqualFold(r.FromCity, fromCity) && strings.EqualFold(r.ToCity, toCity) {
			return true
		}
	}
	return false
}
