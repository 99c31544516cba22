package services

import (
	"context"
	"sync"

	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services/routing"
)

// fakeRouting returns scripted responses in order and records every request
type fakeRouting struct {
	mu         sync.Mutex
	roundTrips []routing.RoundTripRequest
	directions []models.Path
	responses  []fakeResponse
}

type fakeResponse struct {
	path models.Path
	err  error
}

func (f *fakeRouting) next() (models.Path, error) {
	if len(f.responses) == 0 {
		return nil, routing.ErrResponseEmpty
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.path, r.err
}

func (f *fakeRouting) RoundTrip(ctx context.Context, req routing.RoundTripRequest) (models.Path, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roundTrips = append(f.roundTrips, req)
	return f.next()
}

func (f *fakeRouting) Directions(ctx context.Context, waypoints models.Path) (models.Path, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directions = append(f.directions, waypoints.Clone())
	return f.next()
}

// straightPath returns a two point north-south path of roughly the given length
func straightPath(meters float64) models.Path {
	const metersPerDegreeLat = 111195.08 // mean earth radius 6371008.8 m
	return models.Path{
		{Latitude: 0, Longitude: 0},
		{Latitude: meters / metersPerDegreeLat, Longitude: 0},
	}
}
