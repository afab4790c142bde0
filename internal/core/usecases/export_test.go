package usecases

import "time"

// SetClock replaces the service clock in tests.
func (s *RouteGuideService) SetClock(now func() time.Time) { s.now = now }
