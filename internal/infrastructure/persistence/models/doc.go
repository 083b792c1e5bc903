// Package models holds the GORM table mappings for the farm aggregates.
// Domain types carry no ORM tags; each model converts to and from its domain
// counterpart with ToDomain and <Model>FromDomain.
//
//   - base.go: identity, timestamps, version and tenant columns shared by models
//   - farm.go: tanks, lots, intake batches, biometries, feedings and activity log
package models
