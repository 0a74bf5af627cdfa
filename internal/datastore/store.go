// Package datastore persists search results into a local SQLite
// archive so repeated searches can be analyzed offline.
package datastore

import "grazbib/internal/models"

// Store defines the interface for the local search archive.
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// SaveResult archives one search result with all its books
	SaveResult(result *models.SearchResult) error

	// Close closes the connection to the data store
	Close() error
}
