package model

// Store is the interface every staged data store implements
type Store interface {
	// IsStaged returns whether the store has changes staged in stagingArea
	IsStaged(stagingArea *StagingArea) bool
}
