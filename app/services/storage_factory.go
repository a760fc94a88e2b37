package services

import (
	"fmt"

	"remote-admin-svc/app/clients"
	"remote-admin-svc/storage/memory"
	"remote-admin-svc/storage/postgres"
)

// StorageFactory creates storage adapters
type StorageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() *StorageFactory {
	return &StorageFactory{}
}

// CreateStore creates a storage adapter for the given driver.
func (f *StorageFactory) CreateStore(driver, connString string) (clients.StorageAdapter, error) {
	switch driver {
	case "postgres":
		return f.CreatePostgresStore(connString)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// CreatePostgresStore creates a Postgres store
func (f *StorageFactory) CreatePostgresStore(connString string) (clients.StorageAdapter, error) {
	store, err := postgres.NewStore(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres store: %w", err)
	}
	return store, nil
}
