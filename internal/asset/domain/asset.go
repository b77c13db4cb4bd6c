package domain

import (
	"errors"
	"time"
)

// Asset is a document or drawing attached to a package. The content itself
// lives in external object storage; ObjectKey is an opaque pointer to it.
type Asset struct {
	ID        string
	PackageID string
	Name      string
	Kind      Kind
	ObjectKey string
	CreatedAt time.Time
}

type Kind string

const (
	KindDocument      Kind = "document"
	KindDrawing       Kind = "drawing"
	KindSpecification Kind = "specification"
)

// Validate validates the asset for persistence.
func (a *Asset) Validate() error {
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.PackageID == "" {
		return errors.New("package id is required")
	}
	if a.Kind == "" {
		a.Kind = KindDocument
	}
	return nil
}
