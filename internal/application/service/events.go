package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProjectEventType string

const (
	ProjectEventCreated  ProjectEventType = "project.created"
	ProjectEventUpdated  ProjectEventType = "project.updated"
	ProjectEventDeleted  ProjectEventType = "project.deleted"
	ProjectEventExported ProjectEventType = "project.exported"
)

type ProjectEventPayload struct {
	EventType  ProjectEventType `json:"event_type"`
	ProjectID  string           `json:"project_id"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	ExportURL  string           `json:"export_url,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type MediaEventType string

const MediaEventUploaded MediaEventType = "media.uploaded"

type MediaEventPayload struct {
	EventType   MediaEventType `json:"event_type"`
	AssetID     string         `json:"asset_id"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	MediaType   string         `json:"media_type"`
	StoragePath string         `json:"storage_path"`
	PublicURL   string         `json:"public_url"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	PublishProjectEvent(ctx context.Context, payload ProjectEventPayload) error
	PublishMediaEvent(ctx context.Context, payload MediaEventPayload) error
}
