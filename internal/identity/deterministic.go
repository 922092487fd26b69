package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CollectionUUID derives the identifier for a collection keyed by kind and slug.
func CollectionUUID(kind, slug string) uuid.UUID {
	return UUID("go-catalog:collection:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

// ItemUUID derives the identifier for an item keyed by slug.
func ItemUUID(slug string) uuid.UUID {
	return UUID("go-catalog:item:" + strings.ToLower(strings.TrimSpace(slug)))
}

// VirtualCollectionUUID derives the identifier for a collection synthesised
// from a slug when no stored record exists.
func VirtualCollectionUUID(slug string) uuid.UUID {
	return UUID("go-catalog:virtual_collection:" + strings.ToLower(strings.TrimSpace(slug)))
}
