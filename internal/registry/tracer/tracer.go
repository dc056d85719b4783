// Package tracer wraps OpenTelemetry for the registration flow: one client
// span per gateway call and one span per orchestrator operation. Citizen IDs
// only ever appear hashed.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans and is safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

type Attribute = attribute.KeyValue

func String(key, value string) Attribute { return attribute.String(key, value) }
func Bool(key string, value bool) Attribute { return attribute.Bool(key, value) }
func Int(key string, value int) Attribute { return attribute.Int(key, value) }

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return attribute.Int64(key, value.Milliseconds())
}

// HashCitizenID returns the first 8 bytes of SHA-256(citizenID), hex encoded.
func HashCitizenID(citizenID string) string {
	if citizenID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(citizenID))
	return hex.EncodeToString(sum[:8])
}

const (
	SpanValidate      = "registry.gateway.validate"
	SpanRegister      = "registry.gateway.register"
	SpanDeregister    = "registry.gateway.deregister"
	SpanCreateFolder  = "registry.gateway.create_folder"
	SpanFindFolder    = "registry.gateway.find_folder"
	SpanOrchestration = "registry.orchestrator"
)

const (
	AttrCitizenID  = "citizen_id_hash"
	AttrStatusCode = "http.status_code"
	AttrSuccess    = "success"
	AttrDependency = "dependency"
	AttrOperation  = "operation"
	AttrFallback   = "fallback"
)

const EventAuditEmitted = "audit.emitted"
