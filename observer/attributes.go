package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for memory spans and metrics.
var (
	AttrTier   = attribute.Key("memory.tier")
	AttrOp     = attribute.Key("memory.op")
	AttrKey    = attribute.Key("memory.key")
	AttrFound  = attribute.Key("memory.found")
	AttrStatus = attribute.Key("memory.status")
	AttrCount  = attribute.Key("memory.key_count")
)

// Tier labels used on spans and metrics.
const (
	TierShortTerm = "short_term"
	TierLongTerm  = "long_term"
)
