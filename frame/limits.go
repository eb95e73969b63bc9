package frame

// DefaultMaxInbound is the default cap on a single client-to-host frame (64 MiB)
const DefaultMaxInbound int = 64 * 1024 * 1024

// MaxOutboundHardLimit is the largest host-to-client message the native
// messaging transport accepts (1 MiB)
const MaxOutboundHardLimit int = 1024 * 1024

// Limits bounds frame sizes in each direction
type Limits struct {
	MaxInbound  int `mapstructure:"max_inbound_frame"`
	MaxOutbound int `mapstructure:"max_outbound_frame"`
}

// DefaultLimits returns the default frame limits
func DefaultLimits() Limits {
	return Limits{
		MaxInbound:  DefaultMaxInbound,
		MaxOutbound: MaxOutboundHardLimit,
	}
}

// Normalize fills zero values with defaults and clamps the outbound limit
// to the transport's hard limit
func (l Limits) Normalize() Limits {
	if l.MaxInbound <= 0 {
		l.MaxInbound = DefaultMaxInbound
	}
	if l.MaxOutbound <= 0 || l.MaxOutbound > MaxOutboundHardLimit {
		l.MaxOutbound = MaxOutboundHardLimit
	}
	return l
}
