package config

import (
	"os"
	"strconv"
)

// =============================================================================
// FRAME LOOP CONFIGURATION
// =============================================================================

// FrameConfig holds the frame-loop-adjacent ambient knobs spec.md leaves
// as implementation constants: tick rate and the byte budget handed to
// the per-frame temp allocator (C2).
type FrameConfig struct {
	TickRate           int // Frame loop ticks per second
	TempAllocatorBytes int // C2 arena size, in bytes, reset every frame
}

// DefaultFrame returns the default frame-loop configuration.
func DefaultFrame() FrameConfig {
	return FrameConfig{
		TickRate:           60,
		TempAllocatorBytes: 1 << 20, // 1 MiB
	}
}

// FrameFromEnv returns frame configuration with environment variable
// overrides.
func FrameFromEnv() FrameConfig {
	cfg := DefaultFrame()

	if tr := getEnvInt("FORGE_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if b := getEnvInt("FORGE_TEMP_ALLOC_BYTES", 0); b > 0 {
		cfg.TempAllocatorBytes = b
	}

	return cfg
}

// =============================================================================
// SPATIAL GRID CONFIGURATION
// =============================================================================

// SpatialConfig holds chunk dimensions for the spatial grid (C5).
// spatial.Grid does not read these values: its chunk size is fixed by
// the spatial.ChunkWidth and spatial.ChunkHeight constants.
type SpatialConfig struct {
	ChunkWidth  float64
	ChunkHeight float64
}

// DefaultSpatial returns the default spatial grid configuration.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		ChunkWidth:  200,
		ChunkHeight: 200,
	}
}

// SpatialFromEnv returns spatial configuration with environment
// variable overrides.
func SpatialFromEnv() SpatialConfig {
	cfg := DefaultSpatial()

	if w := getEnvFloat("FORGE_CHUNK_WIDTH", -1); w > 0 {
		cfg.ChunkWidth = w
	}
	if h := getEnvFloat("FORGE_CHUNK_HEIGHT", -1); h > 0 {
		cfg.ChunkHeight = h
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls pre-allocation sizes across C1/C3/C4.
// MaxComponentTypes is not enforced: a Store accepts any number of
// registered types.
type ResourceLimits struct {
	InitialEntityCapacity int // Entity World / generational allocator starting capacity
	MaxComponentTypes     int // Upper bound a Store is expected to register
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		InitialEntityCapacity: 4096,
		MaxComponentTypes:     256,
	}
}

// LimitsFromEnv returns resource limits with environment variable
// overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if c := getEnvInt("FORGE_INITIAL_ENTITY_CAPACITY", 0); c > 0 {
		cfg.InitialEntityCapacity = c
	}
	if m := getEnvInt("FORGE_MAX_COMPONENT_TYPES", 0); m > 0 {
		cfg.MaxComponentTypes = m
	}

	return cfg
}

// =============================================================================
// TRACER CONFIGURATION
// =============================================================================

// TracerConfig holds a buffer size for the per-thread tracer (C8).
// trace.NewTracer does not read it: every tracer starts with the trace
// package's own fixed initial capacity.
type TracerConfig struct {
	InitialBufferCapacity int
}

// DefaultTracer returns the default tracer configuration.
func DefaultTracer() TracerConfig {
	return TracerConfig{
		InitialBufferCapacity: 2048,
	}
}

// TracerFromEnv returns tracer configuration with environment variable
// overrides.
func TracerFromEnv() TracerConfig {
	cfg := DefaultTracer()

	if c := getEnvInt("FORGE_TRACER_BUFFER_CAPACITY", 0); c > 0 {
		cfg.InitialBufferCapacity = c
	}

	return cfg
}

// =============================================================================
// REPLAY CONFIGURATION
// =============================================================================

// ReplayConfig holds the replay stream's recording cadence (C7).
type ReplayConfig struct {
	MsPerFrame float64
}

// DefaultReplay returns the default replay configuration.
func DefaultReplay() ReplayConfig {
	return ReplayConfig{
		MsPerFrame: 1000.0 / 60.0,
	}
}

// ReplayFromEnv returns replay configuration with environment variable
// overrides.
func ReplayFromEnv() ReplayConfig {
	cfg := DefaultReplay()

	if ms := getEnvFloat("FORGE_REPLAY_MS_PER_FRAME", -1); ms > 0 {
		cfg.MsPerFrame = ms
	}

	return cfg
}

// =============================================================================
// DEBUG SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the debug/metrics HTTP server settings.
type ServerConfig struct {
	ListenAddr string // MUST stay loopback-only outside of local development
}

// DefaultServer returns the default debug server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		ListenAddr: "127.0.0.1:6060",
	}
}

// ServerFromEnv returns debug server configuration with environment
// variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if addr := os.Getenv("FORGE_DEBUG_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	return cfg
}

// =============================================================================
// COMPLETE ENGINE CONFIGURATION
// =============================================================================

// EngineConfig holds the complete ambient tunables layer. It configures
// the frame-loop-adjacent knobs spec.md treats as fixed-per-instance
// constants; it never changes the spec's semantics, only their values
// at boot.
type EngineConfig struct {
	Frame   FrameConfig
	Spatial SpatialConfig
	Limits  ResourceLimits
	Tracer  TracerConfig
	Replay  ReplayConfig
	Server  ServerConfig
}

// Load returns the complete engine configuration with environment
// overrides applied.
func Load() EngineConfig {
	return EngineConfig{
		Frame:   FrameFromEnv(),
		Spatial: SpatialFromEnv(),
		Limits:  LimitsFromEnv(),
		Tracer:  TracerFromEnv(),
		Replay:  ReplayFromEnv(),
		Server:  ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
