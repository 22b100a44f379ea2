package authapi

const defaultMaxBodyBytes = 16 << 10 // 16 KiB

// Config controls auth API request limits.
type Config struct {
	// MaxBodyBytes caps JSON request bodies. Zero means 16 KiB.
	MaxBodyBytes int64
}
