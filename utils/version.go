package utils

// Build information, set with -ldflags "-X github.com/sigset/quotick/utils.Tag=...".
var (
	Tag        = "dev"
	GitHash    = "unknown"
	BuildStamp = "unknown"
)
