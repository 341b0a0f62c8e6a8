package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_Full(t *testing.T) {
	t.Parallel()

	info := Info{
		Version:   "1.2.3",
		Commit:    "0123456789abcdef0123",
		BuildDate: "2026-10-16",
		GoVersion: "go1.25.5",
		Platform:  "linux/amd64",
	}

	assert.Equal(t, "1.2.3", info.String())
	assert.Equal(t, "1.2.3 (commit 0123456789ab, built 2026-10-16, go1.25.5 linux/amd64)", info.Full())
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
