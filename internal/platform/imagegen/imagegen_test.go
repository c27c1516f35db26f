package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollinationsURL(t *testing.T) {
	u := PollinationsURL("https://image.pollinations.ai", "a misty mountain at dawn", 512, 768)
	assert.Equal(t, "https://image.pollinations.ai/prompt/a%20misty%20mountain%20at%20dawn?width=512&height=768&nologo=true", u)
}

func TestPollinationsURLDefaultsAndTrailingSlash(t *testing.T) {
	u := PollinationsURL("https://image.pollinations.ai/", "cover", 0, 0)
	assert.Equal(t, "https://image.pollinations.ai/prompt/cover?width=768&height=1024&nologo=true", u)
}
