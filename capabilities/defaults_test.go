package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"personaos/core/registry"
)

func TestRegisterDefaults(t *testing.T) {
	r := registry.New()
	RegisterDefaults(r, Options{})

	assert.Equal(t, []string{"calculator", "check_timer", "time", "timer", "weather", "web_search"}, r.List())
}

func TestRegisterDefaults_FileBrowserAndDisabled(t *testing.T) {
	r := registry.New()
	RegisterDefaults(r, Options{
		Workspace: t.TempDir(),
		Disabled:  map[string]bool{"weather": true, "check_timer": true},
	})

	assert.Equal(t, []string{"calculator", "file_browser", "time", "timer", "web_search"}, r.List())
}
