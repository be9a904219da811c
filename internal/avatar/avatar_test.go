package avatar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomConfig_CoversAllDimensions(t *testing.T) {
	config := RandomConfig()

	require.Len(t, config, len(options))
	for key, opts := range options {
		assert.Contains(t, opts, config[key], "value for %s not in option table", key)
	}
}

func TestRandomJSON_Decodes(t *testing.T) {
	raw := RandomJSON()

	var config map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &config))
	assert.NotEmpty(t, config["topType"])
	assert.NotEmpty(t, config["skinColor"])
}
