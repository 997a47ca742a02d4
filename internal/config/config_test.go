package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upload-gate/internal/config"
)

func TestCategoryPolicies_Decode(t *testing.T) {

	t.Run("nominal", func(t *testing.T) {
		var policies config.CategoryPolicies
		err := policies.Decode(`{
			"profile-image": {"extensions": [".jpg", ".png"], "max_size_bytes": 5242880},
			"lecture-document": {"extensions": [".pdf"], "max_size_bytes": 26214400, "key_prefix": "docs", "validity_window": "30m"}
		}`)

		require.NoError(t, err)
		require.Len(t, policies, 2)

		image := policies["profile-image"]
		assert.Equal(t, []string{".jpg", ".png"}, image.Extensions)
		assert.Equal(t, int64(5242880), image.MaxSizeBytes)
		// key prefix falls back to the category name
		assert.Equal(t, "profile-image", image.KeyPrefix)
		assert.Zero(t, image.ValidityWindow)

		document := policies["lecture-document"]
		assert.Equal(t, "docs", document.KeyPrefix)
		assert.Equal(t, 30*time.Minute, document.ValidityWindow)
	})

	t.Run("error - not json", func(t *testing.T) {
		var policies config.CategoryPolicies
		err := policies.Decode(`not json`)
		assert.Error(t, err)
	})

	t.Run("error - empty extension allowlist", func(t *testing.T) {
		var policies config.CategoryPolicies
		err := policies.Decode(`{"profile-image": {"extensions": [], "max_size_bytes": 1024}}`)
		assert.ErrorContains(t, err, "no allowed extensions")
	})

	t.Run("error - missing size limit", func(t *testing.T) {
		var policies config.CategoryPolicies
		err := policies.Decode(`{"profile-image": {"extensions": [".jpg"]}}`)
		assert.ErrorContains(t, err, "no positive size limit")
	})

	t.Run("error - malformed validity window", func(t *testing.T) {
		var policies config.CategoryPolicies
		err := policies.Decode(`{"profile-image": {"extensions": [".jpg"], "max_size_bytes": 1024, "validity_window": "soon"}}`)
		assert.ErrorContains(t, err, "invalid validity window")
	})
}
