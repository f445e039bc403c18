package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitGCSURL(t *testing.T) {
	bucket, object, err := splitGCSURL("gs://models/resnet/weights.frgw")
	require.NoError(t, err)
	assert.Equal(t, "models", bucket)
	assert.Equal(t, "resnet/weights.frgw", object)

	for _, bad := range []string{
		"http://models/weights.frgw",
		"gs://",
		"gs://bucket-only",
		"gs:///no-bucket",
	} {
		_, _, err := splitGCSURL(bad)
		assert.Error(t, err, bad)
	}
}
