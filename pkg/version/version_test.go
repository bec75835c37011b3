package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/repostat/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, version.Version+" (commit: "+version.Commit+", built: "+version.Date+")", version.String())
}
