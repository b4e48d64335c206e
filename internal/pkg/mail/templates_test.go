package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#F59E0B", StatusColor("pending"))
	assert.Equal(t, "#3B82F6", StatusColor("inProgress"))
	assert.Equal(t, "#10B981", StatusColor("completed"))
	assert.Equal(t, "#EF4444", StatusColor("rejected"))
	assert.Equal(t, "#6B7280", StatusColor("unknown"))
}
