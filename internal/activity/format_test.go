package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSpoken(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0 mins"},
		{59, "0 mins"},
		{60, "1 min"},
		{300, "5 mins"},
		{3600, "1 hr"},
		{7200, "2 hrs"},
		{3900, "1 hr 5 mins"},
		{3660, "1 hr 1 min"},
		{7500, "2 hrs 5 mins"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSpoken(tt.secs), "secs=%d", tt.secs)
	}
}
