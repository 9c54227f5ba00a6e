package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronScheduleValidExpression(t *testing.T) {
	opt, err := CronSchedule("0 3 * * *")
	require.NoError(t, err)
	assert.NotNil(t, opt)
}

func TestCronScheduleInvalidExpression(t *testing.T) {
	for _, expr := range []string{"", "not a cron", "99 99 * * *"} {
		opt, err := CronSchedule(expr)
		assert.Error(t, err, "expr %q", expr)
		assert.Nil(t, opt, "expr %q", expr)
	}
}
