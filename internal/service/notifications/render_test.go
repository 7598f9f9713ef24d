package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	out, missing := Render("Hi ${customerName}, see you at ${appointmentTime} ${unknown} ${unknown}", map[string]string{
		"customerName":    "Ann",
		"appointmentTime": "10:00",
	})

	assert.Equal(t, "Hi Ann, see you at 10:00 ${unknown} ${unknown}", out)
	assert.Equal(t, []string{"unknown"}, missing)
}

func TestRender_NoPlaceholders(t *testing.T) {
	out, missing := Render("plain $text {x}", nil)
	assert.Equal(t, "plain $text {x}", out)
	assert.Nil(t, missing)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "40.00", formatAmount(4000))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "-1.50", formatAmount(-150))
}
