package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Namespacing(t *testing.T) {
	assert.Equal(t, "venuelink:series:kalshi:KXBTC", Key("series", "kalshi", "KXBTC"))
	assert.Equal(t, "venuelink:markets:polymarket:rates", Key("markets", "polymarket", "rates"))
}
