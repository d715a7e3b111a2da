package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartBus_PublishReachesAllSubscribers(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(func(id string) { got = append(got, "a:"+id) })
	b.Subscribe(func(id string) { got = append(got, "b:"+id) })

	b.Publish("cart_1")

	assert.ElementsMatch(t, []string{"a:cart_1", "b:cart_1"}, got)
}

func TestCartBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var calls int
	unsubscribe := b.Subscribe(func(string) { calls++ })

	b.Publish("cart_1")
	unsubscribe()
	b.Publish("cart_1")

	assert.Equal(t, 1, calls)
}

func TestCartBus_SubscriberMayPublishAgain(t *testing.T) {
	b := New()

	var seen []string
	b.Subscribe(func(id string) {
		seen = append(seen, id)
		if id == "first" {
			b.Publish("second")
		}
	})

	b.Publish("first")

	assert.Equal(t, []string{"first", "second"}, seen)
}
