package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brawlspace/brawlspace/internal/model"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := NewBroadcaster()

	ch1 := b.Subscribe(1, "sub1")
	ch2 := b.Subscribe(1, "sub2")
	other := b.Subscribe(2, "sub3")

	b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "hello"}))

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
	assert.Empty(t, other)

	ev := <-ch1
	assert.Equal(t, model.MessageTypeSystem, ev.Type)
	assert.Equal(t, "hello", ev.Message.Content)
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := NewBroadcaster()

	b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "before"}))

	ch := b.Subscribe(1, "late")
	b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "after"}))

	require.Len(t, ch, 1)
	assert.Equal(t, "after", (<-ch).Message.Content)
}

func TestSlowSubscriberNeverBlocks(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe(1, "slow")

	for i := 0; i < chanSize*3; i++ {
		b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "x"}))
	}

	// only the buffered window survives, the rest is dropped
	assert.Len(t, ch, chanSize)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe(1, "sub1")
	b.Unsubscribe(1, "sub1")

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, b.Subscribers(1))

	// publishing into an empty room is a no-op
	b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "x"}))
}

func TestResubscribeReplacesChannel(t *testing.T) {
	b := NewBroadcaster()

	old := b.Subscribe(1, "sub1")
	fresh := b.Subscribe(1, "sub1")

	_, ok := <-old
	assert.False(t, ok)

	b.Publish(1, model.NewSystemEvent(&model.MessageDTO{Content: "x"}))
	assert.Len(t, fresh, 1)
	assert.Equal(t, 1, b.Subscribers(1))
}

func TestDispatcherRecipientFilter(t *testing.T) {
	d := NewDispatcher()

	ch := d.Subscribe("client1")

	var uid uint = 7

	d.Send(&model.Notification{RecipientID: &uid, Title: "for 7"})
	d.Send(&model.Notification{Title: "for everyone"})

	require.Len(t, ch, 2)

	n1 := <-ch
	assert.True(t, n1.For(7))
	assert.False(t, n1.For(8))

	n2 := <-ch
	assert.True(t, n2.For(7))
	assert.True(t, n2.For(8))
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher()

	ch := d.Subscribe("client1")
	d.Unsubscribe("client1")

	_, ok := <-ch
	assert.False(t, ok)

	d.Send(&model.Notification{Title: "nobody home"})
}
