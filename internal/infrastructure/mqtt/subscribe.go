package mqtt

import "fmt"

// Subscribe registers a handler for a topic pattern. Wildcards are the
// usual MQTT ones: `+` for one level (busylight/signal/+), `#` for the
// rest of the tree.
//
// The subscription survives reconnects; the client replays it on every
// new session. Handlers run on paho's goroutines and should return
// promptly.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.mu.Lock()
	c.subscriptions[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.subscriptions, topic)
		c.mu.Unlock()
	}

	token := c.paho.Subscribe(topic, qos, c.wrapHandler(handler))
	if !token.WaitTimeout(publishTimeout) {
		forget()
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		forget()
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}
