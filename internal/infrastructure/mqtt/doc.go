// Package mqtt is the daemon's signal bus client.
//
// Host pollers observe the machine (microphone, camera, screen
// recording, the audio process roster) and publish readings to a local
// broker; the daemon subscribes and folds them into its snapshot. The
// broker decouples the daemon from how each signal is sensed:
//
//	signal pollers → broker → busylightd
//
// The client layers three daemon conventions over paho: a retained
// system status topic (online on connect, LWT on crash, graceful
// offline on Close), subscription replay across reconnects, and panic
// recovery around message handlers.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil { ... }
//	defer client.Close()
//
//	client.Subscribe(mqtt.Topics{}.AllSignals(), 1, handle)
//	client.PublishRetained(mqtt.Topics{}.State(), stateJSON)
package mqtt
