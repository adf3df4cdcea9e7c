package app

import "net/http"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string       // config directory, e.g. $HOME/.claimwire
	RelayURL   string       // relayd base URL, e.g. http://127.0.0.1:7810
	MQTTBroker string       // optional MQTT broker URL; when set, mail rides MQTT instead of the relay
	HTTP       *http.Client // optional; defaults to http.DefaultClient
}
