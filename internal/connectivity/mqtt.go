package connectivity

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTTMonitor derives connectivity from the state of a broker connection:
// while the client holds a connection the device is treated as online, and
// every connect/disconnect flips the signal and notifies subscribers.
type MQTTMonitor struct {
	client mqtt.Client
	online atomic.Bool

	mu   sync.Mutex
	subs []chan State
}

var _ Signal = (*MQTTMonitor)(nil)

// connectTimeout bounds how long startup waits for the first broker
// handshake. Past it the monitor simply starts offline; the retrying
// client flips the signal once the broker becomes reachable.
const connectTimeout = 5 * time.Second

// NewMQTTMonitor connects to the broker and starts tracking connection
// state. A slow or unreachable broker does not fail construction: the
// monitor starts offline and auto-reconnect brings it online later.
func NewMQTTMonitor(brokerURL, clientID string) (*MQTTMonitor, error) {
	m := &MQTTMonitor{}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connectivity restored")
		m.flip(true)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("connectivity lost")
		m.flip(false)
	}

	m.client = mqtt.NewClient(opts)
	token := m.client.Connect()
	if token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}
	return m, nil
}

func (m *MQTTMonitor) Online() bool { return m.online.Load() }

func (m *MQTTMonitor) Subscribe() <-chan State {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Client exposes the underlying connection for components that publish
// over the same broker link.
func (m *MQTTMonitor) Client() mqtt.Client { return m.client }

// Close disconnects from the broker.
func (m *MQTTMonitor) Close() {
	m.client.Disconnect(250)
}

func (m *MQTTMonitor) flip(online bool) {
	if m.online.Swap(online) == online {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		// Drop rather than block: a slow subscriber only misses an
		// intermediate transition, and Online() is always authoritative.
		select {
		case ch <- State{Online: online}:
		default:
		}
	}
}
