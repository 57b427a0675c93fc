package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/model"
)

// MQTTPublisher pushes scheduled entries to per-domain broker topics so
// paired devices can mirror the server's alert schedule.
type MQTTPublisher struct {
	client mqtt.Client
}

var _ Publisher = (*MQTTPublisher)(nil)

func NewMQTTPublisher(client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

func (p *MQTTPublisher) PublishEntry(entry model.NotificationEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("alerts/%s/%s", entry.Domain, entry.EventDate)
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish entry %d to %s: %v", entry.ID, topic, token.Error())
	}
	log.Debug().Int("id", entry.ID).Str("topic", topic).Msg("notification entry published")
	return nil
}
