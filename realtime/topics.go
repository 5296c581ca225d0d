package realtime

import (
	"encoding/json"
	"log"
)

// Well-known broker topics published by the monitoring services.
const (
	TopicSensorReadings = "/topic/sensor-readings"
	TopicHealthUpdates  = "/topic/health-updates"
	TopicAlerts         = "/topic/alerts"
	TopicSensorAlerts   = "/topic/sensor-alerts"
)

// SensorReading is one live measurement pushed on [TopicSensorReadings].
type SensorReading struct {
	ID        string  `json:"id"`
	SensorID  string  `json:"sensorId"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"`
	Anomaly   bool    `json:"anomaly,omitempty"`
	Quality   string  `json:"quality,omitempty"`
}

// HealthUpdate is one asset health record pushed on [TopicHealthUpdates].
type HealthUpdate struct {
	ID              string   `json:"id"`
	AssetID         string   `json:"assetId"`
	Status          string   `json:"status"`
	Score           float64  `json:"score,omitempty"`
	Details         string   `json:"details,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	RecordedAt      string   `json:"recordedAt"`
}

// AlertEvent is one alert broadcast on [TopicAlerts] or [TopicSensorAlerts].
type AlertEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	Status       string `json:"status"`
	AssetID      string `json:"assetId,omitempty"`
	SensorID     string `json:"sensorId,omitempty"`
	Acknowledged bool   `json:"acknowledged"`
	CreatedAt    string `json:"createdAt"`
}

// SubscribeSensorReadings subscribes to live sensor readings with typed
// decoding. Payloads that fail to decode are logged and dropped.
func (c *Channel) SubscribeSensorReadings(fn func(SensorReading)) string {
	return subscribeTyped(c, TopicSensorReadings, fn)
}

// SubscribeHealthUpdates subscribes to asset health updates.
func (c *Channel) SubscribeHealthUpdates(fn func(HealthUpdate)) string {
	return subscribeTyped(c, TopicHealthUpdates, fn)
}

// SubscribeAlerts subscribes to platform alert broadcasts.
func (c *Channel) SubscribeAlerts(fn func(AlertEvent)) string {
	return subscribeTyped(c, TopicAlerts, fn)
}

func subscribeTyped[T any](c *Channel, topic string, fn func(T)) string {
	return c.Subscribe(topic, func(raw json.RawMessage) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			log.Print("roadauth: dropping undecodable payload on " + topic)
			c.observe(EventDecodeError, topic, err)
			return
		}
		fn(v)
	})
}
