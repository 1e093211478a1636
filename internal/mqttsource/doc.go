// Package mqttsource is the optional MQTT ingest path for field units
// that publish readings over a broker instead of HTTP.
//
// It subscribes to a single topic filter (default "hydroponics/+/readings")
// and feeds every decoded payload into the monitor service. The payload
// shape matches POST /api/v1/sensor; when the payload omits unitId the
// unit is taken from the second topic segment. Malformed messages are
// logged and dropped so one misbehaving sensor cannot take the server down.
//
// The source only runs when a broker URL is configured.
package mqttsource
