// Package relay implements the buzzer relay loop.
//
// Every tick it makes sure a device channel is open, polls the status
// endpoint and sends ON or OFF to the buzzer. Transitions are logged and
// optionally mirrored to MQTT. On interrupt the buzzer is switched off and
// the port released.
package relay
