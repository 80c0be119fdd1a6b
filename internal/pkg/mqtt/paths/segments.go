package paths

// Topic segments for the rover telemetry protocol.
// Every subscriber (flightlog watch, ground stations) relies on these values.

const (
	// Movement is the topic segment for recorded movements.
	// Payload: "ACTION,speed"
	// Pattern: {root}/movement
	Movement = "movement"

	// Controller is the topic segment for raw controller events forwarded by listeners.
	// Payload: protojson Struct { "event": "...", "value": 0, "timestamp": "..." }
	// Pattern: {root}/controller/{event}
	Controller = "controller"
)

const (
	// Status is the retained presence topic of a listener; the broker publishes "offline"
	// as its will when the listener drops.
	// Pattern: {root}/status
	Status = "status"
)
