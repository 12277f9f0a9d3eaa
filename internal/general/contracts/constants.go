package contracts

// Exchanges
const (
	ExchangeNavigationFanout = "navigation_fanout"
	ExchangeNavigationTopic  = "navigation_topic"
)

// Queues
const (
	QueuePositionUpdates = "position_updates"
	QueueRouteCommands   = "route_commands"
)

// Routing keys (topic exchange)
const (
	RoutingPositionUpdate = "position.update"
	RoutingRouteGo        = "route.go"
	RoutingRouteCancel    = "route.cancel"
)

// Route command kinds
const (
	CommandGo     = "go"
	CommandCancel = "cancel"
)

// Producer identifiers stamped into envelopes.
const (
	ProducerNavigationService = "navigation_service"
	ProducerBotGateway        = "bot_gateway"
)
