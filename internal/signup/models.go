package signup

import (
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/events"
	"activity-signup/internal/roster"
)

const (
	OperationRegister   = "register"
	OperationUnregister = "unregister"
)

// Result describes a successful roster mutation.
type Result struct {
	Message string
	Event   events.RosterEvent
}

type ServiceDependencies struct {
	Store         *roster.Store
	Publisher     events.Publisher
	Observability *observability.Observability
	Logger        logger.Logger
}
