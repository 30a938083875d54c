package shutdown

// Workers with a higher priority are stopped first.
// Please add the dependencies if you add your own priority here.

const (
	PriorityCloseDatabase   = iota // no dependencies
	PriorityCloseIndexer           // depends on PriorityEventDispatcher
	PriorityMQTTBroker             // depends on PriorityEventDispatcher
	PriorityEventDispatcher        // triggered by PriorityRestAPI
	PriorityRestAPI                // depends on PriorityCloseDatabase
	PriorityPrometheus
	PriorityProfiling
)
