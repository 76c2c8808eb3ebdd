package events

// EventCollector is embedded in aggregates to collect domain events.
type EventCollector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *EventCollector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// DomainEvents returns the collected events and clears the collector.
func (c *EventCollector) DomainEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
