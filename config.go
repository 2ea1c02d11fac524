package ixa

// Config holds global configuration for the property store
var Config config = config{}

type config struct {
	storeEvents StoreEvents
}

// StoreEvents are optional callbacks observing store mutations.
// OnPropertySet fires on explicit assignment only: neither initial values
// at entity creation nor derived cache fills report it.
type StoreEvents struct {
	OnPropertySet   func(*Context, EntityID, PropertyInfo)
	OnEntityCreated func(*Context, EntityID)
}

// SetStoreEvents configures the store event callbacks
func (c *config) SetStoreEvents(ev StoreEvents) {
	c.storeEvents = ev
}
