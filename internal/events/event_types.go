package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCategoryChanged   EventType = "category_changed"
	EventCategoryDeleted   EventType = "category_deleted"
	EventItemsChanged      EventType = "items_changed"
	EventItemsReordered    EventType = "items_reordered"
	EventRestaurantChanged EventType = "restaurant_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CategoryID string      `json:"category_id,omitempty"`
	AdminID    string      `json:"admin_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// ItemsReorderedPayload payload.
type ItemsReorderedPayload struct {
	ItemNamesInOrder []string `json:"item_names_in_order"`
}

// ItemChangedPayload payload.
type ItemChangedPayload struct {
	ItemName string `json:"item_name"`
	Deleted  bool   `json:"deleted,omitempty"`
}
