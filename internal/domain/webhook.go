package domain

// Webhook topics Tiendanube delivers to us. Product and category update
// storms are coalesced by the debouncer before resyncing.
const (
	TopicProductCreated  = "products/create"
	TopicProductUpdated  = "products/update"
	TopicProductDeleted  = "products/delete"
	TopicCategoryCreated = "categories/create"
	TopicCategoryUpdated = "categories/update"
	TopicCategoryDeleted = "categories/delete"
	TopicAppUninstalled  = "app/uninstalled"
	TopicStoreRedact     = "store/redact"
)

// WebhookEvent is a verified webhook delivery handed to the dispatcher.
// Signature verification happens at the HTTP boundary before this exists.
type WebhookEvent struct {
	Topic   string `json:"event"`
	StoreID int64  `json:"store_id"`
	// EntityID is the remote product or category id the event refers to.
	// Zero for store-level topics.
	EntityID int64 `json:"id"`
}
