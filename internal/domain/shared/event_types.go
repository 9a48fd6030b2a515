package shared

// EntryAction defines the mutation kinds recorded in the audit trail
type EntryAction string

const (
	EntryActionCreated EntryAction = "CREATED"
	EntryActionUpdated EntryAction = "UPDATED"
	EntryActionDeleted EntryAction = "DELETED"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
