package dynamo

// Attribute names owned by this package. Session values are stored under
// their own storage key names next to these.
const (
	fieldInstanceID = "instance_id"
	fieldUpdatedAt  = "updated_at"
)
