package orders

const (
	TopicOrderPaid = "order.paid"
)

// Partition key = stripe session id, supaya semua event 1 order maintain urutan.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
