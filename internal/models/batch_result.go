package models

// BatchResult is the partial batch response understood by the SQS event source mapping.
type BatchResult struct {
	BatchItemFailures []BatchItemFailure `json:"batchItemFailures"`
}

type BatchItemFailure struct {
	ItemIdentifier string `json:"itemIdentifier"`
}

// AddFailure marks one message of the batch for redelivery.
func (br *BatchResult) AddFailure(messageID string) {
	br.BatchItemFailures = append(br.BatchItemFailures, BatchItemFailure{ItemIdentifier: messageID})
}

func (br BatchResult) GetMessageIDs() []string {
	ids := []string{}

	for _, batchItemFailure := range br.BatchItemFailures {
		ids = append(ids, batchItemFailure.ItemIdentifier)
	}

	return ids
}
