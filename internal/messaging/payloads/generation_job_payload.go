package payloads

import "fmt"

// GenerationJobPayload is the RabbitMQ message that asks a worker to run one
// generation record through the provider.
type GenerationJobPayload struct {
	GenerationID int64  `json:"generation_id"`
	UUID         string `json:"uuid"`
	Type         string `json:"type"`
	// Attempt starts at 1 and grows with every redelivery through the retry queue.
	Attempt int `json:"attempt"`
}

// Validate rejects payloads that cannot reference a record.
func (p GenerationJobPayload) Validate() error {
	if p.GenerationID <= 0 {
		return fmt.Errorf("payload: generation_id must be positive, got %d", p.GenerationID)
	}
	if p.Attempt < 1 {
		return fmt.Errorf("payload: attempt must be at least 1, got %d", p.Attempt)
	}
	return nil
}

// NextAttempt returns a copy scheduled for the following attempt.
func (p GenerationJobPayload) NextAttempt() GenerationJobPayload {
	p.Attempt++
	return p
}
