package conversation

import (
	"context"

	"calleroo/models"
)

// Service drives the slot-filling conversation that prepares a call.
type Service interface {
	ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnResponse, error)
	GetState(ctx context.Context, conversationID string) (*models.ConversationState, error)
	Reset(ctx context.Context, conversationID string) error
}
