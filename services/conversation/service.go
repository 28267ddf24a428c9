package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calleroo/models"
	"calleroo/services/agent"
	"calleroo/utils"
)

// DefaultConversationService implements Service on a Redis state store
// with deterministic extraction and planning.
type DefaultConversationService struct {
	store     StateStore
	extractor *Extractor
	decisions DecisionCache
}

func NewConversationService(store StateStore, extractor *Extractor, decisions DecisionCache) *DefaultConversationService {
	return &DefaultConversationService{store: store, extractor: extractor, decisions: decisions}
}

func (s *DefaultConversationService) ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnResponse, error) {
	logger := utils.GetLogger()

	spec, err := agent.GetSpec(req.AgentType)
	if err != nil {
		return nil, err
	}

	// Replay check runs before anything utterance-dependent: the same key
	// and action always yield the decision made the first time.
	if req.IdempotencyKey != "" && s.decisions != nil {
		cached, err := s.decisions.Get(ctx, req.IdempotencyKey, req.Action)
		if err != nil {
			logger.Warn("idempotency lookup failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	state, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation state: %w", err)
	}
	// A fresh conversation, or one restarted under a different agent.
	if state == nil || state.AgentType != req.AgentType || req.Action == models.ClientActionStartOver {
		state = &models.ConversationState{
			ConversationID: conversationID,
			AgentType:      req.AgentType,
			Slots:          models.SlotValues{},
		}
	}

	// Client-submitted slots seed or override stored ones before extraction;
	// the client round-trips the slot map it last received. Internal flags
	// stay server-owned.
	for name, value := range req.Slots {
		if strings.HasPrefix(name, "_") || strings.TrimSpace(value) == "" {
			continue
		}
		state.Slots[name] = value
	}

	confidence := models.Confidence("")

	switch req.Action {
	case models.ClientActionSelectPlace:
		if req.Place == nil {
			return nil, fmt.Errorf("SELECT_PLACE requires a place")
		}
		s.applyPlace(state, req.Place)

	case models.ClientActionMessage:
		currentSlot := req.SlotName
		if currentSlot == "" {
			if next, ok := agent.NextSlot(spec, state.Slots); ok {
				currentSlot = next.Name
			}
		}
		outcome := s.extractor.Extract(ctx, spec, req.Message, currentSlot, state.Slots)
		for name, value := range outcome.Values {
			state.Slots[name] = value
		}
		confidence = outcome.Confidence
	}

	planned := Decide(spec, state.Slots, req.Action, req.Message, req.SlotName)
	if planned.SetConfirmedFlag {
		state.Slots[models.ConfirmedCoreDetailsKey] = "true"
	}

	state.UpdatedAt = time.Now().Unix()
	if err := s.store.Set(ctx, state); err != nil {
		return nil, fmt.Errorf("save conversation state: %w", err)
	}

	logger.Info("conversation turn",
		zap.String("conversationID", conversationID),
		zap.String("agentType", req.AgentType),
		zap.String("action", string(req.Action)),
		zap.String("nextAction", string(planned.NextAction)),
	)

	resp := &models.TurnResponse{
		ConversationID: conversationID,
		NextAction:     planned.NextAction,
		Question:       planned.Question,
		Confirmation:   planned.Confirmation,
		PlaceSearch:    planned.PlaceSearch,
		Slots:          state.Slots,
		Confidence:     confidence,
	}

	if req.IdempotencyKey != "" && s.decisions != nil {
		if err := s.decisions.Put(ctx, req.IdempotencyKey, req.Action, resp); err != nil {
			logger.Warn("idempotency store failed", zap.Error(err))
		}
	}
	return resp, nil
}

// applyPlace writes the selected place into the canonical place slots the
// planner checks before completing.
func (s *DefaultConversationService) applyPlace(state *models.ConversationState, place *models.PlaceCandidate) {
	state.Place = place
	state.Slots[PlaceIDSlot] = place.PlaceID
	phone := utils.NormalizeE164(place.Phone)
	if phone == "" {
		phone = place.Phone
	}
	state.Slots[PlacePhoneSlot] = phone
}

func (s *DefaultConversationService) GetState(ctx context.Context, conversationID string) (*models.ConversationState, error) {
	state, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("conversation not found: %s", conversationID)
	}
	return state, nil
}

func (s *DefaultConversationService) Reset(ctx context.Context, conversationID string) error {
	return s.store.Clear(ctx, conversationID)
}
