package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	queueClient "github.com/husd-protocol/settlement-api-service/internal/queue/client"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

// ScheduleSignedHandler completes a deposit once the ledger gateway reports the user
// co-signature. Completion is idempotent on scheduleId, so redelivered messages are
// tolerated.
func (h *QueueHandler) ScheduleSignedHandler(ctx context.Context, messageBody string) *types.Error {
	var signedEvent queueClient.ScheduleSignedEvent
	err := json.Unmarshal([]byte(messageBody), &signedEvent)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal the message body into ScheduleSignedEvent")
		return types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}

	_, completeErr := h.Services.CompleteDeposit(ctx, signedEvent.ScheduleID, signedEvent.SignatureProof)
	if completeErr != nil {
		// Transient upstream faults requeue; terminal failures were already recorded
		// on the ticket by the service, nothing left to do with the message.
		if completeErr.IsTransient() {
			return completeErr
		}
		log.Ctx(ctx).Warn().
			Str("scheduleId", signedEvent.ScheduleID).
			Str("errorCode", completeErr.ErrorCode.String()).
			Msg("deposit completion from co-signature callback did not succeed")
		return nil
	}

	return nil
}
