package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

func (db *Database) SaveDepositTicket(
	ctx context.Context, scheduleId, userAccountId,
	sourceAmountUsdc, expectedHusdAmount, quotedRate, rateSequence string,
) error {
	client := db.Client.Database(db.DbName).Collection(model.DepositTicketCollection)
	now := time.Now().UTC()
	document := model.DepositTicketDocument{
		ScheduleID:         scheduleId, // Primary key of db collection
		UserAccountID:      userAccountId,
		SourceAmountUsdc:   sourceAmountUsdc,
		ExpectedHusdAmount: expectedHusdAmount,
		QuotedRate:         quotedRate,
		RateSequence:       rateSequence,
		State:              types.DepositAwaitingSignature,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					// Return the custom error type so that we can return 4xx errors to client
					return &DuplicateKeyError{
						Key:     scheduleId,
						Message: "Deposit ticket already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindDepositTicketByScheduleId(ctx context.Context, scheduleId string) (*model.DepositTicketDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.DepositTicketCollection)
	filter := bson.M{"_id": scheduleId}
	var ticket model.DepositTicketDocument
	err := client.FindOne(ctx, filter).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     scheduleId,
				Message: "Deposit ticket not found",
			}
		}
		return nil, err
	}
	return &ticket, nil
}

// TransitionDepositToCompleted marks the ticket completed and caches the completion tx id.
// It returns a NotFoundError if the ticket is not found or not in an eligible state,
// so a concurrent duplicate completion cannot overwrite the first result.
func (db *Database) TransitionDepositToCompleted(
	ctx context.Context, scheduleId, completedTxId string, eligiblePreviousStates []types.DepositState,
) error {
	update := bson.M{"completed_tx_id": completedTxId}
	return db.transitionDepositState(ctx, scheduleId, types.DepositCompleted, eligiblePreviousStates, update)
}

// TransitionDepositToFailed marks the ticket failed with the classified ledger reason.
func (db *Database) TransitionDepositToFailed(
	ctx context.Context, scheduleId, reason string, eligiblePreviousStates []types.DepositState,
) error {
	update := bson.M{"failure_reason": reason}
	return db.transitionDepositState(ctx, scheduleId, types.DepositFailed, eligiblePreviousStates, update)
}

func (db *Database) transitionDepositState(
	ctx context.Context, scheduleId string, newState types.DepositState,
	eligiblePreviousStates []types.DepositState, extraFields bson.M,
) error {
	client := db.Client.Database(db.DbName).Collection(model.DepositTicketCollection)
	filter := bson.M{"_id": scheduleId, "state": bson.M{"$in": eligiblePreviousStates}}
	set := bson.M{"state": newState, "updated_at": time.Now().UTC()}
	for k, v := range extraFields {
		set[k] = v
	}
	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     scheduleId,
			Message: "Deposit ticket not found or not in eligible state to transition",
		}
	}
	return nil
}
