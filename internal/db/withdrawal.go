package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/husd-protocol/settlement-api-service/internal/db/model"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

func (db *Database) SaveWithdrawal(ctx context.Context, document *model.WithdrawalDocument) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawalCollection)
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					// Triggered by the (user_account_id, idempotency_key) unique index on replays
					return &DuplicateKeyError{
						Key:     document.RequestID,
						Message: "Withdrawal already exists for this idempotency key",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindWithdrawalByRequestId(ctx context.Context, requestId string) (*model.WithdrawalDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawalCollection)
	filter := bson.M{"_id": requestId}
	var withdrawal model.WithdrawalDocument
	err := client.FindOne(ctx, filter).Decode(&withdrawal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     requestId,
				Message: "Withdrawal not found",
			}
		}
		return nil, err
	}
	return &withdrawal, nil
}

// FindProcessableWithdrawals returns standard withdrawals whose time lock has elapsed,
// oldest first, capped by the db batch size limit. Unlock is time-only; the worker is
// the sole caller that transitions these records out of pending.
func (db *Database) FindProcessableWithdrawals(ctx context.Context, now time.Time) ([]model.WithdrawalDocument, error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawalCollection)
	filter := bson.M{
		"type":      types.WithdrawalStandard,
		"status":    types.WithdrawalPending,
		"unlock_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.M{"unlock_at": 1}).
		SetLimit(db.cfg.DbBatchSizeLimit)

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []model.WithdrawalDocument
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// TransitionWithdrawalState updates the status of a withdrawal record.
// It returns a NotFoundError if the record is not found or not in an eligible state.
func (db *Database) TransitionWithdrawalState(
	ctx context.Context, requestId string, newState types.WithdrawalState,
	eligiblePreviousStates []types.WithdrawalState, completedTxId, failureReason string,
) error {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawalCollection)
	filter := bson.M{"_id": requestId, "status": bson.M{"$in": eligiblePreviousStates}}
	set := bson.M{"status": newState, "updated_at": time.Now().UTC()}
	if completedTxId != "" {
		set["completed_tx_id"] = completedTxId
	}
	if failureReason != "" {
		set["failure_reason"] = failureReason
	}
	result, err := client.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     requestId,
			Message: "Withdrawal not found or not in eligible state to transition",
		}
	}
	return nil
}

func (db *Database) FindWithdrawalsByUser(
	ctx context.Context, userAccountId string, paginationToken string,
) (*DbResultMap[model.WithdrawalDocument], error) {
	client := db.Client.Database(db.DbName).Collection(model.WithdrawalCollection)

	filter := bson.M{"user_account_id": userAccountId}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(db.cfg.MaxPaginationLimit)

	// Decode the pagination token first if it exists
	if paginationToken != "" {
		decodedToken, err := model.DecodeWithdrawalByUserPaginationToken(paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "Invalid pagination token",
			}
		}
		filter = bson.M{
			"user_account_id": userAccountId,
			"$or": []bson.M{
				{"created_at": bson.M{"$lt": decodedToken.CreatedAt}},
				{"created_at": decodedToken.CreatedAt, "_id": bson.M{"$gt": decodedToken.RequestID}},
			},
		}
	}

	cursor, err := client.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var withdrawals []model.WithdrawalDocument
	if err = cursor.All(ctx, &withdrawals); err != nil {
		return nil, err
	}

	return toResultMapWithPaginationToken(db.cfg, withdrawals, model.BuildWithdrawalByUserPaginationToken)
}
