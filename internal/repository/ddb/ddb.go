// Package ddb implements the repository store on AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
package ddb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"karmdeep-backend/internal/keys"
	"karmdeep-backend/internal/repository"
	appErrors "karmdeep-backend/pkg/errors"
)

const (
	// DynamoDB caps BatchWriteItem at 25 items per call.
	batchLimit = 25

	// Bounded retry for unprocessed batch items.
	batchMaxAttempts = 3
	batchBaseBackoff = 100 * time.Millisecond
)

// ddbStore is the concrete Store implementation for DynamoDB.
type ddbStore struct {
	client   *dynamodb.Client
	table    string
	gsi1Name string
	gsi2Name string
	logger   *zap.Logger
}

// NewStore creates a store over the shared single table. gsi1Name and
// gsi2Name are the physical names of the two secondary indexes.
func NewStore(client *dynamodb.Client, table, gsi1Name, gsi2Name string, logger *zap.Logger) repository.Store {
	return &ddbStore{
		client:   client,
		table:    table,
		gsi1Name: gsi1Name,
		gsi2Name: gsi2Name,
		logger:   logger,
	}
}

func (s *ddbStore) Put(ctx context.Context, record repository.Record) error {
	item, err := attributevalue.MarshalMap(map[string]interface{}(record))
	if err != nil {
		return appErrors.NewInternal("failed to marshal item", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "put item failed")
	}
	return nil
}

func (s *ddbStore) Get(ctx context.Context, key keys.Key) (repository.Record, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       primaryKey(key),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "get item failed")
	}
	if result.Item == nil {
		return nil, nil // Not found
	}

	var rec map[string]interface{}
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, appErrors.NewInternal("failed to unmarshal item", err)
	}
	return repository.Record(rec), nil
}

func (s *ddbStore) Query(ctx context.Context, q repository.Query) (*repository.Page, error) {
	pkAttr, skAttr := keys.AttrPK, keys.AttrSK
	var indexName *string
	switch q.Index {
	case "":
	case repository.IndexGSI1:
		pkAttr, skAttr = keys.AttrGSI1PK, keys.AttrGSI1SK
		indexName = aws.String(s.gsi1Name)
	case repository.IndexGSI2:
		pkAttr, skAttr = keys.AttrGSI2PK, keys.AttrGSI2SK
		indexName = aws.String(s.gsi2Name)
	default:
		return nil, appErrors.NewValidation("unknown index: " + q.Index)
	}

	keyCond := expression.Key(pkAttr).Equal(expression.Value(q.Partition))
	if q.SortPrefix != "" {
		keyCond = keyCond.And(expression.Key(skAttr).BeginsWith(q.SortPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.NewInternal("failed to build query expression", err)
	}

	startKey, err := repository.DecodeNextToken(q.NextToken)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(repository.EffectiveLimit(q.Limit))),
	}
	if startKey != nil {
		input.ExclusiveStartKey = cursorToKey(*startKey)
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, appErrors.Wrap(err, "query failed")
	}

	page := &repository.Page{Items: make([]repository.Record, 0, len(result.Items))}
	for _, item := range result.Items {
		var rec map[string]interface{}
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.NewInternal("failed to unmarshal item", err)
		}
		page.Items = append(page.Items, repository.Record(rec))
	}
	if len(result.LastEvaluatedKey) > 0 {
		page.NextToken = repository.EncodeNextToken(keyToCursor(result.LastEvaluatedKey))
	}
	return page, nil
}

func (s *ddbStore) Update(ctx context.Context, key keys.Key, updates repository.Record) (repository.Record, error) {
	if len(updates) == 0 {
		return nil, appErrors.NewValidation("no attributes to update")
	}
	if _, ok := updates["updatedAt"]; !ok {
		updates = updates.Clone()
		updates["updatedAt"] = repository.Timestamp(time.Now())
	}

	update := expression.UpdateBuilder{}
	for name, value := range updates {
		update = update.Set(expression.Name(name), expression.Value(value))
	}
	// Reject updates to absent keys instead of creating partial records.
	cond := expression.AttributeExists(expression.Name(keys.AttrPK))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, appErrors.NewInternal("failed to build update expression", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       primaryKey(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, appErrors.NewNotFound("record not found")
		}
		return nil, appErrors.Wrap(err, "update item failed")
	}

	var rec map[string]interface{}
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, appErrors.NewInternal("failed to unmarshal updated item", err)
	}
	return repository.Record(rec), nil
}

func (s *ddbStore) Delete(ctx context.Context, key keys.Key) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       primaryKey(key),
	})
	if err != nil {
		return appErrors.Wrap(err, "delete item failed")
	}
	return nil
}

func (s *ddbStore) BatchPut(ctx context.Context, records []repository.Record) error {
	for start := 0; start < len(records); start += batchLimit {
		end := start + batchLimit
		if end > len(records) {
			end = len(records)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, rec := range records[start:end] {
			item, err := attributevalue.MarshalMap(map[string]interface{}(rec))
			if err != nil {
				return appErrors.NewInternal("failed to marshal batch item", err)
			}
			writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := s.writeBatch(ctx, writes); err != nil {
			return err
		}
	}
	return nil
}

// writeBatch retries unprocessed items with exponential backoff instead of
// dropping them.
func (s *ddbStore) writeBatch(ctx context.Context, writes []types.WriteRequest) error {
	backoff := batchBaseBackoff
	for attempt := 0; attempt < batchMaxAttempts; attempt++ {
		result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{s.table: writes},
		})
		if err != nil {
			return appErrors.Wrap(err, "batch write failed")
		}

		writes = result.UnprocessedItems[s.table]
		if len(writes) == 0 {
			return nil
		}

		s.logger.Warn("Retrying unprocessed batch items",
			zap.Int("count", len(writes)),
			zap.Int("attempt", attempt+1),
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return appErrors.Wrap(ctx.Err(), "batch write cancelled")
		}
	}
	return appErrors.NewInternal("batch write left unprocessed items after retries", nil)
}

func primaryKey(key keys.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keys.AttrPK: &types.AttributeValueMemberS{Value: key.PK},
		keys.AttrSK: &types.AttributeValueMemberS{Value: key.SK},
	}
}

func cursorToKey(cursor repository.LastEvaluatedKey) map[string]types.AttributeValue {
	key := make(map[string]types.AttributeValue)
	set := func(attr, value string) {
		if value != "" {
			key[attr] = &types.AttributeValueMemberS{Value: value}
		}
	}
	set(keys.AttrPK, cursor.PK)
	set(keys.AttrSK, cursor.SK)
	set(keys.AttrGSI1PK, cursor.GSI1PK)
	set(keys.AttrGSI1SK, cursor.GSI1SK)
	set(keys.AttrGSI2PK, cursor.GSI2PK)
	set(keys.AttrGSI2SK, cursor.GSI2SK)
	return key
}

func keyToCursor(key map[string]types.AttributeValue) repository.LastEvaluatedKey {
	get := func(attr string) string {
		if v, ok := key[attr].(*types.AttributeValueMemberS); ok {
			return v.Value
		}
		return ""
	}
	return repository.LastEvaluatedKey{
		PK:     get(keys.AttrPK),
		SK:     get(keys.AttrSK),
		GSI1PK: get(keys.AttrGSI1PK),
		GSI1SK: get(keys.AttrGSI1SK),
		GSI2PK: get(keys.AttrGSI2PK),
		GSI2SK: get(keys.AttrGSI2SK),
	}
}
