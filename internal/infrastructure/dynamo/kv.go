package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ItemAPI is the part of *dynamodb.Client used by KV.
type ItemAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// KV stores the session keys of one agent instance as attributes of a
// single item, so every multi-key write is one UpdateItem call.
type KV struct {
	client     ItemAPI
	tableName  string
	instanceID string
}

func NewKV(client ItemAPI, tableName, instanceID string) *KV {
	return &KV{client: client, tableName: tableName, instanceID: instanceID}
}

func (r *KV) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldInstanceID, r.instanceID),
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     aws.String("#k"),
		ExpressionAttributeNames: map[string]string{"#k": key},
	})
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	if out.Item == nil {
		return "", false, nil
	}
	switch v := out.Item[key].(type) {
	case nil:
		return "", false, nil
	case *types.AttributeValueMemberS:
		return v.Value, true, nil
	default:
		return "", false, fmt.Errorf("attribute %s has type %T, want string", key, v)
	}
}

func (r *KV) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		updates[k] = v
	}
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldInstanceID, r.instanceID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update session item: %w", err)
	}
	return nil
}

func (r *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ue, err := buildRemoveExpr(keys)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldInstanceID, r.instanceID),
		UpdateExpression:         aws.String(ue.Expr),
		ExpressionAttributeNames: ue.Names,
	})
	if err != nil {
		return fmt.Errorf("remove session attributes: %w", err)
	}
	return nil
}
