package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockItemAPI struct{ mock.Mock }

func (m *mockItemAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockItemAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func TestKV_GetReadsStringAttribute(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		pk, ok := in.Key[fieldInstanceID].(*types.AttributeValueMemberS)
		return *in.TableName == "sessions" && ok && pk.Value == "agent-1" && in.ExpressionAttributeNames["#k"] == "token"
	})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: "t1"},
	}}, nil)

	v, ok, err := NewKV(api, "sessions", "agent-1").Get(context.Background(), "token")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestKV_GetMissingItem(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, ok, err := NewKV(api, "sessions", "agent-1").Get(context.Background(), "role")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_GetWrongType(t *testing.T) {
	api := &mockItemAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"role": &types.AttributeValueMemberN{Value: "3"},
	}}, nil)

	_, _, err := NewKV(api, "sessions", "agent-1").Get(context.Background(), "role")
	assert.Error(t, err)
}

func TestKV_SetManyIsOneUpdate(t *testing.T) {
	api := &mockItemAPI{}
	var got *dynamodb.UpdateItemInput
	api.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{}, nil).Once()

	err := NewKV(api, "sessions", "agent-1").SetMany(context.Background(), map[string]string{"token": "t1", "role": "ADMIN"})

	require.NoError(t, err)
	api.AssertExpectations(t)
	require.NotNil(t, got)
	// role, token, updated_at
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", *got.UpdateExpression)
	assert.Equal(t, "role", got.ExpressionAttributeNames["#f0"])
	assert.Equal(t, fieldUpdatedAt, got.ExpressionAttributeNames["#f2"])
}

func TestKV_DeleteRemovesAttributes(t *testing.T) {
	api := &mockItemAPI{}
	api.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return *in.UpdateExpression == "REMOVE #f0, #f1" && in.ExpressionAttributeValues == nil
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	err := NewKV(api, "sessions", "agent-1").Delete(context.Background(), "token", "role")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestKV_UpdateErrorIsWrapped(t *testing.T) {
	boom := errors.New("throttled")
	api := &mockItemAPI{}
	api.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewKV(api, "sessions", "agent-1").SetMany(context.Background(), map[string]string{"token": "t"})

	assert.ErrorIs(t, err, boom)
}
