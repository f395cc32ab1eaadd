package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSESService struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, m.err
}

type MockSNSService struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, m.err
}

const testTopic = "arn:aws:sns:us-east-1:123456789012:roster-events"

func TestSNSPublisher_Publish(t *testing.T) {
	mock := &MockSNSService{}
	event := createTestEvent()

	require.NoError(t, NewSNSPublisher(mock, testTopic).Publish(context.Background(), event))

	require.Len(t, mock.inputs, 1)
	input := mock.inputs[0]
	assert.Equal(t, testTopic, aws.ToString(input.TopicArn))
	assert.Equal(t, "participant.signed_up", aws.ToString(input.MessageAttributes["event_type"].StringValue))

	var got RosterEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(input.Message)), &got))
	assert.Equal(t, event.ID, got.ID)
}

func TestSNSPublisher_Error(t *testing.T) {
	mock := &MockSNSService{err: errors.New("throttled")}

	err := NewSNSPublisher(mock, testTopic).Publish(context.Background(), createTestEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSESNotifier_SignedUp(t *testing.T) {
	mock := &MockSESService{}

	require.NoError(t, NewSESNotifier(mock, "activities@mergington.edu").Publish(context.Background(), createTestEvent()))

	require.Len(t, mock.inputs, 1)
	input := mock.inputs[0]
	assert.Equal(t, "activities@mergington.edu", aws.ToString(input.Source))
	assert.Equal(t, []string{"test@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(input.Message.Subject.Data), "Chess Club")
}

func TestSESNotifier_IgnoresUnregister(t *testing.T) {
	mock := &MockSESService{}
	event := createTestEvent()
	event.Type = TypeUnregistered

	require.NoError(t, NewSESNotifier(mock, "activities@mergington.edu").Publish(context.Background(), event))
	assert.Empty(t, mock.inputs)
}

func TestSESNotifier_Error(t *testing.T) {
	mock := &MockSESService{err: errors.New("message rejected")}

	err := NewSESNotifier(mock, "activities@mergington.edu").Publish(context.Background(), createTestEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test@example.com")
}
